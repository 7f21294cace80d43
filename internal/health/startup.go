// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ManuGH/streamplayer/internal/config"
	"github.com/ManuGH/streamplayer/internal/log"
	"github.com/ManuGH/streamplayer/internal/media"
	"github.com/rs/zerolog"
)

// PerformStartupChecks validates the environment before the servers start.
// A missing media file is only a warning: /video answers 404 until it appears.
func PerformStartupChecks(ctx context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("running pre-flight startup checks")

	if err := checkListeners(logger, cfg); err != nil {
		return fmt.Errorf("listener check failed: %w", err)
	}
	checkMedia(ctx, logger, cfg.Media)

	logger.Info().Msg("all startup checks passed")
	return nil
}

func checkListeners(logger zerolog.Logger, cfg config.AppConfig) error {
	if cfg.Metrics.ListenAddr == "" {
		logger.Info().Str("addr", cfg.API.ListenAddr).Msg("metrics listener disabled")
		return nil
	}
	_, apiPort, err := net.SplitHostPort(cfg.API.ListenAddr)
	if err != nil {
		return fmt.Errorf("invalid API listen address %q: %w", cfg.API.ListenAddr, err)
	}
	_, metricsPort, err := net.SplitHostPort(cfg.Metrics.ListenAddr)
	if err != nil {
		return fmt.Errorf("invalid metrics listen address %q: %w", cfg.Metrics.ListenAddr, err)
	}
	if apiPort == metricsPort && apiPort != "0" {
		return fmt.Errorf("API and metrics listeners share port %s", apiPort)
	}
	logger.Info().
		Str("api_addr", cfg.API.ListenAddr).
		Str("metrics_addr", cfg.Metrics.ListenAddr).
		Msg("listen addresses are valid")
	return nil
}

func checkMedia(ctx context.Context, logger zerolog.Logger, cfg config.MediaConfig) {
	info, err := media.NewResource(cfg.Path, cfg.ContentType).Stat(ctx)
	switch {
	case errors.Is(err, media.ErrNotFound):
		logger.Warn().Str(log.FieldPath, cfg.Path).Msg("media file not found; /video will answer 404 until it exists")
	case err != nil:
		logger.Warn().Err(err).Str(log.FieldPath, cfg.Path).Msg("media file is not accessible")
	default:
		logger.Info().
			Str(log.FieldPath, info.Path).
			Int64(log.FieldSize, info.Size).
			Str(log.FieldContentType, info.ContentType).
			Msg("media file is readable")
	}
}
