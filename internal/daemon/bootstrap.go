// SPDX-License-Identifier: MIT

// Package daemon provides the core daemon bootstrapping and lifecycle management.
package daemon

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ManuGH/streamplayer/internal/api"
	"github.com/ManuGH/streamplayer/internal/config"
	"github.com/ManuGH/streamplayer/internal/health"
	"github.com/ManuGH/streamplayer/internal/log"
	"github.com/ManuGH/streamplayer/internal/metrics"
	"github.com/ManuGH/streamplayer/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options identify the build and the optional config file.
type Options struct {
	ConfigPath string
	Version    string
	Commit     string
}

// Run loads configuration, wires every subsystem and serves until ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	// Safe defaults until the config is loaded.
	log.Configure(log.Config{
		Level:   "info",
		Service: "streamplayer",
		Version: opts.Version,
	})
	logger := log.WithComponent("daemon")

	loader := config.NewLoader(opts.ConfigPath, opts.Version)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: opts.Version,
	})
	logger = log.WithComponent("daemon")
	source := "env+defaults"
	if opts.ConfigPath != "" {
		source = "file"
	}
	logger.Info().
		Str(log.FieldEvent, "config.loaded").
		Str("source", source).
		Str(log.FieldPath, opts.ConfigPath).
		Msg("configuration loaded")

	metrics.SetBuildInfo(opts.Version, opts.Commit, runtime.Version())

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	provider := initTelemetry(ctx, cfg, opts.Version)

	holder := config.NewConfigHolder(cfg, loader, opts.ConfigPath)
	srv, err := api.New(holder)
	if err != nil {
		return fmt.Errorf("failed to build API server: %w", err)
	}

	mgr, err := NewManager(config.ServerConfigFor(cfg), Deps{
		Logger:         logger,
		APIHandler:     srv.Handler(),
		MetricsHandler: promhttp.Handler(),
		MetricsAddr:    cfg.Metrics.ListenAddr,
		Drainer:        srv,
	})
	if err != nil {
		return err
	}
	if provider != nil {
		mgr.RegisterShutdownHook("telemetry", provider.Shutdown)
	}

	logger.Info().
		Str("version", opts.Version).
		Str("listen", cfg.API.ListenAddr).
		Str("metrics", cfg.Metrics.ListenAddr).
		Str(log.FieldPath, cfg.Media.Path).
		Msg("Starting streamplayer daemon")

	return NewApp(logger, mgr, holder).Run(ctx)
}

// initTelemetry starts tracing when enabled. Failures are logged and the
// daemon continues without tracing.
func initTelemetry(ctx context.Context, cfg config.AppConfig, version string) *telemetry.Provider {
	if !cfg.Telemetry.Enabled {
		return nil
	}
	logger := log.WithComponent("telemetry")

	telCfg := telemetry.Config{
		Enabled:        true,
		ServiceName:    cfg.LogService,
		ServiceVersion: version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	}
	provider, err := telemetry.NewProvider(ctx, telCfg)
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry initialization failed, continuing without tracing")
		return nil
	}

	logger.Info().
		Str("service", telCfg.ServiceName).
		Str("exporter", telCfg.ExporterType).
		Str("endpoint", telCfg.Endpoint).
		Float64("sampling_rate", telCfg.SamplingRate).
		Msg("Telemetry initialized")
	return provider
}
