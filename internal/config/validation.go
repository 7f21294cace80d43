// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"mime"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// Validate checks a resolved configuration. All problems are reported together.
// A missing media file is not a validation error: the handler answers 404
// until the file appears.
func Validate(cfg AppConfig) error {
	var errs []error

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel %q: %w", cfg.LogLevel, err))
	}
	if err := validateListenAddr(cfg.API.ListenAddr); err != nil {
		errs = append(errs, fmt.Errorf("api.listenAddr: %w", err))
	}
	if cfg.Metrics.ListenAddr != "" {
		if err := validateListenAddr(cfg.Metrics.ListenAddr); err != nil {
			errs = append(errs, fmt.Errorf("metrics.listenAddr: %w", err))
		}
	}
	for _, entry := range cfg.API.TrustedProxies {
		if err := validateCIDROrIP(entry); err != nil {
			errs = append(errs, fmt.Errorf("api.trustedProxies: %w", err))
		}
	}
	for _, entry := range cfg.API.RateLimit.Whitelist {
		if err := validateCIDROrIP(entry); err != nil {
			errs = append(errs, fmt.Errorf("api.rateLimit.whitelist: %w", err))
		}
	}
	if cfg.API.RateLimit.Enabled && cfg.API.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("api.rateLimit.requestsPerMinute must be positive when rate limiting is enabled"))
	}

	if strings.TrimSpace(cfg.Media.Path) == "" {
		errs = append(errs, errors.New("media.path must not be empty"))
	}
	if _, _, err := mime.ParseMediaType(cfg.Media.ContentType); err != nil {
		errs = append(errs, fmt.Errorf("media.contentType %q: %w", cfg.Media.ContentType, err))
	}

	if cfg.Stream.ChunkSize < 512 || cfg.Stream.ChunkSize > 4<<20 {
		errs = append(errs, fmt.Errorf("stream.chunkSize %d out of range [512, 4194304]", cfg.Stream.ChunkSize))
	}
	if cfg.Stream.MaxBytesPerSecond < 0 {
		errs = append(errs, errors.New("stream.maxBytesPerSecond must not be negative"))
	}

	if cfg.Server.MaxConnections < 0 {
		errs = append(errs, errors.New("server.maxConnections must not be negative"))
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			errs = append(errs, fmt.Errorf("telemetry.exporter %q (supported: grpc, http)", cfg.Telemetry.Exporter))
		}
		if cfg.Telemetry.Endpoint == "" {
			errs = append(errs, errors.New("telemetry.endpoint must be set when telemetry is enabled"))
		}
		if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
			errs = append(errs, fmt.Errorf("telemetry.samplingRate %v out of range [0, 1]", cfg.Telemetry.SamplingRate))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func validateListenAddr(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("must not be empty")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return err
	}
	return nil
}

func validateCIDROrIP(entry string) error {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		if _, _, err := net.ParseCIDR(entry); err != nil {
			return fmt.Errorf("invalid CIDR %q", entry)
		}
		return nil
	}
	if net.ParseIP(entry) == nil {
		return fmt.Errorf("invalid IP %q", entry)
	}
	return nil
}
