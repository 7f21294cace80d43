// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// ToFileConfig converts a resolved configuration back to its YAML form.
func ToFileConfig(cfg AppConfig) FileConfig {
	rateLimitEnabled := cfg.API.RateLimit.Enabled
	telemetryEnabled := cfg.Telemetry.Enabled
	metricsListen := cfg.Metrics.ListenAddr
	return FileConfig{
		LogLevel:   cfg.LogLevel,
		LogService: cfg.LogService,
		API: FileAPIConfig{
			ListenAddr:     cfg.API.ListenAddr,
			AllowedOrigins: cfg.API.AllowedOrigins,
			TrustedProxies: cfg.API.TrustedProxies,
			RateLimit: FileRateLimitConf{
				Enabled:           &rateLimitEnabled,
				RequestsPerMinute: cfg.API.RateLimit.RequestsPerMinute,
				Whitelist:         cfg.API.RateLimit.Whitelist,
			},
		},
		Server: FileServerConfig{
			ReadTimeout:     cfg.Server.ReadTimeout,
			IdleTimeout:     cfg.Server.IdleTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
			MaxHeaderBytes:  cfg.Server.MaxHeaderBytes,
			MaxConnections:  cfg.Server.MaxConnections,
		},
		Media: FileMediaConfig{
			Path:        cfg.Media.Path,
			ContentType: cfg.Media.ContentType,
		},
		Stream: FileStreamConfig{
			ChunkSize:         cfg.Stream.ChunkSize,
			MaxBytesPerSecond: cfg.Stream.MaxBytesPerSecond,
		},
		Metrics: FileMetricsConfig{ListenAddr: &metricsListen},
		Telemetry: FileTelemetryConfig{
			Enabled:      &telemetryEnabled,
			Exporter:     cfg.Telemetry.Exporter,
			Endpoint:     cfg.Telemetry.Endpoint,
			SamplingRate: cfg.Telemetry.SamplingRate,
			Environment:  cfg.Telemetry.Environment,
		},
	}
}

// MarshalYAML renders cfg as a YAML document that Loader accepts.
func MarshalYAML(cfg AppConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToFileConfig(cfg)); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("flush config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile atomically writes cfg to path (temp file, fsync, rename).
// An existing file is only replaced when overwrite is set.
func WriteFile(path string, cfg AppConfig, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := MarshalYAML(cfg)
	if err != nil {
		return err
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() { _ = pendingFile.Cleanup() }()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write config data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace config file: %w", err)
	}
	return nil
}
