// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the config file path, or "" when running from ENV only.
func (l *Loader) Path() string {
	return l.configPath
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envInt64(key string, defaultVal int64) int64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt64(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envList(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseStringList(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	l.mergeEnvConfig(&cfg)

	if cfg.Media.Path != "" {
		if abs, err := filepath.Abs(cfg.Media.Path); err == nil {
			cfg.Media.Path = abs
		}
	}

	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFileConfig(data)
}

func parseFileConfig(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) {
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogService != "" {
		dst.LogService = src.LogService
	}

	if src.API.ListenAddr != "" {
		dst.API.ListenAddr = src.API.ListenAddr
	}
	if len(src.API.AllowedOrigins) > 0 {
		dst.API.AllowedOrigins = append([]string(nil), src.API.AllowedOrigins...)
	}
	if len(src.API.TrustedProxies) > 0 {
		dst.API.TrustedProxies = append([]string(nil), src.API.TrustedProxies...)
	}
	if src.API.RateLimit.Enabled != nil {
		dst.API.RateLimit.Enabled = *src.API.RateLimit.Enabled
	}
	if src.API.RateLimit.RequestsPerMinute > 0 {
		dst.API.RateLimit.RequestsPerMinute = src.API.RateLimit.RequestsPerMinute
	}
	if len(src.API.RateLimit.Whitelist) > 0 {
		dst.API.RateLimit.Whitelist = append([]string(nil), src.API.RateLimit.Whitelist...)
	}

	if src.Server.ReadTimeout > 0 {
		dst.Server.ReadTimeout = src.Server.ReadTimeout
	}
	if src.Server.IdleTimeout > 0 {
		dst.Server.IdleTimeout = src.Server.IdleTimeout
	}
	if src.Server.ShutdownTimeout > 0 {
		dst.Server.ShutdownTimeout = src.Server.ShutdownTimeout
	}
	if src.Server.MaxHeaderBytes > 0 {
		dst.Server.MaxHeaderBytes = src.Server.MaxHeaderBytes
	}
	if src.Server.MaxConnections > 0 {
		dst.Server.MaxConnections = src.Server.MaxConnections
	}

	if src.Media.Path != "" {
		dst.Media.Path = src.Media.Path
	}
	if src.Media.ContentType != "" {
		dst.Media.ContentType = src.Media.ContentType
	}

	if src.Stream.ChunkSize > 0 {
		dst.Stream.ChunkSize = src.Stream.ChunkSize
	}
	if src.Stream.MaxBytesPerSecond > 0 {
		dst.Stream.MaxBytesPerSecond = src.Stream.MaxBytesPerSecond
	}

	if src.Metrics.ListenAddr != nil {
		dst.Metrics.ListenAddr = *src.Metrics.ListenAddr
	}

	if src.Telemetry.Enabled != nil {
		dst.Telemetry.Enabled = *src.Telemetry.Enabled
	}
	if src.Telemetry.Exporter != "" {
		dst.Telemetry.Exporter = src.Telemetry.Exporter
	}
	if src.Telemetry.Endpoint != "" {
		dst.Telemetry.Endpoint = src.Telemetry.Endpoint
	}
	if src.Telemetry.SamplingRate > 0 {
		dst.Telemetry.SamplingRate = src.Telemetry.SamplingRate
	}
	if src.Telemetry.Environment != "" {
		dst.Telemetry.Environment = src.Telemetry.Environment
	}
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString(EnvPrefix+"LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString(EnvPrefix+"LOG_SERVICE", cfg.LogService)

	cfg.API.ListenAddr = l.envString(EnvPrefix+"LISTEN", cfg.API.ListenAddr)
	cfg.API.AllowedOrigins = l.envList(EnvPrefix+"ALLOWED_ORIGINS", cfg.API.AllowedOrigins)
	cfg.API.TrustedProxies = l.envList(EnvPrefix+"TRUSTED_PROXIES", cfg.API.TrustedProxies)
	cfg.API.RateLimit.Enabled = l.envBool(EnvPrefix+"RATELIMIT_ENABLED", cfg.API.RateLimit.Enabled)
	cfg.API.RateLimit.RequestsPerMinute = l.envInt(EnvPrefix+"RATELIMIT_RPM", cfg.API.RateLimit.RequestsPerMinute)
	cfg.API.RateLimit.Whitelist = l.envList(EnvPrefix+"RATELIMIT_WHITELIST", cfg.API.RateLimit.Whitelist)

	cfg.Server.ReadTimeout = l.envDuration(EnvPrefix+"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.IdleTimeout = l.envDuration(EnvPrefix+"SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = l.envDuration(EnvPrefix+"SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.MaxHeaderBytes = l.envInt(EnvPrefix+"SERVER_MAX_HEADER_BYTES", cfg.Server.MaxHeaderBytes)
	cfg.Server.MaxConnections = l.envInt(EnvPrefix+"SERVER_MAX_CONNECTIONS", cfg.Server.MaxConnections)

	cfg.Media.Path = l.envString(EnvPrefix+"MEDIA_PATH", cfg.Media.Path)
	cfg.Media.ContentType = l.envString(EnvPrefix+"MEDIA_CONTENT_TYPE", cfg.Media.ContentType)

	cfg.Stream.ChunkSize = l.envInt(EnvPrefix+"STREAM_CHUNK_SIZE", cfg.Stream.ChunkSize)
	cfg.Stream.MaxBytesPerSecond = l.envInt64(EnvPrefix+"STREAM_MAX_BPS", cfg.Stream.MaxBytesPerSecond)

	// An explicitly empty STREAMPLAYER_METRICS_LISTEN disables the listener.
	l.ConsumedEnvKeys[EnvPrefix+"METRICS_LISTEN"] = struct{}{}
	if v, ok := os.LookupEnv(EnvPrefix + "METRICS_LISTEN"); ok {
		cfg.Metrics.ListenAddr = strings.TrimSpace(v)
	}

	cfg.Telemetry.Enabled = l.envBool(EnvPrefix+"OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvPrefix+"OTEL_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvPrefix+"OTEL_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvPrefix+"OTEL_SAMPLING_RATE", cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = l.envString(EnvPrefix+"OTEL_ENVIRONMENT", cfg.Telemetry.Environment)
}

// LoadFileConfig loads a YAML config file without applying defaults or env overrides.
func LoadFileConfig(path string) (*FileConfig, error) {
	return NewLoader(path, "").loadFile(path)
}
