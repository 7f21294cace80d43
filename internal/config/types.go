// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// AppConfig is the fully resolved runtime configuration.
type AppConfig struct {
	Version    string
	LogLevel   string
	LogService string

	API       APIConfig
	Server    ServerSettings
	Media     MediaConfig
	Stream    StreamConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
}

// APIConfig configures the public HTTP surface.
type APIConfig struct {
	ListenAddr     string
	AllowedOrigins []string
	// TrustedProxies lists CIDRs or IPs allowed to set X-Forwarded-* headers.
	TrustedProxies []string
	RateLimit      RateLimitSettings
}

// RateLimitSettings configures per-client request limiting.
type RateLimitSettings struct {
	Enabled           bool
	RequestsPerMinute int
	Whitelist         []string
}

// ServerSettings holds the tunable http.Server limits.
type ServerSettings struct {
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	// MaxConnections caps concurrently accepted connections. 0 disables the cap.
	MaxConnections int
}

// MediaConfig points at the single served media resource.
type MediaConfig struct {
	Path        string
	ContentType string
}

// StreamConfig tunes how the media body is copied to clients.
type StreamConfig struct {
	ChunkSize int
	// MaxBytesPerSecond paces each response. 0 means unlimited.
	MaxBytesPerSecond int64
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	// ListenAddr is empty when the metrics listener is disabled.
	ListenAddr string
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
	Environment  string
}

// FileConfig is the on-disk YAML representation. Zero values mean "not set".
type FileConfig struct {
	LogLevel   string              `yaml:"logLevel,omitempty"`
	LogService string              `yaml:"logService,omitempty"`
	API        FileAPIConfig       `yaml:"api,omitempty"`
	Server     FileServerConfig    `yaml:"server,omitempty"`
	Media      FileMediaConfig     `yaml:"media,omitempty"`
	Stream     FileStreamConfig    `yaml:"stream,omitempty"`
	Metrics    FileMetricsConfig   `yaml:"metrics,omitempty"`
	Telemetry  FileTelemetryConfig `yaml:"telemetry,omitempty"`
}

type FileAPIConfig struct {
	ListenAddr     string            `yaml:"listenAddr,omitempty"`
	AllowedOrigins []string          `yaml:"allowedOrigins,omitempty"`
	TrustedProxies []string          `yaml:"trustedProxies,omitempty"`
	RateLimit      FileRateLimitConf `yaml:"rateLimit,omitempty"`
}

type FileRateLimitConf struct {
	Enabled           *bool    `yaml:"enabled,omitempty"`
	RequestsPerMinute int      `yaml:"requestsPerMinute,omitempty"`
	Whitelist         []string `yaml:"whitelist,omitempty"`
}

type FileServerConfig struct {
	ReadTimeout     time.Duration `yaml:"readTimeout,omitempty"`
	IdleTimeout     time.Duration `yaml:"idleTimeout,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty"`
	MaxHeaderBytes  int           `yaml:"maxHeaderBytes,omitempty"`
	MaxConnections  int           `yaml:"maxConnections,omitempty"`
}

type FileMediaConfig struct {
	Path        string `yaml:"path,omitempty"`
	ContentType string `yaml:"contentType,omitempty"`
}

type FileStreamConfig struct {
	ChunkSize         int   `yaml:"chunkSize,omitempty"`
	MaxBytesPerSecond int64 `yaml:"maxBytesPerSecond,omitempty"`
}

type FileMetricsConfig struct {
	ListenAddr *string `yaml:"listenAddr,omitempty"`
}

type FileTelemetryConfig struct {
	Enabled      *bool   `yaml:"enabled,omitempty"`
	Exporter     string  `yaml:"exporter,omitempty"`
	Endpoint     string  `yaml:"endpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate,omitempty"`
	Environment  string  `yaml:"environment,omitempty"`
}
