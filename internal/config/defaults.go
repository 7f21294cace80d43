// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultListenAddr        = ":8088"
	DefaultMetricsListenAddr = ":9090"
	DefaultContentType       = "video/mp4"
	DefaultChunkSize         = 32 * 1024
	DefaultRequestsPerMinute = 600

	defaultReadTimeout     = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	defaultMaxHeaderBytes  = 1 << 20 // 1 MB
)

// Defaults returns the baseline configuration before file and ENV overrides.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "streamplayer",
		API: APIConfig{
			ListenAddr: DefaultListenAddr,
			RateLimit: RateLimitSettings{
				RequestsPerMinute: DefaultRequestsPerMinute,
			},
		},
		Server: ServerSettings{
			ReadTimeout:     defaultReadTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			MaxHeaderBytes:  defaultMaxHeaderBytes,
		},
		Media: MediaConfig{
			Path:        DefaultMediaPath(),
			ContentType: DefaultContentType,
		},
		Stream: StreamConfig{
			ChunkSize: DefaultChunkSize,
		},
		Metrics: MetricsConfig{
			ListenAddr: DefaultMetricsListenAddr,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
	}
}

// DefaultMediaPath resolves public/video.mp4 next to the install location:
// <dir of executable>/../public/video.mp4. It falls back to the working
// directory when the executable path cannot be determined.
func DefaultMediaPath() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("public", "video.mp4")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "..", "public", "video.mp4")
}
