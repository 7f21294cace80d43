// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() AppConfig {
	cfg := Defaults()
	cfg.Media.Path = "/srv/media/video.mp4"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantMsg string
	}{
		{"bad log level", func(c *AppConfig) { c.LogLevel = "chatty" }, "logLevel"},
		{"bad listen addr", func(c *AppConfig) { c.API.ListenAddr = "8088" }, "api.listenAddr"},
		{"bad metrics addr", func(c *AppConfig) { c.Metrics.ListenAddr = "nope" }, "metrics.listenAddr"},
		{"empty media path", func(c *AppConfig) { c.Media.Path = " " }, "media.path"},
		{"bad content type", func(c *AppConfig) { c.Media.ContentType = "video/" }, "media.contentType"},
		{"tiny chunk", func(c *AppConfig) { c.Stream.ChunkSize = 16 }, "stream.chunkSize"},
		{"negative throttle", func(c *AppConfig) { c.Stream.MaxBytesPerSecond = -1 }, "maxBytesPerSecond"},
		{"negative max conns", func(c *AppConfig) { c.Server.MaxConnections = -1 }, "maxConnections"},
		{"bad trusted proxy", func(c *AppConfig) { c.API.TrustedProxies = []string{"10.0.0.0/33"} }, "api.trustedProxies"},
		{"bad whitelist ip", func(c *AppConfig) { c.API.RateLimit.Whitelist = []string{"not-an-ip"} }, "api.rateLimit.whitelist"},
		{"rate limit without budget", func(c *AppConfig) {
			c.API.RateLimit.Enabled = true
			c.API.RateLimit.RequestsPerMinute = 0
		}, "requestsPerMinute"},
		{"telemetry exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}, "telemetry.exporter"},
		{"telemetry sampling", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.SamplingRate = 2
		}, "samplingRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_MetricsDisabledIsValid(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.ListenAddr = ""
	require.NoError(t, Validate(cfg))
}

func TestServerConfigFor(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ShutdownTimeout = 0
	cfg.Server.MaxConnections = 10

	sc := ServerConfigFor(cfg)
	assert.Equal(t, cfg.API.ListenAddr, sc.ListenAddr)
	assert.Zero(t, sc.WriteTimeout)
	assert.Equal(t, 10, sc.MaxConnections)
	assert.GreaterOrEqual(t, sc.ShutdownTimeout.Seconds(), 3.0)
}
