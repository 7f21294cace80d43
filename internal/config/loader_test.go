// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoader_DefaultsOnly(t *testing.T) {
	cfg, err := NewLoader("", "v-test").Load()
	require.NoError(t, err)

	assert.Equal(t, "v-test", cfg.Version)
	assert.Equal(t, DefaultListenAddr, cfg.API.ListenAddr)
	assert.Equal(t, DefaultContentType, cfg.Media.ContentType)
	assert.Equal(t, DefaultChunkSize, cfg.Stream.ChunkSize)
	assert.Equal(t, DefaultMetricsListenAddr, cfg.Metrics.ListenAddr)
	assert.True(t, filepath.IsAbs(cfg.Media.Path))
	assert.Equal(t, "video.mp4", filepath.Base(cfg.Media.Path))
	assert.Equal(t, "public", filepath.Base(filepath.Dir(cfg.Media.Path)))
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	media := filepath.Join(t.TempDir(), "clip.mp4")
	path := writeConfigFile(t, `
logLevel: debug
api:
  listenAddr: "127.0.0.1:9000"
  rateLimit:
    enabled: true
    requestsPerMinute: 30
server:
  readTimeout: 5s
  maxConnections: 64
media:
  path: `+media+`
stream:
  chunkSize: 65536
  maxBytesPerSecond: 1000000
metrics:
  listenAddr: ""
`)

	cfg, err := NewLoader(path, "v1").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.ListenAddr)
	assert.True(t, cfg.API.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.API.RateLimit.RequestsPerMinute)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 64, cfg.Server.MaxConnections)
	assert.Equal(t, media, cfg.Media.Path)
	assert.Equal(t, 65536, cfg.Stream.ChunkSize)
	assert.Equal(t, int64(1000000), cfg.Stream.MaxBytesPerSecond)
	assert.Empty(t, cfg.Metrics.ListenAddr, "explicit empty listenAddr disables metrics")
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "media:\n  contentType: video/webm\n")
	t.Setenv(EnvPrefix+"MEDIA_CONTENT_TYPE", "video/mp4")
	t.Setenv(EnvPrefix+"LISTEN", ":7000")
	t.Setenv(EnvPrefix+"STREAM_MAX_BPS", "2048")

	l := NewLoader(path, "v1")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "video/mp4", cfg.Media.ContentType)
	assert.Equal(t, ":7000", cfg.API.ListenAddr)
	assert.Equal(t, int64(2048), cfg.Stream.MaxBytesPerSecond)
	assert.Contains(t, l.ConsumedEnvKeys, EnvPrefix+"MEDIA_PATH")
}

func TestLoader_UnknownFieldRejected(t *testing.T) {
	path := writeConfigFile(t, "media:\n  catalog: [a, b]\n")

	_, err := NewLoader(path, "v1").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField), "got %v", err)
}

func TestLoader_MultipleDocumentsRejected(t *testing.T) {
	path := writeConfigFile(t, "logLevel: info\n---\nlogLevel: debug\n")

	_, err := NewLoader(path, "v1").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))

	_, err := NewLoader(path, "v1").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only YAML supported")
}

func TestLoader_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	fromFile, err := NewLoader(path, "v1").Load()
	require.NoError(t, err)
	fromDefaults, err := NewLoader("", "v1").Load()
	require.NoError(t, err)

	if diff := cmp.Diff(fromDefaults, fromFile); diff != "" {
		t.Errorf("empty file changed config (-defaults +file):\n%s", diff)
	}
}
