// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ManuGH/streamplayer/internal/config"
	"github.com/ManuGH/streamplayer/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version.Get().Version)
	assert.Contains(t, out, "commit:")
}

func TestConfigInitValidateDump(t *testing.T) {
	t.Setenv(envConfigPath, "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCLI(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = runCLI(t, "--config", path, "config", "init")
	require.Error(t, err, "init must not overwrite without --force")

	_, err = runCLI(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	out, err = runCLI(t, "--config", path, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = runCLI(t, "--config", path, "config", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "contentType: video/mp4")

	out, err = runCLI(t, "--config", path, "config", "dump", "--format", "json")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	media, ok := doc["media"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, config.DefaultContentType, media["contentType"])

	_, err = runCLI(t, "--config", path, "config", "dump", "--format", "toml")
	require.Error(t, err)
}

func TestConfigValidate_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("media:\n  pth: /srv/video.mp4\n"), 0o600))

	_, err := runCLI(t, "--config", path, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestConfigCommands_RequireFile(t *testing.T) {
	t.Setenv(envConfigPath, "")
	_, err := runCLI(t, "config", "validate")
	require.ErrorIs(t, err, errNoConfigFile)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(envConfigPath, "/etc/streamplayer/config.yaml")
	assert.Equal(t, "/etc/streamplayer/config.yaml", resolveConfigPath(""))
	assert.Equal(t, "/tmp/override.yaml", resolveConfigPath(" /tmp/override.yaml "))
}

func TestHealthcheckCommand(t *testing.T) {
	var ready atomic.Bool
	ready.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.WriteHeader(http.StatusOK)
		case "/readyz":
			if ready.Load() {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	out, err := runCLI(t, "healthcheck", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "healthcheck successful (ready)")

	ready.Store(false)
	_, err = runCLI(t, "healthcheck", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	out, err = runCLI(t, "healthcheck", "--url", srv.URL+"/", "--mode", "live")
	require.NoError(t, err)
	assert.Contains(t, out, "(live)")

	_, err = runCLI(t, "healthcheck", "--url", srv.URL, "--mode", "deep")
	require.Error(t, err)
}
