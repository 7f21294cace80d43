// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_LoaderAcceptsOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	want := Defaults()
	want.Media.Path = filepath.Join(dir, "video.mp4")
	want.Stream.MaxBytesPerSecond = 512 * 1024
	want.API.AllowedOrigins = []string{"https://player.example"}
	want.Metrics.ListenAddr = ""
	want.Version = "v9"

	require.NoError(t, WriteFile(path, want, false))

	got, err := NewLoader(path, "v9").Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("written config does not load back unchanged (-want +got):\n%s", diff)
	}

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteFile_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: info\n"), 0o600))

	err := WriteFile(path, Defaults(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteFile(path, Defaults(), true))
}
