// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package control

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestControlImportPurity ensures that the control layer (and the packages it
// builds on) never reaches up into the server assembly packages.
func TestControlImportPurity(t *testing.T) {
	if testing.Short() {
		t.Skip("shells out to go list")
	}

	cmd := exec.Command("go", "list", "-deps",
		"github.com/ManuGH/streamplayer/internal/control/...",
		"github.com/ManuGH/streamplayer/internal/ui",
		"github.com/ManuGH/streamplayer/internal/media",
	)
	cmd.Env = append(os.Environ(), "GOWORK=off")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "Failed to run go list -deps: %s", stderr.String())

	forbidden := []string{
		"github.com/ManuGH/streamplayer/internal/api",
		"github.com/ManuGH/streamplayer/internal/daemon",
		"github.com/ManuGH/streamplayer/cmd/",
	}

	for _, d := range strings.Split(stdout.String(), "\n") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		for _, prefix := range forbidden {
			assert.False(t, strings.HasPrefix(d, prefix),
				"control layer has a transitive dependency on %q", d)
		}
	}
}
