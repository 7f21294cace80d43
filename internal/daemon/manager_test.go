// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManuGH/streamplayer/internal/config"
	"github.com/ManuGH/streamplayer/internal/log"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		ListenAddr:      "127.0.0.1:0",
		ReadTimeout:     5 * time.Second,
		IdleTimeout:     30 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 5 * time.Second,
	}
}

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}

// httpGet fetches url without keeping idle connections around.
func httpGet(t *testing.T, url string) (int, string) {
	t.Helper()
	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	defer client.CloseIdleConnections()

	resp, err := client.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

type countingDrainer struct{ calls atomic.Int32 }

func (d *countingDrainer) BeginDrain() { d.calls.Add(1) }

func startManager(t *testing.T, deps Deps, cfg config.ServerConfig) (*manager, context.CancelFunc, <-chan error) {
	t.Helper()
	mgr, err := NewManager(cfg, deps)
	require.NoError(t, err)
	m := mgr.(*manager)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	_, _, err = m.Addrs(waitCtx)
	require.NoError(t, err, "listeners not bound")
	return m, cancel, done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("manager did not stop")
		return nil
	}
}

func TestNewManager_ValidDeps(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)
	assert.NotNil(t, mgr)
}

func TestNewManager_MissingLogger(t *testing.T) {
	_, err := NewManager(testServerConfig(), Deps{
		Logger:     zerolog.Nop(),
		APIHandler: http.NotFoundHandler(),
	})
	require.ErrorIs(t, err, ErrMissingLogger)
}

func TestNewManager_MissingAPIHandler(t *testing.T) {
	_, err := NewManager(testServerConfig(), Deps{Logger: log.WithComponent("test")})
	require.ErrorIs(t, err, ErrMissingAPIHandler)
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)
	require.ErrorIs(t, mgr.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_ServesAndStopsOnCancel(t *testing.T) {
	drainer := &countingDrainer{}
	m, cancel, done := startManager(t, Deps{
		Logger:         log.WithComponent("test"),
		APIHandler:     textHandler("api"),
		MetricsHandler: textHandler("metrics"),
		MetricsAddr:    "127.0.0.1:0",
		Drainer:        drainer,
	}, testServerConfig())

	apiAddr, metricsAddr, err := m.Addrs(context.Background())
	require.NoError(t, err)
	require.NotNil(t, metricsAddr)

	status, body := httpGet(t, "http://"+apiAddr.String()+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "api", body)

	status, body = httpGet(t, "http://"+metricsAddr.String()+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "metrics", body)

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"first", "second"} {
		m.RegisterShutdownHook(name, func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		})
	}

	cancel()
	require.NoError(t, waitDone(t, done))

	assert.Equal(t, []string{"second", "first"}, order)
	assert.Equal(t, int32(1), drainer.calls.Load())

	_, err = net.DialTimeout("tcp", apiAddr.String(), 200*time.Millisecond)
	assert.Error(t, err, "API listener still open after shutdown")
}

func TestManager_MetricsDisabled(t *testing.T) {
	m, cancel, done := startManager(t, Deps{
		Logger:         log.WithComponent("test"),
		APIHandler:     textHandler("api"),
		MetricsHandler: textHandler("metrics"),
	}, testServerConfig())

	_, metricsAddr, err := m.Addrs(context.Background())
	require.NoError(t, err)
	assert.Nil(t, metricsAddr)

	cancel()
	require.NoError(t, waitDone(t, done))
}

func TestManager_DirectShutdownUnblocksStart(t *testing.T) {
	m, cancel, done := startManager(t, Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: textHandler("api"),
	}, testServerConfig())
	defer cancel()

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, waitDone(t, done))

	// A second shutdown is a no-op.
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestManager_StartTwice(t *testing.T) {
	m, cancel, done := startManager(t, Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: textHandler("api"),
	}, testServerConfig())

	require.ErrorIs(t, m.Start(context.Background()), ErrManagerAlreadyStarted)

	cancel()
	require.NoError(t, waitDone(t, done))
}

func TestManager_ListenFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = occupied.Close() }()

	cfg := testServerConfig()
	cfg.ListenAddr = occupied.Addr().String()
	mgr, err := NewManager(cfg, Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: textHandler("api"),
	})
	require.NoError(t, err)

	err = mgr.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API listener")
}

func TestManager_HookErrorsAreJoined(t *testing.T) {
	m, cancel, done := startManager(t, Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: textHandler("api"),
	}, testServerConfig())

	hookErr := errors.New("flush failed")
	m.RegisterShutdownHook("telemetry", func(context.Context) error { return hookErr })

	cancel()
	err := waitDone(t, done)
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
}

func TestManager_ConnectionLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxConnections = 1
	m, cancel, done := startManager(t, Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: textHandler("api"),
	}, cfg)

	apiAddr, _, err := m.Addrs(context.Background())
	require.NoError(t, err)

	// Sequential requests each release their slot.
	for i := 0; i < 3; i++ {
		status, body := httpGet(t, "http://"+apiAddr.String()+"/")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "api", body)
	}

	cancel()
	require.NoError(t, waitDone(t, done))
}
