// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api assembles the public HTTP surface: the video endpoint, the
// player page, health probes and the API description.
package api

import (
	"fmt"
	"net/http"

	"github.com/ManuGH/streamplayer/internal/config"
	controlhttp "github.com/ManuGH/streamplayer/internal/control/http"
	"github.com/ManuGH/streamplayer/internal/health"
	"github.com/ManuGH/streamplayer/internal/log"
	"github.com/ManuGH/streamplayer/internal/ui"
)

// ConfigSource yields the current configuration snapshot.
// *config.ConfigHolder satisfies it.
type ConfigSource interface {
	Get() config.AppConfig
}

// Server is the HTTP API server.
type Server struct {
	src          ConfigSource
	videoMetrics controlhttp.VideoMetrics
	tracing      bool

	health *health.Manager
	drain  *health.DrainChecker
	video  *controlhttp.VideoHandler
	player *ui.Player

	handler http.Handler
}

// ServerOption customises a Server during construction.
type ServerOption func(*Server)

// WithVideoMetrics overrides the metrics sink of the video handler.
func WithVideoMetrics(m controlhttp.VideoMetrics) ServerOption {
	return func(s *Server) { s.videoMetrics = m }
}

// WithoutTracing disables the tracing middleware regardless of configuration.
func WithoutTracing() ServerOption {
	return func(s *Server) { s.tracing = false }
}

// New creates and initializes the API server. Middleware settings (origins,
// proxies, rate limits) are taken from the snapshot at construction time;
// media and stream settings are re-read from src on every request.
func New(src ConfigSource, opts ...ServerOption) (*Server, error) {
	if src == nil {
		return nil, fmt.Errorf("config source is required for API server initialization")
	}
	cfg := src.Get()

	s := &Server{
		src:          src,
		videoMetrics: controlhttp.NewPromVideoMetrics(),
		tracing:      cfg.Telemetry.Enabled,
		health:       health.NewManager(cfg.Version),
		drain:        health.NewDrainChecker(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.health.RegisterChecker(health.NewMediaChecker(func() (string, string) {
		c := s.src.Get()
		return c.Media.Path, c.Media.ContentType
	}))
	s.health.RegisterChecker(s.drain)

	s.video = controlhttp.NewVideoHandler(s.videoSettings, s.videoMetrics)
	s.player = ui.NewPlayer(pathVideo)

	h, err := s.routes(cfg)
	if err != nil {
		return nil, err
	}
	s.handler = h

	logger := log.WithComponent("api")
	logger.Info().
		Str(log.FieldEvent, "api.initialized").
		Str(log.FieldPath, cfg.Media.Path).
		Bool("rate_limit", cfg.API.RateLimit.Enabled).
		Bool("tracing", s.tracing).
		Msg("API server initialized")
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// HealthManager exposes the health manager for additional checkers.
func (s *Server) HealthManager() *health.Manager {
	return s.health
}

// BeginDrain marks the server as shutting down; readiness reports unhealthy
// from now on while in-flight streams keep running.
func (s *Server) BeginDrain() {
	s.drain.Drain()
}

func (s *Server) videoSettings() controlhttp.VideoSettings {
	cfg := s.src.Get()
	return controlhttp.VideoSettings{
		Path:              cfg.Media.Path,
		ContentType:       cfg.Media.ContentType,
		ChunkSize:         cfg.Stream.ChunkSize,
		MaxBytesPerSecond: cfg.Stream.MaxBytesPerSecond,
	}
}
