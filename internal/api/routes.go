// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ManuGH/streamplayer/internal/config"
	"github.com/ManuGH/streamplayer/internal/control/http/problem"
	"github.com/ManuGH/streamplayer/internal/control/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	pathVideo         = "/video"
	pathPlayer        = "/"
	pathPlayerActions = "/player/actions/{action}"
	pathHealth        = "/healthz"
	pathReady         = "/readyz"
	pathOpenAPI       = "/openapi.yaml"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPISpec returns the embedded API description.
func OpenAPISpec() []byte {
	return openAPISpec
}

func stackConfig(cfg config.AppConfig, tracing bool) (middleware.StackConfig, error) {
	proxies, err := middleware.ParseCIDRs(cfg.API.TrustedProxies)
	if err != nil {
		return middleware.StackConfig{}, fmt.Errorf("trusted proxies: %w", err)
	}
	stack := middleware.StackConfig{
		EnableCORS:            len(cfg.API.AllowedOrigins) > 0,
		AllowedOrigins:        cfg.API.AllowedOrigins,
		EnableSecurityHeaders: true,
		TrustedProxies:        proxies,
		EnableMetrics:         true,
		EnableLogging:         true,
	}
	if tracing {
		stack.TracingService = cfg.LogService
	}
	return stack, nil
}

func (s *Server) routes(cfg config.AppConfig) (http.Handler, error) {
	stack, err := stackConfig(cfg, s.tracing)
	if err != nil {
		return nil, err
	}
	r := middleware.NewRouter(stack)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		problem.Write(w, req, http.StatusNotFound, "system/not_found", "Not Found", "NOT_FOUND", "", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		problem.Write(w, req, http.StatusMethodNotAllowed, "system/method_not_allowed", "Method Not Allowed", "METHOD_NOT_ALLOWED", "", nil)
	})

	// Probes and the API description stay outside the rate limit.
	r.Get(pathHealth, s.health.ServeHealth)
	r.Get(pathReady, s.health.ServeReady)
	r.Get(pathOpenAPI, serveOpenAPI)

	whitelist, err := middleware.ParseCIDRs(cfg.API.RateLimit.Whitelist)
	if err != nil {
		return nil, fmt.Errorf("rate limit whitelist: %w", err)
	}

	r.Group(func(r chi.Router) {
		if cfg.API.RateLimit.Enabled {
			r.Use(middleware.APIRateLimit(cfg.API.RateLimit.RequestsPerMinute, whitelist))
		}
		r.Method(http.MethodGet, pathVideo, s.video)
		r.Method(http.MethodHead, pathVideo, s.video)
		r.Get(pathPlayer, s.player.ServePage)
		r.Post(pathPlayerActions, s.player.ServeAction)
	})

	return r, nil
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Length", strconv.Itoa(len(openAPISpec)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}
