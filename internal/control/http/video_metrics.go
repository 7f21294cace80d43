// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package http

import (
	"time"

	"github.com/ManuGH/streamplayer/internal/metrics"
)

// VideoMetrics provides telemetry for video serving operations.
// This interface keeps the handler decoupled from a specific metrics backend.
type VideoMetrics interface {
	// Result records the outcome of a request.
	// Results: "full", "partial", "head", "not_found",
	// "range_not_satisfiable", "internal_error", "aborted".
	Result(result string)

	// Served records a completed body copy.
	Served(result string, bytes int64, d time.Duration)

	// Range records the length of a served byte range.
	Range(length int64)
}

type noopVideoMetrics struct{}

func (noopVideoMetrics) Result(string)                        {}
func (noopVideoMetrics) Served(string, int64, time.Duration) {}
func (noopVideoMetrics) Range(int64)                          {}

// NewNoopVideoMetrics returns a no-op VideoMetrics implementation.
func NewNoopVideoMetrics() VideoMetrics {
	return noopVideoMetrics{}
}

// promVideoMetrics implements VideoMetrics with the process-wide Prometheus collectors.
type promVideoMetrics struct{}

// NewPromVideoMetrics returns a Prometheus-backed VideoMetrics implementation.
func NewPromVideoMetrics() VideoMetrics {
	return promVideoMetrics{}
}

func (promVideoMetrics) Result(result string) {
	metrics.RecordVideoRequest(result)
}

func (promVideoMetrics) Served(result string, bytes int64, d time.Duration) {
	metrics.RecordVideoBytes(bytes)
	metrics.ObserveVideoStream(result, d)
}

func (promVideoMetrics) Range(length int64) {
	metrics.ObserveVideoRange(length)
}
