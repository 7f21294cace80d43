// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for VideoRequestsTotal.
const (
	ResultFull          = "full"
	ResultPartial       = "partial"
	ResultHead          = "head"
	ResultNotFound      = "not_found"
	ResultUnsatisfiable = "range_not_satisfiable"
	ResultInternalError = "internal_error"
	ResultAborted       = "aborted"
)

var (
	// VideoRequestsTotal counts /video requests by outcome.
	VideoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamplayer_video_requests_total",
		Help: "Total number of video requests by result",
	}, []string{"result"})

	// VideoBytesServedTotal counts body bytes written for /video.
	VideoBytesServedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamplayer_video_bytes_served_total",
		Help: "Total number of media bytes written to clients",
	})

	// VideoRangeBytes tracks the size of requested byte ranges.
	VideoRangeBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamplayer_video_range_bytes",
		Help:    "Size of served byte ranges",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1 KiB .. 256 MiB
	})

	// VideoStreamDuration tracks how long the body copy took.
	VideoStreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamplayer_video_stream_duration_seconds",
		Help:    "Time spent writing the response body",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"result"})
)

// RecordVideoRequest increments the request counter for result.
func RecordVideoRequest(result string) {
	VideoRequestsTotal.WithLabelValues(result).Inc()
}

// RecordVideoBytes adds n to the served byte counter.
func RecordVideoBytes(n int64) {
	if n <= 0 {
		return
	}
	VideoBytesServedTotal.Add(float64(n))
}

// ObserveVideoRange records the length of a served range.
func ObserveVideoRange(length int64) {
	VideoRangeBytes.Observe(float64(length))
}

// ObserveVideoStream records the body copy duration.
func ObserveVideoStream(result string, d time.Duration) {
	VideoStreamDuration.WithLabelValues(result).Observe(d.Seconds())
}
