// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ManuGH/streamplayer/internal/control/http/problem"
	"github.com/ManuGH/streamplayer/internal/log"
	"github.com/ManuGH/streamplayer/internal/media"
	"github.com/ManuGH/streamplayer/internal/metrics"
	"github.com/ManuGH/streamplayer/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// VideoSettings is the per-request view of the media configuration.
type VideoSettings struct {
	Path              string
	ContentType       string
	ChunkSize         int
	MaxBytesPerSecond int64
}

// SettingsFunc returns the current settings. It is called once per request so
// that configuration reloads apply to the next request.
type SettingsFunc func() VideoSettings

// StaticSettings returns a SettingsFunc that always yields s.
func StaticSettings(s VideoSettings) SettingsFunc {
	return func() VideoSettings { return s }
}

// VideoHandler serves the configured media file with single-range support.
type VideoHandler struct {
	settings SettingsFunc
	metrics  VideoMetrics
}

// NewVideoHandler creates a handler. A nil metrics uses a no-op implementation.
func NewVideoHandler(settings SettingsFunc, m VideoMetrics) *VideoHandler {
	if m == nil {
		m = NewNoopVideoMetrics()
	}
	return &VideoHandler{settings: settings, metrics: m}
}

// ServeHTTP implements http.Handler for GET and HEAD.
func (h *VideoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.WithComponentFromContext(ctx, "video")
	span := trace.SpanFromContext(ctx)
	s := h.settings()

	res := media.NewResource(s.Path, s.ContentType)
	f, info, err := res.Open(ctx)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			logger.Info().
				Str(log.FieldEvent, "video.not_found").
				Str(log.FieldPath, s.Path).
				Msg("media file not found")
			h.metrics.Result(metrics.ResultNotFound)
			span.SetAttributes(telemetry.MediaAttributes(s.Path, s.ContentType, -1)...)
			writeNotFound(w)
			return
		}
		if ctx.Err() != nil {
			logger.Debug().Err(err).Str(log.FieldEvent, "video.canceled").Msg("request canceled before open")
			return
		}
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "video.open_failed").
			Str(log.FieldPath, s.Path).
			Msg("failed to open media file")
		h.metrics.Result(metrics.ResultInternalError)
		span.SetStatus(codes.Error, "open failed")
		span.SetAttributes(telemetry.ErrorAttributes(err, "media_open")...)
		problem.Write(w, r, http.StatusInternalServerError, "video/internal", "Internal Server Error", "INTERNAL", "The media file could not be opened", nil)
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn().Err(cerr).Str(log.FieldPath, info.Path).Msg("failed to close media file")
		}
	}()

	span.SetAttributes(telemetry.MediaAttributes(info.Path, info.ContentType, info.Size)...)

	hdr := w.Header()
	hdr.Set(HeaderAcceptRanges, "bytes")
	hdr.Set(HeaderContentType, info.ContentType)

	status := http.StatusOK
	offset, length := int64(0), info.Size
	result := metrics.ResultFull

	if rangeHeader := r.Header.Get(HeaderRange); rangeHeader != "" {
		rng, err := ParseRange(rangeHeader, info.Size)
		if err != nil {
			logger.Info().
				Err(err).
				Str(log.FieldEvent, "video.range_rejected").
				Str(log.FieldRange, rangeHeader).
				Int64(log.FieldSize, info.Size).
				Msg("range not satisfiable")
			h.metrics.Result(metrics.ResultUnsatisfiable)
			span.SetAttributes(attribute.String(telemetry.RangeHeaderKey, rangeHeader))
			hdr.Set(HeaderContentRange, Format416ContentRange(info.Size))
			hdr.Set(HeaderContentLength, "0")
			hdr.Del(HeaderContentType)
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		}

		status = http.StatusPartialContent
		offset, length = rng.Start, rng.Len()
		result = metrics.ResultPartial
		hdr.Set(HeaderContentRange, FormatContentRange(rng, info.Size))
		h.metrics.Range(length)
		span.SetAttributes(telemetry.RangeAttributes(rangeHeader, rng.Start, rng.End)...)
	}

	hdr.Set(HeaderContentLength, strconv.FormatInt(length, 10))
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		h.metrics.Result(metrics.ResultHead)
		return
	}

	start := time.Now()
	out := media.NewThrottledWriter(ctx, w, s.MaxBytesPerSecond)
	n, err := media.CopyRange(ctx, out, f, offset, length, s.ChunkSize)
	elapsed := time.Since(start)

	if err != nil {
		// Headers are already on the wire; all we can do is stop and record it.
		evt := logger.Warn()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			evt = logger.Debug()
		}
		evt.Err(err).
			Str(log.FieldEvent, "video.aborted").
			Int64(log.FieldBytes, n).
			Int64(log.FieldRangeStart, offset).
			Int64(log.FieldSize, info.Size).
			Msg("stream aborted")
		h.metrics.Result(metrics.ResultAborted)
		h.metrics.Served(metrics.ResultAborted, n, elapsed)
		span.SetAttributes(telemetry.StreamAttributes(metrics.ResultAborted, n)...)
		return
	}

	h.metrics.Result(result)
	h.metrics.Served(result, n, elapsed)
	span.SetAttributes(telemetry.StreamAttributes(result, n)...)
	logger.Debug().
		Str(log.FieldEvent, "video.served").
		Int(log.FieldStatus, status).
		Int64(log.FieldRangeStart, offset).
		Int64(log.FieldRangeEnd, offset+length-1).
		Int64(log.FieldBytes, n).
		Int64(log.FieldDurationMS, elapsed.Milliseconds()).
		Msg("video served")
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set(HeaderContentLength, strconv.Itoa(len(NotFoundBody)))
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, NotFoundBody)
}
