// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestContextWithRequestID(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		requestID string
		want      string
	}{
		{
			name:      "nil context",
			ctx:       nil,
			requestID: "test-id-123",
			want:      "test-id-123",
		},
		{
			name:      "background context",
			ctx:       context.Background(),
			requestID: "req-456",
			want:      "req-456",
		},
		{
			name:      "empty request ID",
			ctx:       context.Background(),
			requestID: "",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRequestID(tt.ctx, tt.requestID)
			got := RequestIDFromContext(ctx)
			if got != tt.want {
				t.Errorf("RequestIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{
			name: "nil context",
			ctx:  nil,
			want: "",
		},
		{
			name: "context without request ID",
			ctx:  context.Background(),
			want: "",
		},
		{
			name: "context with wrong type",
			ctx:  context.WithValue(context.Background(), requestIDKey, 123),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequestIDFromContext(tt.ctx)
			if got != tt.want {
				t.Errorf("RequestIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func captureEntry(t *testing.T, logger zerolog.Logger) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	out := logger.Output(&buf)
	out.Info().Msg("test")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}
	return entry
}

func TestWithContext(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	tests := []struct {
		name      string
		ctx       context.Context
		requestID string
		traceID   string
		spanID    string
	}{
		{
			name: "empty context",
			ctx:  context.Background(),
		},
		{
			name:      "request ID only",
			ctx:       ContextWithRequestID(context.Background(), "req-123"),
			requestID: "req-123",
		},
		{
			name:    "active span",
			ctx:     trace.ContextWithSpanContext(context.Background(), spanCtx),
			traceID: "4bf92f3577b34da6a3ce929d0e0e4736",
			spanID:  "00f067aa0ba902b7",
		},
		{
			name:      "request ID and span",
			ctx:       trace.ContextWithSpanContext(ContextWithRequestID(context.Background(), "req-456"), spanCtx),
			requestID: "req-456",
			traceID:   "4bf92f3577b34da6a3ce929d0e0e4736",
			spanID:    "00f067aa0ba902b7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := captureEntry(t, WithContext(tt.ctx, zerolog.New(nil)))
			for field, want := range map[string]string{
				FieldRequestID: tt.requestID,
				FieldTraceID:   tt.traceID,
				FieldSpanID:    tt.spanID,
			} {
				got, _ := entry[field].(string)
				if got != want {
					t.Errorf("%s = %q, want %q", field, got, want)
				}
			}
		})
	}
}

func TestWithContext_NoopSpanAddsNothing(t *testing.T) {
	ctx, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "test-span")
	defer span.End()

	entry := captureEntry(t, WithContext(ctx, zerolog.New(nil)))
	if _, ok := entry[FieldTraceID]; ok {
		t.Error("Expected no trace_id for a non-recording span")
	}
}

func TestWithComponentFromContext(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "debug"})
	t.Cleanup(func() { Configure(Config{}) })

	logger := WithComponentFromContext(ContextWithRequestID(context.Background(), "req-789"), "video")
	logger.Info().Msg("served")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}
	if entry[FieldComponent] != "video" {
		t.Errorf("component = %v, want video", entry[FieldComponent])
	}
	if entry[FieldRequestID] != "req-789" {
		t.Errorf("request_id = %v, want req-789", entry[FieldRequestID])
	}
}
