// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// HTTP fields
	FieldMethod     = "method"
	FieldStatus     = "status"
	FieldRemoteAddr = "remote_addr"
	FieldBytes      = "bytes"
	FieldDurationMS = "duration_ms"
	FieldUserAgent  = "user_agent"

	// Media fields
	FieldPath        = "path"
	FieldContentType = "content_type"
	FieldRange       = "range"
	FieldRangeStart  = "range_start"
	FieldRangeEnd    = "range_end"
	FieldSize        = "size"

	// UI fields
	FieldAction = "action"
)
