// SPDX-License-Identifier: MIT

// Package telemetry provides OpenTelemetry tracing utilities for the streamplayer application.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPUserAgentKey  = "http.user_agent"

	// Media attributes
	MediaPathKey        = "media.path"
	MediaSizeKey        = "media.size"
	MediaContentTypeKey = "media.content_type"

	// Range attributes
	RangeHeaderKey = "range.header"
	RangeStartKey  = "range.start"
	RangeEndKey    = "range.end"
	RangeLengthKey = "range.length"

	// Stream attributes
	StreamBytesKey  = "stream.bytes"
	StreamResultKey = "stream.result"

	// Player attributes
	PlayerActionKey = "player.action"
	PlayerActiveKey = "player.active"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// MediaAttributes creates media-file span attributes. Empty values are omitted.
func MediaAttributes(path, contentType string, size int64) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if path != "" {
		attrs = append(attrs, attribute.String(MediaPathKey, path))
	}
	if contentType != "" {
		attrs = append(attrs, attribute.String(MediaContentTypeKey, contentType))
	}
	if size >= 0 {
		attrs = append(attrs, attribute.Int64(MediaSizeKey, size))
	}
	return attrs
}

// RangeAttributes creates byte-range span attributes.
func RangeAttributes(header string, start, end int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(RangeHeaderKey, header),
		attribute.Int64(RangeStartKey, start),
		attribute.Int64(RangeEndKey, end),
		attribute.Int64(RangeLengthKey, end-start+1),
	}
}

// StreamAttributes creates attributes describing a finished body copy.
func StreamAttributes(result string, bytes int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(StreamResultKey, result),
		attribute.Int64(StreamBytesKey, bytes),
	}
}

// PlayerAttributes creates player-action span attributes.
func PlayerAttributes(action string, active bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(PlayerActionKey, action),
		attribute.Bool(PlayerActiveKey, active),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
