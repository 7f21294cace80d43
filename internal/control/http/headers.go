// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package http

import "github.com/ManuGH/streamplayer/internal/control/http/problem"

// Canonical Header Names
const (
	// HeaderRequestID is the canonical header for request correlation.
	// Must be consistent across middleware, problem writer and tests.
	HeaderRequestID = problem.HeaderRequestID

	HeaderRange         = "Range"
	HeaderContentRange  = "Content-Range"
	HeaderAcceptRanges  = "Accept-Ranges"
	HeaderContentLength = "Content-Length"
	HeaderContentType   = "Content-Type"
)

// Canonical JSON Field Names
const (
	// JSONKeyRequestID is the canonical JSON key for request correlation in DTOs.
	JSONKeyRequestID = problem.JSONKeyRequestID
)

// NotFoundBody is the exact body sent when the media file is missing.
const NotFoundBody = "Video not found"
