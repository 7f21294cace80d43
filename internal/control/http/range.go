// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRange is returned for a Range header that does not parse.
	ErrInvalidRange = errors.New("invalid range")
	// ErrUnsatisfiableRange is returned when the range starts beyond the resource.
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
)

// Range represents a byte range [Start, End] (inclusive).
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of bytes covered by r.
func (r Range) Len() int64 {
	return r.End - r.Start + 1
}

// ParseRange parses a "Range" header and returns a single Range.
// Only the first range of a comma-separated list is honoured; the rest are ignored.
// size is the total size of the resource.
func ParseRange(header string, size int64) (Range, error) {
	if header == "" {
		return Range{}, ErrInvalidRange
	}

	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return Range{}, ErrInvalidRange
	}

	byteRange := strings.TrimPrefix(header, prefix)
	if first, _, ok := strings.Cut(byteRange, ","); ok {
		byteRange = first
	}

	startStr, endStr, ok := strings.Cut(byteRange, "-")
	if !ok {
		return Range{}, ErrInvalidRange
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if size <= 0 {
		return Range{}, ErrUnsatisfiableRange
	}

	var r Range

	if startStr == "" {
		// Suffix range: bytes=-500 (last 500 bytes)
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n < 0 {
			return Range{}, ErrInvalidRange
		}
		if n == 0 {
			return Range{}, ErrUnsatisfiableRange
		}
		if n > size {
			n = size
		}
		r.Start = size - n
		r.End = size - 1
		return r, nil
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return Range{}, ErrInvalidRange
	}
	if start >= size {
		return Range{}, ErrUnsatisfiableRange
	}
	r.Start = start

	if endStr == "" {
		r.End = size - 1
		return r, nil
	}

	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return Range{}, ErrInvalidRange
	}
	if end >= size {
		end = size - 1
	}
	r.End = end

	return r, nil
}

// FormatContentRange formats the Content-Range header.
func FormatContentRange(r Range, size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// Format416ContentRange formats the Content-Range header for a 416 response.
func Format416ContentRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}
