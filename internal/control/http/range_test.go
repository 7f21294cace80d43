// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	const size = int64(1000)

	tests := []struct {
		name    string
		header  string
		want    Range
		wantErr error
	}{
		{name: "closed", header: "bytes=0-99", want: Range{Start: 0, End: 99}},
		{name: "single byte", header: "bytes=5-5", want: Range{Start: 5, End: 5}},
		{name: "open ended", header: "bytes=100-", want: Range{Start: 100, End: 999}},
		{name: "end clamped", header: "bytes=900-5000", want: Range{Start: 900, End: 999}},
		{name: "suffix", header: "bytes=-100", want: Range{Start: 900, End: 999}},
		{name: "suffix larger than file", header: "bytes=-5000", want: Range{Start: 0, End: 999}},
		{name: "multi range keeps first", header: "bytes=0-99,200-299", want: Range{Start: 0, End: 99}},
		{name: "whitespace", header: "bytes= 10 - 19 ", want: Range{Start: 10, End: 19}},
		{name: "empty", header: "", wantErr: ErrInvalidRange},
		{name: "wrong unit", header: "items=0-1", wantErr: ErrInvalidRange},
		{name: "no dash", header: "bytes=100", wantErr: ErrInvalidRange},
		{name: "non numeric start", header: "bytes=abc-", wantErr: ErrInvalidRange},
		{name: "non numeric end", header: "bytes=0-xyz", wantErr: ErrInvalidRange},
		{name: "end before start", header: "bytes=50-10", wantErr: ErrInvalidRange},
		{name: "bare dash", header: "bytes=-", wantErr: ErrInvalidRange},
		{name: "start at size", header: "bytes=1000-", wantErr: ErrUnsatisfiableRange},
		{name: "start beyond size", header: "bytes=2000-2100", wantErr: ErrUnsatisfiableRange},
		{name: "zero suffix", header: "bytes=-0", wantErr: ErrUnsatisfiableRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.header, size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.End-tt.want.Start+1, got.Len())
		})
	}
}

func TestParseRange_EmptyResource(t *testing.T) {
	_, err := ParseRange("bytes=0-", 0)
	assert.ErrorIs(t, err, ErrUnsatisfiableRange)
}

func TestFormatContentRange(t *testing.T) {
	assert.Equal(t, "bytes 0-99/4096", FormatContentRange(Range{Start: 0, End: 99}, 4096))
	assert.Equal(t, "bytes */4096", Format416ContentRange(4096))
}
