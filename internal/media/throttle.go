// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package media

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// ThrottledWriter paces writes to at most a fixed number of bytes per second.
// Each response gets its own writer; nothing is shared between requests.
type ThrottledWriter struct {
	ctx     context.Context
	w       io.Writer
	limiter *rate.Limiter
}

// NewThrottledWriter wraps w. A non-positive bytesPerSecond returns w unchanged.
func NewThrottledWriter(ctx context.Context, w io.Writer, bytesPerSecond int64) io.Writer {
	if bytesPerSecond <= 0 {
		return w
	}
	burst := int(bytesPerSecond)
	if burst > 4<<20 {
		burst = 4 << 20
	}
	return &ThrottledWriter{
		ctx:     ctx,
		w:       w,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
	}
}

// Write blocks until the limiter admits len(p) bytes, splitting p when it
// exceeds the burst size.
func (t *ThrottledWriter) Write(p []byte) (int, error) {
	var written int
	for len(p) > 0 {
		n := len(p)
		if burst := t.limiter.Burst(); n > burst {
			n = burst
		}
		if err := t.limiter.WaitN(t.ctx, n); err != nil {
			return written, err
		}
		wn, err := t.w.Write(p[:n])
		written += wn
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}

// Flush forwards to the underlying writer when it supports http.Flusher.
func (t *ThrottledWriter) Flush() {
	if f, ok := t.w.(interface{ Flush() }); ok {
		f.Flush()
	}
}
