// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// DefaultChunkSize bounds a single read/write step of CopyRange.
const DefaultChunkSize = 32 * 1024

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, DefaultChunkSize)
		return &b
	},
}

// CopyRange writes exactly length bytes of src starting at offset to dst,
// one chunk at a time. The context is checked before every chunk so a
// disconnected client stops the copy. It returns the number of bytes written.
func CopyRange(ctx context.Context, dst io.Writer, src io.ReaderAt, offset, length int64, chunkSize int) (int64, error) {
	if length <= 0 {
		return 0, nil
	}

	var buf []byte
	if chunkSize <= 0 || chunkSize == DefaultChunkSize {
		bp := bufPool.Get().(*[]byte)
		defer bufPool.Put(bp)
		buf = *bp
	} else {
		buf = make([]byte, chunkSize)
	}

	flusher, _ := dst.(interface{ Flush() })

	section := io.NewSectionReader(src, offset, length)
	var written int64
	for written < length {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := section.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, fmt.Errorf("write chunk: %w", werr)
			}
			if wn != n {
				return written, io.ErrShortWrite
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if written < length {
					// File shrank underneath us.
					return written, io.ErrUnexpectedEOF
				}
				return written, nil
			}
			return written, fmt.Errorf("read chunk: %w", rerr)
		}
	}
	return written, nil
}
