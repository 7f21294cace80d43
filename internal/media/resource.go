// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package media provides access to the single media file served by the daemon.
package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// ErrNotFound is returned when the media file does not exist or is not a regular file.
var ErrNotFound = errors.New("media not found")

// Info describes the media file as observed by one Stat call.
type Info struct {
	Path        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Resource is the fixed media file. Metadata is re-read on every call;
// nothing is cached between requests.
type Resource struct {
	path        string
	contentType string
}

// NewResource returns a Resource for path served with the given MIME type.
func NewResource(path, contentType string) *Resource {
	return &Resource{path: path, contentType: contentType}
}

// Path returns the configured file path.
func (r *Resource) Path() string { return r.path }

// ContentType returns the fixed MIME type.
func (r *Resource) ContentType() string { return r.contentType }

// Stat reports the current size of the file. A missing file or a directory
// yields ErrNotFound; other failures are wrapped.
func (r *Resource) Stat(ctx context.Context) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	fi, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}
		return Info{}, fmt.Errorf("stat media: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return Info{}, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, r.path)
	}
	return Info{
		Path:        r.path,
		Size:        fi.Size(),
		ModTime:     fi.ModTime(),
		ContentType: r.contentType,
	}, nil
}

// Open opens the file for reading. The caller owns the handle and must close it.
// The returned Info is taken from the open handle, so it matches what will be read.
func (r *Resource) Open(ctx context.Context) (*os.File, Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, Info{}, err
	}
	// #nosec G304 -- the path comes from operator configuration
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Info{}, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}
		return nil, Info{}, fmt.Errorf("open media: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, Info{}, fmt.Errorf("stat opened media: %w", err)
	}
	if !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, Info{}, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, r.path)
	}
	return f, Info{
		Path:        r.path,
		Size:        fi.Size(),
		ModTime:     fi.ModTime(),
		ContentType: r.contentType,
	}, nil
}
