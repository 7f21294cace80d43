// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ManuGH/streamplayer/internal/media"
	"github.com/ManuGH/streamplayer/internal/metrics"
)

// MediaChecker reports whether the configured media file can be served.
// The path is resolved per check so configuration reloads are honoured.
type MediaChecker struct {
	resolve func() (path, contentType string)
}

// NewMediaChecker creates a checker for the media file returned by resolve.
func NewMediaChecker(resolve func() (path, contentType string)) *MediaChecker {
	return &MediaChecker{resolve: resolve}
}

func (c *MediaChecker) Name() string {
	return "media"
}

func (c *MediaChecker) Check(ctx context.Context) CheckResult {
	path, contentType := c.resolve()
	info, err := media.NewResource(path, contentType).Stat(ctx)
	if err != nil {
		metrics.SetMediaAvailable(false)
		if errors.Is(err, media.ErrNotFound) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "media file not found",
				Message: path,
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	metrics.SetMediaAvailable(true)
	if info.Size == 0 {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "media file is empty",
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "media file exists and readable",
	}
}

// DrainChecker turns readiness off once shutdown has begun, so load
// balancers stop routing new requests while in-flight streams finish.
type DrainChecker struct {
	draining atomic.Bool
}

// NewDrainChecker returns a checker that is healthy until Drain is called.
func NewDrainChecker() *DrainChecker {
	return &DrainChecker{}
}

// Drain marks the instance as shutting down.
func (c *DrainChecker) Drain() {
	c.draining.Store(true)
}

func (c *DrainChecker) Name() string {
	return "shutdown"
}

func (c *DrainChecker) Check(context.Context) CheckResult {
	if c.draining.Load() {
		return CheckResult{Status: StatusUnhealthy, Message: "draining"}
	}
	return CheckResult{Status: StatusHealthy}
}
