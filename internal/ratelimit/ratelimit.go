// Package ratelimit implements the fixed-window limiter used to throttle
// user-triggered actions (export, refresh, resolve). It is the only
// backpressure mechanism in the system; nothing retries automatically.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of one limiter check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts requests per key within a fixed window. Implementations must
// be safe for concurrent use.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
