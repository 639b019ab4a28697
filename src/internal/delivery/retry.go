// FILE: src/internal/delivery/retry.go
package delivery

import (
	"context"
	"time"

	"fanlog/src/internal/core"
)

// RetryPolicy bounds per-item delivery attempts
type RetryPolicy struct {
	MaxAttempts   int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	Backoff       float64
	DrainTimeout  time.Duration
}

// DefaultRetryPolicy returns the standard delivery policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   core.DefaultMaxAttempts,
		RetryDelay:    core.DefaultRetryDelay,
		MaxRetryDelay: core.DefaultMaxRetryDelay,
		Backoff:       core.DefaultBackoff,
		DrainTimeout:  core.DefaultDrainTimeout,
	}
}

// normalized fills zero or invalid fields with defaults
func (p RetryPolicy) normalized() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.RetryDelay <= 0 {
		p.RetryDelay = d.RetryDelay
	}
	if p.MaxRetryDelay < p.RetryDelay {
		p.MaxRetryDelay = max(d.MaxRetryDelay, p.RetryDelay)
	}
	if p.Backoff < 1.0 {
		p.Backoff = d.Backoff
	}
	if p.DrainTimeout <= 0 {
		p.DrainTimeout = d.DrainTimeout
	}
	return p
}

// next returns the delay following current
func (p RetryPolicy) next(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * p.Backoff)
	if next > p.MaxRetryDelay {
		next = p.MaxRetryDelay
	}
	return next
}

// sleep waits for d, returning false if ctx ends first
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
