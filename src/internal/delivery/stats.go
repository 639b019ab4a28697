// FILE: src/internal/delivery/stats.go
package delivery

import (
	"sync/atomic"
	"time"

	"fanlog/src/internal/core"
)

// Stats is a point-in-time view of one sink's delivery loop
type Stats struct {
	Kind          core.SinkKind `json:"-"`
	Type          string        `json:"type"`
	Enqueued      uint64        `json:"enqueued"`
	Delivered     uint64        `json:"delivered"`
	Failed        uint64        `json:"failed"`
	Dropped       uint64        `json:"dropped"`
	Retries       uint64        `json:"retries"`
	Pending       int           `json:"pending"`
	Connected     bool          `json:"connected"`
	Degraded      bool          `json:"degraded"`
	LastError     string        `json:"last_error,omitempty"`
	StartTime     time.Time     `json:"start_time"`
	LastDelivered time.Time     `json:"last_delivered"`
}

type counters struct {
	enqueued      atomic.Uint64
	delivered     atomic.Uint64
	failed        atomic.Uint64
	dropped       atomic.Uint64
	retries       atomic.Uint64
	connected     atomic.Bool
	degraded      atomic.Bool
	lastError     atomic.Value // string
	lastDelivered atomic.Value // time.Time
}

func newCounters() *counters {
	c := &counters{}
	c.lastError.Store("")
	c.lastDelivered.Store(time.Time{})
	return c
}
