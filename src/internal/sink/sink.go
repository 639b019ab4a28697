// FILE: src/internal/sink/sink.go
package sink

import (
	"errors"

	"fanlog/src/internal/core"
	"fanlog/src/internal/delivery"
)

var (
	// ErrUnsupported is returned when a sink cannot run on this platform
	ErrUnsupported = errors.New("sink: unsupported on this platform")

	// ErrNotRegistered is returned when an event log source is missing from the OS registry
	ErrNotRegistered = errors.New("sink: event log source not registered")
)

// SyncWriter is a sink written on the caller's goroutine
type SyncWriter interface {
	Kind() core.SinkKind
	Write(ev core.LogEvent, r core.Rendered) error
	Close() error
}

var (
	_ SyncWriter         = (*Console)(nil)
	_ SyncWriter         = (*EventLog)(nil)
	_ delivery.Deliverer = (*FileDeliverer)(nil)
	_ delivery.Deliverer = (*PipeDeliverer)(nil)
	_ delivery.Connector = (*PipeDeliverer)(nil)
)
