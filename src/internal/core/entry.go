// FILE: src/internal/core/entry.go
package core

import "time"

// Represents a single log call before rendering
type LogEvent struct {
	Time     time.Time
	Severity Severity
	Category string
	Message  string
	Err      error
}

// Rendered holds the two immutable renderings of one event
type Rendered struct {
	Plain     string
	Decorated string
}

// Select returns the decorated form when colorize is set
func (r Rendered) Select(colorize bool) string {
	if colorize {
		return r.Decorated
	}
	return r.Plain
}
