// FILE: src/internal/core/const.go
package core

import "time"

// Column widths used by the plain and decorated renderings
const (
	SeverityWidth = 13
	CategoryWidth = 30
)

// Timestamp layout for rendered lines
const TimeLayout = "15:04:05"

// Delivery defaults
const (
	DefaultMaxAttempts   = 3
	DefaultRetryDelay    = 25 * time.Millisecond
	DefaultMaxRetryDelay = time.Second
	DefaultBackoff       = 2.0
	DefaultDrainTimeout  = 5 * time.Second
)

// DefaultPipeServer is the local machine
const DefaultPipeServer = "."
