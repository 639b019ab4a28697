// FILE: src/internal/core/types.go
package core

import (
	"fmt"
	"strings"
)

// Severity is the importance of a log event
type Severity int8

const (
	Trace Severity = iota
	Debug
	Information
	Warning
	Error
	Critical
	// None disables an event entirely
	None
)

var severityLabels = [...]string{
	Trace:       "TRACE",
	Debug:       "DEBUG",
	Information: "INFORMATION",
	Warning:     "WARNING",
	Error:       "ERROR",
	Critical:    "CRITICAL",
	None:        "NONE",
}

// Valid reports whether s is one of the declared severities
func (s Severity) Valid() bool {
	return s >= Trace && s <= None
}

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Severity(%d)", int8(s))
	}
	return severityLabels[s]
}

// ParseSeverity converts a label or common alias to a Severity
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "information", "info":
		return Information, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	case "critical", "fatal":
		return Critical, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("unknown severity: %s", s)
	}
}
