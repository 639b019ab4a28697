// FILE: src/internal/core/sinkkind.go
package core

import (
	"fmt"
	"strings"
)

// SinkKind identifies one output destination
type SinkKind uint8

const (
	Console SinkKind = iota
	File
	EventLog
	Pipe
	numSinkKinds
)

// AllKinds lists every sink kind in dispatch order
var AllKinds = [...]SinkKind{Console, File, Pipe, EventLog}

func (k SinkKind) String() string {
	switch k {
	case Console:
		return "console"
	case File:
		return "file"
	case EventLog:
		return "eventlog"
	case Pipe:
		return "pipe"
	default:
		return fmt.Sprintf("SinkKind(%d)", uint8(k))
	}
}

// SinkSet is a set of sink kinds
type SinkSet uint8

const (
	NoSinks SinkSet = 0
	// AllNonPrivileged covers the sinks available on every platform
	AllNonPrivileged = SinkSet(1<<Console | 1<<File)
	AllSinks         = SinkSet(1<<Console | 1<<File | 1<<EventLog | 1<<Pipe)
)

// NewSinkSet builds a set from the given kinds
func NewSinkSet(kinds ...SinkKind) SinkSet {
	var s SinkSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s SinkSet) With(k SinkKind) SinkSet {
	if k >= numSinkKinds {
		panic(fmt.Sprintf("invalid sink kind %d", k))
	}
	return s | 1<<k
}

func (s SinkSet) Without(k SinkKind) SinkSet {
	return s &^ (1 << k)
}

func (s SinkSet) Has(k SinkKind) bool {
	return k < numSinkKinds && s&(1<<k) != 0
}

func (s SinkSet) Empty() bool {
	return s&AllSinks == 0
}

// Kinds returns the members of s in dispatch order
func (s SinkSet) Kinds() []SinkKind {
	var kinds []SinkKind
	for _, k := range AllKinds {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s SinkSet) String() string {
	if s.Empty() {
		return "none"
	}
	names := make([]string, 0, numSinkKinds)
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ",")
}

// ParseSinkSet parses a comma separated list such as "console,file" or "all"
func ParseSinkSet(s string) (SinkSet, error) {
	var set SinkSet
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
			continue
		case "none":
		case "console":
			set = set.With(Console)
		case "file":
			set = set.With(File)
		case "eventlog", "event_log":
			set = set.With(EventLog)
		case "pipe", "pipes":
			set = set.With(Pipe)
		case "all":
			set |= AllSinks
		case "all_non_privileged", "allnonewindows":
			set |= AllNonPrivileged
		default:
			return NoSinks, fmt.Errorf("unknown sink: %s", part)
		}
	}
	return set, nil
}
