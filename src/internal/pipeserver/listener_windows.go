// FILE: src/internal/pipeserver/listener_windows.go
//go:build windows

package pipeserver

import (
	"fmt"

	"fanlog/src/internal/sink"
)

type platform struct{}

// Start is not available on Windows, where named pipe servers need a
// dedicated listener
func (l *Listener) Start() error {
	return fmt.Errorf("%w: pipe listener", sink.ErrUnsupported)
}

func (l *Listener) Stop() {}
