// FILE: src/internal/sink/eventlog_windows.go
//go:build windows

package sink

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/sys/windows/svc/eventlog"
)

const eventLogRoot = `SYSTEM\CurrentControlSet\Services\EventLog`

// sourceRegistered looks for source under every event log
func sourceRegistered(source string) (bool, error) {
	root, err := registry.OpenKey(registry.LOCAL_MACHINE, eventLogRoot, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return false, fmt.Errorf("failed to open event log registry: %w", err)
	}
	defer root.Close()

	logs, err := root.ReadSubKeyNames(-1)
	if err != nil {
		return false, fmt.Errorf("failed to enumerate event logs: %w", err)
	}

	for _, name := range logs {
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, eventLogRoot+`\`+name+`\`+source, registry.QUERY_VALUE)
		if err == nil {
			k.Close()
			return true, nil
		}
		if !errors.Is(err, registry.ErrNotExist) && !errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return false, fmt.Errorf("failed to query event log %s: %w", name, err)
		}
	}
	return false, nil
}

func openEventWriter(source string) (eventWriter, error) {
	return eventlog.Open(source)
}
