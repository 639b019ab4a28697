// FILE: src/internal/sink/eventlog_other.go
//go:build !windows

package sink

func sourceRegistered(string) (bool, error) {
	return false, ErrUnsupported
}

func openEventWriter(string) (eventWriter, error) {
	return nil, ErrUnsupported
}
