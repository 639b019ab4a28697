// FILE: src/internal/sink/pipe_unix.go
//go:build !windows

package sink

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// PipeAddress maps a pipe name to a unix domain socket path. Absolute names
// are used as-is, others live in the temp directory. Remote servers are not
// supported.
func PipeAddress(server, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("pipe sink requires a pipe name")
	}

	switch strings.ToLower(server) {
	case "", ".", "localhost":
	default:
		return "", fmt.Errorf("%w: remote pipe server %q", ErrUnsupported, server)
	}

	if filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Join(os.TempDir(), name+".pipe"), nil
}

func dialPipe(ctx context.Context, addr string) (io.WriteCloser, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", addr)
}
