// FILE: src/internal/sink/pipe_windows.go
//go:build windows

package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// PipeAddress builds the \\server\pipe\name path
func PipeAddress(server, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("pipe sink requires a pipe name")
	}
	if strings.HasPrefix(name, `\\`) {
		return name, nil
	}
	if server == "" {
		server = "."
	}
	return `\\` + server + `\pipe\` + name, nil
}

func dialPipe(ctx context.Context, addr string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.OpenFile(addr, os.O_WRONLY, 0)
}
