// FILE: src/internal/sink/console.go
package sink

import (
	"io"
	"os"
	"sync"

	"fanlog/src/internal/core"
)

// Console writes one line per event to an output stream
type Console struct {
	mu       sync.Mutex
	output   io.Writer
	colorize bool
}

// NewConsole creates a console sink. A nil output selects os.Stdout.
func NewConsole(output io.Writer, colorize bool) *Console {
	if output == nil {
		output = os.Stdout
	}
	return &Console{output: output, colorize: colorize}
}

func (c *Console) Kind() core.SinkKind {
	return core.Console
}

// Write emits the decorated or plain rendering as a single write
func (c *Console) Write(_ core.LogEvent, r core.Rendered) error {
	line := r.Select(c.colorize) + "\n"

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.output, line)
	return err
}

func (c *Console) Close() error {
	return nil
}
