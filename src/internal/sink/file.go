// FILE: src/internal/sink/file.go
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fanlog/src/internal/core"

	"github.com/lixenwraith/log"
)

// FileDeliverer appends queued lines to a file, one write per line
type FileDeliverer struct {
	path   string
	file   *os.File
	logger *log.Logger
}

// NewFileDeliverer creates a file deliverer for path
func NewFileDeliverer(path string, logger *log.Logger) (*FileDeliverer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file sink requires a path")
	}
	if logger == nil {
		logger = log.NewLogger()
	}
	return &FileDeliverer{path: path, logger: logger}, nil
}

func (f *FileDeliverer) Kind() core.SinkKind {
	return core.File
}

// Path returns the configured file path
func (f *FileDeliverer) Path() string {
	return f.path
}

func (f *FileDeliverer) Open(ctx context.Context) error {
	if f.file != nil {
		return nil
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", f.path, err)
	}
	f.file = file

	f.logger.Debug("msg", "Log file opened",
		"component", "file_sink",
		"path", f.path)
	return nil
}

// Deliver writes line as-is. A failed write releases the handle so the
// next attempt reopens the file.
func (f *FileDeliverer) Deliver(ctx context.Context, line string) error {
	if err := f.Open(ctx); err != nil {
		return err
	}

	if _, err := f.file.WriteString(line); err != nil {
		_ = f.file.Close()
		f.file = nil
		return fmt.Errorf("failed to write to %s: %w", f.path, err)
	}
	return nil
}

func (f *FileDeliverer) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// DefaultFilePath derives the log path from the running executable, falling
// back to a timestamped name in the working directory.
func DefaultFilePath(now time.Time) string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		return fallbackFilePath(now)
	}
	base := strings.TrimSuffix(exe, filepath.Ext(exe))
	if filepath.Base(base) == "" || filepath.Base(base) == "." {
		return fallbackFilePath(now)
	}
	return base + ".log"
}

func fallbackFilePath(now time.Time) string {
	return "Unnamed-Log-" + now.Format("02-01-2006_15-04-05") + ".log"
}
