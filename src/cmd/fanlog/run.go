// FILE: src/cmd/fanlog/run.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"fanlog/src/internal/config"
	"fanlog/src/internal/status"
	"fanlog/src/logging"

	"github.com/lixenwraith/log"
)

const (
	shutdownTimeout = 10 * time.Second
	maxInputLine    = 1 << 20
)

// run forwards stdin lines through a provider until EOF or ctx ends
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, isTerminal bool, logger *log.Logger) error {
	settings, err := cfg.ToSettings(out, isTerminal, logger)
	if err != nil {
		return fmt.Errorf("invalid output settings: %w", err)
	}

	provider := logging.NewProvider(settings)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("msg", "Provider shutdown incomplete", "error", err)
		}
		logStats(logger, provider.Stats())
	}()

	logger.Info("msg", "Provider started",
		"provider_id", provider.ID(),
		"sinks", settings.Sinks.String(),
		"category", cfg.Category)

	if cfg.Status.Enabled {
		srv := status.NewServer(status.Config{Host: cfg.Status.Host, Port: cfg.Status.Port}, provider, logger)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
		defer srv.Stop()
	}

	dispatcher := provider.Logger(cfg.Category)
	severity := cfg.StdinSeverity()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), maxInputLine)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			dispatcher.Log(severity, line, nil)
		}
	}
}

func logStats(logger *log.Logger, stats []logging.SinkStats) {
	for _, st := range stats {
		logger.Info("msg", "Sink statistics",
			"sink", st.Type,
			"enqueued", st.Enqueued,
			"delivered", st.Delivered,
			"failed", st.Failed,
			"dropped", st.Dropped,
			"retries", st.Retries,
			"degraded", st.Degraded)
	}
}
