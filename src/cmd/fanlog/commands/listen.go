// FILE: src/cmd/fanlog/commands/listen.go
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fanlog/src/internal/pipeserver"
	"fanlog/src/internal/sink"

	"github.com/lixenwraith/log"
)

// ListenCommand serves a named pipe and prints every received line
type ListenCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewListenCommand() *ListenCommand {
	return &ListenCommand{
		output: os.Stdout,
		errOut: os.Stderr,
	}
}

func (lc *ListenCommand) Execute(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return lc.listen(ctx, args)
}

func (lc *ListenCommand) listen(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("listen", flag.ContinueOnError)
	cmd.SetOutput(lc.errOut)

	var (
		name     = cmd.String("n", "", "Pipe name")
		nameLong = cmd.String("name", "fanlog", "Pipe name")
		server   = cmd.String("server", ".", "Pipe server")
		verbose  = cmd.Bool("verbose", false, "Log connection events to stderr")
	)

	cmd.Usage = func() {
		fmt.Fprint(lc.errOut, lc.Help())
		fmt.Fprintln(lc.errOut, "\nOptions:")
		cmd.PrintDefaults()
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if cmd.NArg() > 0 {
		return fmt.Errorf("unexpected argument(s): %s", strings.Join(cmd.Args(), " "))
	}

	address, err := sink.PipeAddress(*server, coalesceString(*name, *nameLong))
	if err != nil {
		return fmt.Errorf("invalid pipe: %w", err)
	}

	logger := log.NewLogger()
	if *verbose {
		if err := logger.InitWithDefaults(
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr",
			fmt.Sprintf("level=%d", log.LevelDebug),
		); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Shutdown(time.Second)
	}

	listener := pipeserver.New(address, lc.output, logger)
	if err := listener.Start(); err != nil {
		return err
	}
	defer listener.Stop()

	fmt.Fprintf(lc.errOut, "Listening on %s\n", address)
	<-ctx.Done()

	stats := listener.GetStats()
	fmt.Fprintf(lc.errOut, "Received %d lines (%d truncated)\n", stats.TotalLines, stats.Truncated)
	return nil
}

func (lc *ListenCommand) Description() string {
	return "Serve a named pipe and print received lines"
}

func (lc *ListenCommand) Help() string {
	return `Listen Command - Serve a named pipe and print received lines

Usage:
  fanlog listen [--name <pipe>] [--server <host>] [--verbose]

Lines written by a fanlog pipe sink are printed to stdout until
interrupted. On Unix the pipe is a socket under the temp directory
unless the name is an absolute path.

Examples:
  fanlog listen --name app
  fanlog listen --name /run/app/log.sock --verbose
`
}
