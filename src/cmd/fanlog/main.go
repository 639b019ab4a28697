// FILE: src/cmd/fanlog/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"fanlog/src/cmd/fanlog/commands"
	"fanlog/src/internal/config"
	"fanlog/src/internal/version"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

var logger *log.Logger

func main() {
	router := commands.NewCommandRouter()
	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		os.Exit(0)
	}

	flagArgs, overrides := config.SplitOverrides(os.Args[1:])
	flagCfg, err := ParseFlags(flagArgs, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	InitOutputHandler(flagCfg.Quiet)

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if flagCfg.ConfigFile != "" {
		os.Setenv("FANLOG_CONFIG_FILE", flagCfg.ConfigFile)
	}

	cfg, err := config.LoadWithCLI(append(flagCfg.Overrides(), overrides...))
	if err != nil {
		if flagCfg.ConfigFile != "" && strings.Contains(err.Error(), "not found") {
			FatalError(2, "Config file not found: %s\n", flagCfg.ConfigFile)
		}
		FatalError(1, "Failed to load config: %v\n", err)
	}

	if err := initializeLogger(cfg); err != nil {
		FatalError(1, "Failed to initialize logger: %v\n", err)
	}

	logger.Info("msg", "fanlog starting",
		"version", version.String(),
		"config_file", config.GetConfigPath(),
		"sinks", cfg.Output.Sinks)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := NewSignalHandler(logger)
	defer signals.Stop()
	go func() {
		if sig := signals.Wait(ctx); sig != nil {
			cancel()
		}
	}()

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	runErr := run(ctx, cfg, os.Stdin, os.Stdout, isTerminal, logger)

	if runErr != nil {
		logger.Error("msg", "fanlog stopped with error", "error", runErr)
		Error("Error: %v\n", runErr)
	} else {
		logger.Info("msg", "Shutdown complete")
	}
	shutdownLogger()

	if runErr != nil {
		os.Exit(1)
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
