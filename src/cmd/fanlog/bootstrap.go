// FILE: src/cmd/fanlog/bootstrap.go
package main

import (
	"fmt"
	"strings"

	"fanlog/src/internal/config"

	"github.com/lixenwraith/log"
)

// initializeLogger sets up the diagnostics logger based on configuration
func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()

	var configArgs []string

	if cfg.Quiet {
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=false",
			"level=255")

		return logger.InitWithDefaults(configArgs...)
	}

	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = config.DefaultLogConfig()
	}

	levelValue, err := parseLogLevel(logCfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	switch logCfg.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout", "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target="+logCfg.Output)

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		if logCfg.File != nil {
			configArgs = append(configArgs,
				fmt.Sprintf("directory=%s", logCfg.File.Directory),
				fmt.Sprintf("name=%s", logCfg.File.Name))
		}

	default:
		return fmt.Errorf("invalid log output mode: %s", logCfg.Output)
	}

	return logger.InitWithDefaults(configArgs...)
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
