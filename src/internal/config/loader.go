// FILE: src/internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

const envPrefix = "FANLOG_"

// LoadWithCLI loads defaults, the config file, FANLOG_ environment variables
// and --section.key=value overrides, in increasing precedence
func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix(envPrefix).
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg == nil {
		return nil, fmt.Errorf("failed to load config from %s", configPath)
	}

	finalConfig := &Config{}
	if err := cfg.Scan("", finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.validate()
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = envPrefix + env
	return env
}

// GetConfigPath resolves the config file from FANLOG_CONFIG_FILE,
// FANLOG_CONFIG_DIR or the user config directory
func GetConfigPath() string {
	if configFile := os.Getenv("FANLOG_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("FANLOG_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("FANLOG_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "fanlog.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "fanlog.toml")
	}

	return "fanlog.toml"
}

// SplitOverrides separates --section.key=value overrides from regular flags
func SplitOverrides(args []string) (flags, overrides []string) {
	for _, arg := range args {
		key := strings.TrimLeft(arg, "-")
		if strings.HasPrefix(arg, "--") {
			if i := strings.IndexByte(key, '='); i >= 0 {
				key = key[:i]
			}
			if strings.Contains(key, ".") {
				overrides = append(overrides, arg)
				continue
			}
		}
		flags = append(flags, arg)
	}
	return flags, overrides
}
