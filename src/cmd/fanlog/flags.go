// FILE: src/cmd/fanlog/flags.go
package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"fanlog/src/internal/core"
)

// FlagConfig holds the parsed command-line flags
type FlagConfig struct {
	ConfigFile  string
	Category    string
	Level       string
	Sinks       string
	ShowVersion bool
	Quiet       bool
}

// ParseFlags parses regular flags; --section.key overrides are split off beforehand
func ParseFlags(args []string, errOut io.Writer) (*FlagConfig, error) {
	fc := &FlagConfig{}

	fs := flag.NewFlagSet("fanlog", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&fc.ConfigFile, "config", "", "Config file path")
	fs.StringVar(&fc.ConfigFile, "c", "", "Config file path (shorthand)")
	fs.StringVar(&fc.Category, "category", "", "Category for lines read from stdin")
	fs.StringVar(&fc.Level, "level", "", "Severity for lines read from stdin")
	fs.StringVar(&fc.Sinks, "sinks", "", "Sinks: console, file, pipe, eventlog, all, all_non_privileged, none")
	fs.BoolVar(&fc.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&fc.ShowVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&fc.Quiet, "quiet", false, "Suppress all console output of fanlog itself")
	fs.BoolVar(&fc.Quiet, "q", false, "Suppress all console output (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if fc.Level != "" {
		if _, err := core.ParseSeverity(fc.Level); err != nil {
			return nil, fmt.Errorf("invalid level: %w", err)
		}
	}
	if fc.Sinks != "" {
		if _, err := core.ParseSinkSet(fc.Sinks); err != nil {
			return nil, fmt.Errorf("invalid sinks: %w", err)
		}
	}

	return fc, nil
}

// Overrides renders the set flags as config arguments
func (fc *FlagConfig) Overrides() []string {
	var args []string
	if fc.Category != "" {
		args = append(args, "--category="+fc.Category)
	}
	if fc.Level != "" {
		args = append(args, "--level="+strings.ToLower(fc.Level))
	}
	if fc.Sinks != "" {
		args = append(args, "--output.sinks="+fc.Sinks)
	}
	if fc.Quiet {
		args = append(args, "--quiet=true")
	}
	return args
}
