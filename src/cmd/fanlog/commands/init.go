// FILE: src/cmd/fanlog/commands/init.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fanlog/src/internal/config"
)

// InitCommand writes the default configuration as TOML
type InitCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		output: os.Stdout,
		errOut: os.Stderr,
	}
}

func (ic *InitCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("init", flag.ContinueOnError)
	cmd.SetOutput(ic.errOut)

	var (
		out   = cmd.String("o", "", "Output file")
		force = cmd.Bool("force", false, "Overwrite an existing file")
	)

	cmd.Usage = func() {
		fmt.Fprint(ic.errOut, ic.Help())
		fmt.Fprintln(ic.errOut, "\nOptions:")
		cmd.PrintDefaults()
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if cmd.NArg() > 0 {
		return fmt.Errorf("unexpected argument(s): %s", strings.Join(cmd.Args(), " "))
	}

	path := coalesceString(*out, config.GetConfigPath())

	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Defaults().SaveToFile(path); err != nil {
		return err
	}

	fmt.Fprintf(ic.output, "Wrote default configuration to %s\n", path)
	return nil
}

func (ic *InitCommand) Description() string {
	return "Write the default configuration file"
}

func (ic *InitCommand) Help() string {
	return `Init Command - Write the default configuration file

Usage:
  fanlog init [-o <path>] [--force]

Without -o the file is written where fanlog looks for it:
FANLOG_CONFIG_FILE, FANLOG_CONFIG_DIR/fanlog.toml or ~/.config/fanlog.toml
`
}
