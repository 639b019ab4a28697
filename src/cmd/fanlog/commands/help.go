// FILE: src/cmd/fanlog/commands/help.go
package commands

import (
	"fmt"
	"sort"
	"strings"
)

// generalHelpTemplate is the default help message shown when no specific command is requested.
const generalHelpTemplate = `fanlog: fan log lines out to console, file, named pipe and OS event log.

Usage:
  fanlog [command] [options]
  fanlog [options] < input

Commands:
%s

Forwarder Options:
  -c, --config <path>      Path to configuration file (default: ~/.config/fanlog.toml)
      --category <name>    Category for lines read from stdin
      --level <severity>   Severity for lines read from stdin (default: information)
      --sinks <list>       Sinks: console, file, pipe, eventlog, all, all_non_privileged, none
  -q, --quiet              Suppress fanlog's own diagnostics
  -v, --version            Display version information and exit
  -h, --help               Display this help message and exit

Any setting can be overridden as --section.key=value, e.g. --output.min_severity=warning

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - CLI flags override all other settings
  - FANLOG_ environment variables override file settings
  - TOML configuration file is the primary method

Examples:
  # Forward a build log to console and file
  make 2>&1 | fanlog --sinks console,file --category build

  # Forward warnings to a named pipe read by another process
  fanlog listen --name app &
  tail -f app.log | fanlog --sinks pipe --pipe.enabled=true --pipe.name=app --level warning
`

// HelpCommand handles the display of general or command-specific help messages.
type HelpCommand struct {
	router *CommandRouter
}

// NewHelpCommand creates a new help command handler.
func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Print(handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Print(c.generalHelp())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  fanlog help              Show general help
  fanlog help <command>    Show help for a specific command

Examples:
  fanlog help listen       # Show listen command help
  fanlog listen --help     # Alternative way to get command help
`
}

func (c *HelpCommand) generalHelp() string {
	return fmt.Sprintf(generalHelpTemplate, c.formatCommandList())
}

// formatCommandList creates a formatted and aligned list of all available commands.
func (c *HelpCommand) formatCommandList() string {
	commands := c.router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		handler := commands[name]
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, handler.Description()))
	}

	return strings.Join(lines, "\n")
}
