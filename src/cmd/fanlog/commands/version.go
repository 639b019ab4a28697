// FILE: src/cmd/fanlog/commands/version.go
package commands

import (
	"fmt"

	"fanlog/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct{}

// NewVersionCommand creates a new version command
func NewVersionCommand() *VersionCommand {
	return &VersionCommand{}
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Println(version.Full())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show fanlog version information

Usage:
  fanlog version
  fanlog -v
  fanlog --version

Output includes:
  - Version number
  - Build date
  - Git commit hash (if available)
  - Go version and platform
`
}
