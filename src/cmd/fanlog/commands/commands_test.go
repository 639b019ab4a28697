// FILE: src/cmd/fanlog/commands/commands_test.go
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fanlog/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Route(t *testing.T) {
	router := NewCommandRouter()

	handled, err := router.Route([]string{"fanlog"})
	assert.False(t, handled)
	assert.NoError(t, err)

	handled, err = router.Route([]string{"fanlog", "--sinks", "console"})
	assert.False(t, handled, "flags fall through to the forwarder")
	assert.NoError(t, err)

	handled, err = router.Route([]string{"fanlog", "bogus"})
	assert.False(t, handled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command: bogus")

	for _, name := range []string{"init", "listen", "version", "help"} {
		_, ok := router.GetCommand(name)
		assert.True(t, ok, name)
	}
}

func TestHelp_ListsCommands(t *testing.T) {
	help := NewHelpCommand(NewCommandRouter())
	text := help.generalHelp()

	assert.Contains(t, text, "listen")
	assert.Contains(t, text, "Serve a named pipe")
	assert.Less(t, strings.Index(text, "  help"), strings.Index(text, "  init"))

	assert.Error(t, help.Execute([]string{"nope"}))
}

func TestInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fanlog.toml")
	var out, errOut bytes.Buffer
	cmd := &InitCommand{output: &out, errOut: &errOut}

	require.NoError(t, cmd.Execute([]string{"-o", path}))
	assert.Contains(t, out.String(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "min_severity")

	err = cmd.Execute([]string{"-o", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, cmd.Execute([]string{"-o", path, "--force"}))

	t.Setenv("FANLOG_CONFIG_FILE", path)
	t.Setenv("FANLOG_CONFIG_DIR", "")
	cfg, err := config.LoadWithCLI(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().Output, cfg.Output)
}

func TestInit_RejectsExtraArgs(t *testing.T) {
	var buf bytes.Buffer
	cmd := &InitCommand{output: &buf, errOut: &buf}
	assert.Error(t, cmd.Execute([]string{"extra"}))
}
