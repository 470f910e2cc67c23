package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/dispatcher"
	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/usage"
)

func TestConfig_GetSetUnset(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("config:get", "server"))
	require.Equal(t, "caddy\n", h.out.String())

	require.NoError(t, h.run("config:set", "server", "python3"))
	require.Equal(t, "python3", h.config.values["server"])

	require.NoError(t, h.run("config:get", "server"))
	require.Equal(t, "python3\n", h.out.String())

	require.NoError(t, h.run("config:unset", "server"))
	require.Empty(t, h.config.values["server"])
}

func TestConfig_InvalidKey(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{{"config:get", "nope"}, {"config:set", "nope", "1"}, {"config:unset", "nope"}} {
		err := h.run(args[0], args[1:]...)
		var uerr *usage.Error
		require.ErrorAs(t, err, &uerr, args)
		require.Equal(t, usage.ErrInvalidConfigKey, uerr.Kind, args)
	}
}

func TestConfig_MissingArguments(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		args []string
		line string
	}{
		{args: []string{"config:get"}, line: "cmdr config:get KEY"},
		{args: []string{"config:unset"}, line: "cmdr config:unset KEY"},
		{args: []string{"config:set"}, line: "cmdr config:set KEY VALUE"},
		{args: []string{"config:set", "server"}, line: "cmdr config:set KEY VALUE"},
	}
	for _, tt := range tests {
		err := h.run(tt.args[0], tt.args[1:]...)
		require.Equal(t, 2, dispatcher.ExitCode(err), tt.args)
		require.Contains(t, err.Error(), tt.line, tt.args)
	}
}

func TestConfig_List(t *testing.T) {
	h := newHarness(t)
	h.config.values = map[string]string{}
	for _, k := range domain.ConfigKeys {
		h.config.values[k.Name] = k.Default
	}

	require.NoError(t, h.run("config:list"))
	out := h.out.String()
	require.Contains(t, out, "COMMANDS\nsearch_roots=commands,.cmdr/commands\n")
	require.Contains(t, out, "\nHISTORY\nenable_history=true\nhistory_limit=20\n")
	require.NotContains(t, out, "editor=")
	require.NotContains(t, out, "pager=")

	h.config.values["editor"] = "vim"
	require.NoError(t, h.run("config:list"))
	require.Contains(t, h.out.String(), "editor=vim")

	require.Less(t, strings.Index(out, "COMMANDS"), strings.Index(out, "DISPLAY"))
}
