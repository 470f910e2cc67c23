package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/dispatcher"
)

func TestRunner(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, h *harness)
		args  []string
		code  int
		out   string
	}{
		{name: "inline code", args: []string{"echo hello"}, out: "hello\n"},
		{name: "inline with environment", args: []string{"-e", "test", "echo $CMDR_ENV"}, out: "test\n"},
		{name: "extra args", args: []string{`echo "$1,$2"`, "a", "b"}, out: "a,b\n"},
		{
			name:  "script file",
			setup: func(t *testing.T, h *harness) { h.write(t, "bin/job.sh", "echo job $1\n") },
			args:  []string{"bin/job.sh", "now"},
			out:   "job now\n",
		},
		{
			name:  "stdin",
			setup: func(_ *testing.T, h *harness) { h.stdin = "echo from-stdin\n" },
			args:  []string{"-"},
			out:   "from-stdin\n",
		},
		{name: "exit status propagates", args: []string{"exit 3"}, code: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(t, h)
			}
			err := h.run("runner", tt.args...)
			require.Equal(t, tt.code, dispatcher.ExitCode(err))
			require.Equal(t, tt.out, h.out.String())
		})
	}
}

func TestRunner_WithoutArgumentShowsHelp(t *testing.T) {
	h := newHarness(t)

	err := h.run("runner")
	require.Equal(t, 1, dispatcher.ExitCode(err))
	require.Contains(t, h.out.String(), "cmdr runner [CODE_OR_FILE] [options] [<'code'> | <file> | -]")
}

func TestRunner_HelpEntrySkipsGuard(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("runner:help"))
	require.Contains(t, h.out.String(), "runner - Run shell code")
}

func TestRunner_SyntaxError(t *testing.T) {
	h := newHarness(t)

	err := h.run("runner", "if then fi (")
	require.Equal(t, 1, dispatcher.ExitCode(err))
	require.Contains(t, h.errOut.String(), "Please specify a valid shell command or the path of a script to run.")
	require.Contains(t, h.errOut.String(), "Run 'cmdr runner -h' for help.")
}

func TestRunner_EnvironmentOptionSetsProcessEnv(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("runner", "-e", "staging", "true"))
	require.Equal(t, "staging", h.env.Get("CMDR_ENV"))
}
