package launch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExec_LookPathMissing(t *testing.T) {
	_, err := Exec{}.LookPath("cmdr-definitely-not-installed")
	require.True(t, errors.Is(err, ErrNotFound))
	require.False(t, Available(Exec{}, "cmdr-definitely-not-installed"))
}

func TestExec_Run(t *testing.T) {
	if !Available(Exec{}, "sh") {
		t.Skip("sh not available")
	}

	tests := []struct {
		name   string
		script string
		code   int
		out    string
	}{
		{name: "success", script: "echo hi", code: 0, out: "hi\n"},
		{name: "exit status", script: "exit 3", code: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code, err := Exec{}.Run(context.Background(), Process{Name: "sh", Args: []string{"-c", tt.script}, Stdout: &out})
			require.NoError(t, err)
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.out, out.String())
		})
	}
}

func TestExec_RunMissing(t *testing.T) {
	code, err := Exec{}.Run(context.Background(), Process{Name: "cmdr-definitely-not-installed"})
	require.Error(t, err)
	require.Equal(t, 127, code)
}
