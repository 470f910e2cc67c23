package tasks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/log"
	"github.com/footprint-tools/cmdr/internal/usage"
)

const taskFile = `
tasks:
  db:seed:
    summary: Seed the database
    run: echo "seeding $1 in $CMDR_ENV"
  assets:precompile:
    summary: Build assets
    run: exit 3
`

func setup(t *testing.T) (*Runner, map[string]string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(taskFile), 0600))
	return &Runner{}, map[string]string{"tasks_file": path}
}

func ctxWith(out *bytes.Buffer) context.Context {
	return command.WithRuntime(context.Background(), command.Runtime{
		Out:    out,
		Err:    out,
		Env:    env.NewMap(map[string]string{"APP_ENV": "staging"}),
		Logger: log.NopLogger{},
	})
}

func TestPerform(t *testing.T) {
	r, cfg := setup(t)

	var out bytes.Buffer
	require.NoError(t, r.Perform(ctxWith(&out), "db:seed", []string{"demo"}, cfg))
	require.Equal(t, "seeding demo in staging\n", out.String())
}

func TestPerform_ExitStatus(t *testing.T) {
	r, cfg := setup(t)

	err := r.Perform(ctxWith(&bytes.Buffer{}), "assets:precompile", nil, cfg)
	var ue *usage.Error
	require.True(t, errors.As(err, &ue))
	require.Equal(t, 3, ue.GetExitCode())
}

func TestPerform_UnknownSuggests(t *testing.T) {
	r, cfg := setup(t)
	r.Candidates = func() []string { return []string{"server", "db:migrate"} }

	err := r.Perform(ctxWith(&bytes.Buffer{}), "db:sed", nil, cfg)
	var ue *usage.Error
	require.True(t, errors.As(err, &ue))
	require.Equal(t, usage.ErrUnknownCommand, ue.Kind)
	require.Equal(t, 1, ue.GetExitCode())
	require.Contains(t, ue.Message, "'db:sed' is not a cmdr command")
	require.Contains(t, ue.Message, "db:seed")
}

func TestLoad_MissingFile(t *testing.T) {
	tasks, err := Load(filepath.Join(t.TempDir(), "tasks.yaml"))
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasks: [\n"), 0600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestList(t *testing.T) {
	r, cfg := setup(t)
	list, err := r.List(cfg)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "assets:precompile", list[0].Name)
	require.Equal(t, "db:seed", list[1].Name)
}

func TestPath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "app")
	abs := filepath.Join(root, "other", "tasks.yaml")

	tests := []struct {
		name   string
		runner Runner
		cfg    map[string]string
		want   string
	}{
		{name: "default", want: DefaultFile},
		{name: "file", runner: Runner{File: "ops/tasks.yaml"}, cfg: map[string]string{}, want: "ops/tasks.yaml"},
		{name: "config wins", runner: Runner{File: "ops/tasks.yaml"}, cfg: map[string]string{"tasks_file": "x.yaml"}, want: "x.yaml"},
		{name: "default under root", runner: Runner{Root: root}, want: filepath.Join(root, DefaultFile)},
		{name: "config under root", runner: Runner{Root: root}, cfg: map[string]string{"tasks_file": "tasks.yaml"}, want: filepath.Join(root, "tasks.yaml")},
		{name: "absolute config ignores root", runner: Runner{Root: root}, cfg: map[string]string{"tasks_file": abs}, want: abs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.runner.Path(tt.cfg))
		})
	}
}
