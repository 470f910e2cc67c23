package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/log"
)

func defaults() map[string]string {
	cfg := make(map[string]string, len(domain.ConfigKeys))
	for _, k := range domain.ConfigKeys {
		cfg[k.Name] = k.Default
	}
	cfg["enable_log"] = "false"
	cfg["enable_history"] = "false"
	return cfg
}

func newTestApp(t *testing.T, cfg map[string]string) (*App, *bytes.Buffer, string) {
	t.Helper()
	root := t.TempDir()
	out := &bytes.Buffer{}
	a, err := New(Options{
		Config:        cfg,
		PagerDisabled: true,
		Getwd:         func() (string, error) { return root, nil },
		Runtime:       command.Runtime{Out: out, Err: out, Env: env.NewMap(nil)},
		LogPath:       filepath.Join(root, "cmdr.log"),
		HistoryPath:   filepath.Join(root, "history.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, out, root
}

func TestNew_Builtins(t *testing.T) {
	a, out, _ := newTestApp(t, defaults())

	require.Nil(t, a.History)
	require.IsType(t, log.NopLogger{}, a.Logger)

	require.NoError(t, a.Invoke(context.Background(), "version", nil))
	require.Equal(t, "cmdr "+Version+"\n", out.String())
}

func TestNew_SearchRoots(t *testing.T) {
	cfg := defaults()
	cfg["search_roots"] = "commands,extra,"
	a, out, root := newTestApp(t, cfg)

	require.Equal(t, []string{filepath.Join(root, "commands"), filepath.Join(root, "extra")}, a.Registry.Roots())

	dir := filepath.Join(root, "extra", "db")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "migrate_command.yaml"), []byte("summary: Migrate\nrun: echo migrating $1\n"), 0644))

	require.NoError(t, a.Invoke(context.Background(), "db:migrate", []string{"now"}))
	require.Equal(t, "migrating now\n", out.String())
}

func TestNew_TaskFallback(t *testing.T) {
	a, out, root := newTestApp(t, defaults())
	a.Config["tasks_file"] = filepath.Join(root, "tasks.yaml")
	require.NoError(t, os.WriteFile(a.Config["tasks_file"], []byte("tasks:\n  lint:\n    run: echo linting\n"), 0644))

	require.NoError(t, a.Invoke(context.Background(), "lint", nil))
	require.Equal(t, "linting\n", out.String())
}

func TestNew_TaskFileRelativeToProject(t *testing.T) {
	cfg := defaults()
	cfg["tasks_file"] = "tasks.yaml"
	a, out, root := newTestApp(t, cfg)
	require.NoError(t, os.WriteFile(filepath.Join(root, "tasks.yaml"), []byte("tasks:\n  lint:\n    run: echo from root\n"), 0644))

	require.Equal(t, filepath.Join(root, "tasks.yaml"), a.Tasks.Path(a.Config))
	require.NoError(t, a.Invoke(context.Background(), "lint", nil))
	require.Equal(t, "from root\n", out.String())
}

func TestNew_History(t *testing.T) {
	cfg := defaults()
	cfg["enable_history"] = "true"
	a, out, _ := newTestApp(t, cfg)
	require.NotNil(t, a.History)

	require.NoError(t, a.Invoke(context.Background(), "version", nil))
	runs, err := a.History.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "version", runs[0].Namespace)
	require.True(t, runs[0].Resolved)

	out.Reset()
	require.NoError(t, a.Invoke(context.Background(), "history", nil))
	require.Contains(t, out.String(), "version")
}

func TestNew_Logging(t *testing.T) {
	cfg := defaults()
	cfg["enable_log"] = "true"
	cfg["log_level"] = "debug"
	a, _, root := newTestApp(t, cfg)
	t.Cleanup(func() { log.SetDefault(nil) })

	require.NoError(t, a.Invoke(context.Background(), "version", nil))
	require.NoError(t, a.Close())

	data, err := os.ReadFile(filepath.Join(root, "cmdr.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "dispatch: version")
}

func TestClose_NilComponents(t *testing.T) {
	a := &App{}
	require.NoError(t, a.Close())
}
