package commands

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/dispatcher"
	"github.com/footprint-tools/cmdr/internal/usage"
)

func TestDBConsole(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		cfg     map[string]string
		console string
		want    []string
		env     string
	}{
		{name: "defaults", console: "sqlite3", want: []string{filepath.Join("db", "development.sqlite3")}, env: "development"},
		{name: "positional environment abbreviation", args: []string{"prod"}, console: "sqlite3", want: []string{filepath.Join("db", "production.sqlite3")}, env: "production"},
		{name: "option wins over positional", args: []string{"prod", "-e", "test"}, console: "sqlite3", want: []string{filepath.Join("db", "test.sqlite3")}, env: "test"},
		{name: "mode and header", args: []string{"--mode", "line", "--header"}, console: "sqlite3", want: []string{"-line", "-header", filepath.Join("db", "development.sqlite3")}, env: "development"},
		{name: "no header", args: []string{"--no-header", "-c", "app.db"}, console: "sqlite3", want: []string{"-noheader", "app.db"}, env: "development"},
		{name: "psql with password", args: []string{"-p", "-c", "postgres://localhost/app"}, cfg: map[string]string{"dbconsole": "psql"}, console: "psql", want: []string{"--password", "postgres://localhost/app"}, env: "development"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.launcher.available["psql"] = true
			for k, v := range tt.cfg {
				h.cfg[k] = v
			}

			require.NoError(t, h.run("dbconsole", tt.args...))
			p := lastRun(t, h)
			require.Equal(t, tt.console, p.Name)
			require.Equal(t, tt.want, p.Args)
			require.Equal(t, tt.env, h.env.Get("CMDR_ENV"))
		})
	}
}

func TestDBConsole_DatabaseURL(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.env.Set("DATABASE_URL", "shared.db"))

	require.NoError(t, h.run("db"))
	require.Equal(t, []string{"shared.db"}, lastRun(t, h).Args)
}

func TestDBConsole_MissingClient(t *testing.T) {
	h := newHarness(t)
	h.cfg["dbconsole"] = "mysql"

	err := h.run("dbconsole")
	var ue *usage.Error
	require.True(t, errors.As(err, &ue))
	require.Equal(t, "Couldn't find database client: mysql. Check your $PATH and try again.", ue.Message)
	require.Equal(t, 1, dispatcher.ExitCode(err))
}

func TestDBConsole_InvalidMode(t *testing.T) {
	h := newHarness(t)

	err := h.run("dbconsole", "--mode", "csv")
	require.Equal(t, 2, dispatcher.ExitCode(err))
	require.Contains(t, err.Error(), "expected one of: html, list, line, column")
	require.Empty(t, h.launcher.runs)
}
