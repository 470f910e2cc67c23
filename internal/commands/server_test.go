package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/dispatcher"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/launch"
	"github.com/footprint-tools/cmdr/internal/usage"
)

func lastRun(t *testing.T, h *harness) launch.Process {
	t.Helper()
	require.NotEmpty(t, h.launcher.runs)
	return h.launcher.runs[len(h.launcher.runs)-1]
}

func envValue(vars []string, key string) string {
	var out string
	for _, kv := range vars {
		if len(kv) > len(key) && kv[:len(key)+1] == key+"=" {
			out = kv[len(key)+1:]
		}
	}
	return out
}

func TestServer_Defaults(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("server"))

	p := lastRun(t, h)
	require.Equal(t, "caddy", p.Name)
	require.Equal(t, []string{"file-server", "--listen", "localhost:3000"}, p.Args)
	require.Equal(t, "3000", envValue(p.Env, "PORT"))
	require.Equal(t, "development", envValue(p.Env, "CMDR_ENV"))
	require.Equal(t, filepath.Join(h.root, DefaultPidPath), envValue(p.Env, "CMDR_SERVER_PID"))

	out := h.out.String()
	require.Contains(t, out, "=> Booting caddy\n")
	require.Contains(t, out, "=> cmdr 1.0.0 application starting in development http://localhost:3000\n")
	require.Contains(t, out, "Exiting\n")

	for _, dir := range []string{"tmp/cache", "tmp/pids", "tmp/sockets"} {
		require.DirExists(t, filepath.Join(h.root, dir))
	}
}

func TestServer_OptionsAndAliases(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("s", "-p4000", "-b", "0.0.0.0", "-u", "python3"))

	p := lastRun(t, h)
	require.Equal(t, "python3", p.Name)
	require.Equal(t, []string{"-m", "http.server", "4000", "--bind", "0.0.0.0"}, p.Args)
}

func TestServer_DeprecatedPositional(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("server", "python3"))
	require.Equal(t, "python3", lastRun(t, h).Name)
	require.Contains(t, h.errOut.String(), "DEPRECATION WARNING")
}

func TestServer_BackendFromConfig(t *testing.T) {
	h := newHarness(t)
	h.cfg["server"] = "python3"

	require.NoError(t, h.run("server"))
	require.Equal(t, "python3", lastRun(t, h).Name)
}

func TestServer_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    string
	}{
		{name: "known", backend: "php", want: `Could not load server "php". Maybe you need to install it?`},
		{name: "misspelled", backend: "caddyy", want: `Could not find server "caddyy". Maybe you meant ["caddy"]?`},
		{name: "nothing close", backend: "zzzzzzzzzzzz", want: "Could not find server \"zzzzzzzzzzzz\".\nRun `cmdr server --help`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			err := h.run("server", "-u", tt.backend)

			var ue *usage.Error
			require.True(t, errors.As(err, &ue))
			require.Equal(t, usage.ErrExternalUnavailable, ue.Kind)
			require.Contains(t, ue.Message, tt.want)
			require.NotContains(t, ue.Message, "[]")
			require.Equal(t, 1, dispatcher.ExitCode(err))
			require.Empty(t, h.launcher.runs)
		})
	}
}

func TestServer_HostAndPortFromEnvironment(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.env.Set("HOST", "127.0.0.2"))
	require.NoError(t, h.env.Set("PORT", "8080"))

	require.NoError(t, h.run("server"))
	require.Equal(t, []string{"file-server", "--listen", "127.0.0.2:8080"}, lastRun(t, h).Args)
}

func TestServer_ProductionBindsAllInterfaces(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("server", "-e", "production"))
	require.Equal(t, []string{"file-server", "--listen", "0.0.0.0:3000"}, lastRun(t, h).Args)
	require.Equal(t, "production", env.Environment(h.env))
	require.Contains(t, h.out.String(), "starting in production")
}

func TestServer_Restart(t *testing.T) {
	h := newHarness(t)
	pid := h.write(t, DefaultPidPath, "123")

	require.NoError(t, h.run("server", "--restart"))
	require.NoFileExists(t, pid)
	require.Equal(t, "cmdr server --restart", envValue(lastRun(t, h).Env, "CMDR_SERVER_RESTART"))
}

func TestServer_DevCaching(t *testing.T) {
	h := newHarness(t)
	marker := filepath.Join(h.root, "tmp", "caching-dev.txt")

	require.NoError(t, h.run("server", "--dev-caching"))
	require.FileExists(t, marker)
	require.Contains(t, h.out.String(), "Development mode is now being cached.")

	require.NoError(t, h.run("server", "--no-dev-caching"))
	_, err := os.Stat(marker)
	require.True(t, os.IsNotExist(err))
}

func TestServer_DaemonSkipsExitingMessage(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("server", "-d"))
	require.NotContains(t, h.out.String(), "Exiting")
	require.Equal(t, "1", envValue(lastRun(t, h).Env, "CMDR_SERVER_DAEMON"))
}

func TestServer_BackendFailure(t *testing.T) {
	h := newHarness(t)
	h.launcher.code = 4

	err := h.run("server")
	require.Equal(t, 4, dispatcher.ExitCode(err))
}

func TestServer_InvalidPort(t *testing.T) {
	h := newHarness(t)

	err := h.run("server", "-p", "abc")
	require.Equal(t, 2, dispatcher.ExitCode(err))
	require.Empty(t, h.launcher.runs)
}

func TestServer_UserSupplied(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.env.Set("HOST", "example.test"))

	var got ServerOptions
	d := Server(h.deps)
	d.BeforeCommand(func(c *command.Context) command.Outcome {
		got = buildServerOptions(c, h.root)
		return command.Halt
	})
	require.NoError(t, d.Perform(command.WithRuntime(t.Context(), command.Runtime{Out: &h.out, Err: &h.errOut, Env: h.env}), "server", []string{"-p", "4000", "-C", "--early-hints"}, nil))

	require.Equal(t, []string{"Port", "caching", "early_hints", "Host"}, got.UserSupplied)
	require.Equal(t, "example.test", got.Host)
	require.NotNil(t, got.Caching)
	require.True(t, *got.Caching)
	require.True(t, got.EarlyHints)
	require.True(t, got.LogStdout)
}
