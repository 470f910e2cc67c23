package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/dispatcher"
	"github.com/footprint-tools/cmdr/internal/launch"
	"github.com/footprint-tools/cmdr/internal/vault"
)

// editorWrites makes the fake editor replace the edited file with content.
func editorWrites(t *testing.T, h *harness, content string) {
	t.Helper()
	h.cfg["editor"] = "fake-editor --wait"
	h.launcher.onRun = func(p launch.Process) {
		require.Equal(t, "fake-editor", p.Name)
		require.Equal(t, "--wait", p.Args[0])
		require.NoError(t, os.WriteFile(p.Args[len(p.Args)-1], []byte(content), 0600))
	}
}

func TestEncryptedEdit_NoEditorHalts(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("encrypted:edit", "config/secrets.yml.enc"))
	require.Contains(t, h.out.String(), "No $EDITOR to open file in.")
	require.Contains(t, h.out.String(), `EDITOR="code --wait" cmdr encrypted:edit`)
	require.NoFileExists(t, filepath.Join(h.root, DefaultKeyPath))
	require.Empty(t, h.launcher.runs)
}

func TestEncryptedEdit_EditorFromEnvironment(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.env.Set("EDITOR", "fake-editor"))

	require.NoError(t, h.run("encrypted:edit", "config/secrets.yml.enc"))
	require.Equal(t, "fake-editor", lastRun(t, h).Name)
}

func TestEncryptedEdit_CreatesKeyAndFile(t *testing.T) {
	h := newHarness(t)
	editorWrites(t, h, "token: abc\n")

	require.NoError(t, h.run("encrypted:edit", "config/secrets.yml.enc"))
	out := h.out.String()
	require.Contains(t, out, "Adding config/master.key to store the encryption key.")
	require.Contains(t, out, "File encrypted and saved.")
	require.FileExists(t, filepath.Join(h.root, DefaultKeyPath))
	require.FileExists(t, filepath.Join(h.root, "config/secrets.yml.enc"))

	ignore, err := os.ReadFile(filepath.Join(h.root, ".gitignore"))
	require.NoError(t, err)
	require.Contains(t, string(ignore), "/config/master.key")

	require.NoError(t, h.run("encrypted:show", "config/secrets.yml.enc"))
	require.Equal(t, "token: abc\n", h.out.String())

	// second edit reuses the key
	editorWrites(t, h, "token: def\n")
	require.NoError(t, h.run("encrypted:edit", "config/secrets.yml.enc"))
	require.NotContains(t, h.out.String(), "Adding")
	require.NoError(t, h.run("encrypted:show", "config/secrets.yml.enc"))
	require.Equal(t, "token: def\n", h.out.String())
}

func TestEncryptedEdit_SeedsTemplate(t *testing.T) {
	h := newHarness(t)
	h.cfg["editor"] = "fake-editor"
	var seen string
	h.launcher.onRun = func(p launch.Process) {
		data, err := os.ReadFile(p.Args[len(p.Args)-1])
		require.NoError(t, err)
		seen = string(data)
	}

	require.NoError(t, h.run("encrypted:edit", "config/new.yml.enc"))
	require.Equal(t, encryptedTemplate, seen)
}

func TestEncryptedEdit_EditorAborts(t *testing.T) {
	h := newHarness(t)
	editorWrites(t, h, "first\n")
	require.NoError(t, h.run("encrypted:edit", "config/secrets.yml.enc"))

	editorWrites(t, h, "discarded\n")
	h.launcher.code = 1
	require.NoError(t, h.run("encrypted:edit", "config/secrets.yml.enc"))
	require.Contains(t, h.out.String(), "Aborted changing file: nothing saved.")

	h.launcher.code = 0
	require.NoError(t, h.run("encrypted:show", "config/secrets.yml.enc"))
	require.Equal(t, "first\n", h.out.String())
}

func TestEncryptedEdit_WrongKey(t *testing.T) {
	h := newHarness(t)
	editorWrites(t, h, "secret\n")
	require.NoError(t, h.run("encrypted:edit", "config/secrets.yml.enc"))

	other, err := vault.GenerateKey()
	require.NoError(t, err)
	require.NoError(t, h.env.Set(vault.MasterKeyEnv, other))

	require.NoError(t, h.run("encrypted:edit", "config/secrets.yml.enc"))
	require.Contains(t, h.out.String(), "Couldn't decrypt config/secrets.yml.enc. Perhaps you passed the wrong key?")

	require.NoError(t, h.run("encrypted:show", "config/secrets.yml.enc"))
	require.Contains(t, h.out.String(), "Couldn't decrypt config/secrets.yml.enc.")
}

func TestEncryptedEdit_CustomKeyPath(t *testing.T) {
	h := newHarness(t)
	editorWrites(t, h, "x\n")

	require.NoError(t, h.run("encrypted:edit", "data.enc", "-k", "keys/data.key"))
	require.FileExists(t, filepath.Join(h.root, "keys/data.key"))
	require.NoFileExists(t, filepath.Join(h.root, DefaultKeyPath))
}

func TestEncryptedEdit_MissingFilePath(t *testing.T) {
	h := newHarness(t)

	err := h.run("encrypted:edit")
	require.Equal(t, 2, dispatcher.ExitCode(err))
	require.Contains(t, err.Error(), "Usage: cmdr encrypted:edit FILE_PATH")
}

func TestEncryptedShow_Missing(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("encrypted:show", "config/secrets.yml.enc"))
	require.Equal(t, "Missing 'config/master.key' to decrypt data. See cmdr encrypted:help\n", h.out.String())

	_, err := vault.AddKeyFile(filepath.Join(h.root, DefaultKeyPath))
	require.NoError(t, err)
	require.NoError(t, h.run("encrypted:show", "config/secrets.yml.enc"))
	require.Equal(t, "File 'config/secrets.yml.enc' does not exist. Use cmdr encrypted:edit config/secrets.yml.enc to change that.\n", h.out.String())
}

func TestCredentials(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("credentials:show"))
	require.Equal(t, "Missing master key to decrypt credentials. See cmdr credentials:help\n", h.out.String())

	_, err := vault.AddKeyFile(filepath.Join(h.root, DefaultKeyPath))
	require.NoError(t, err)
	require.NoError(t, h.run("credentials:show"))
	require.Equal(t, "No credentials have been added yet. Use cmdr credentials:edit to change that.\n", h.out.String())

	editorWrites(t, h, "db_password: hunter2\n")
	require.NoError(t, h.run("credentials:edit"))
	require.Contains(t, h.out.String(), "File encrypted and saved.")
	require.FileExists(t, filepath.Join(h.root, DefaultCredentialsPath))

	require.NoError(t, h.run("credentials:show"))
	require.Equal(t, "db_password: hunter2\n", h.out.String())
}

func TestCredentials_ShowRunsNoEditHooks(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("credentials:show"))
	require.NotContains(t, h.out.String(), "No $EDITOR")
	require.NoFileExists(t, filepath.Join(h.root, DefaultKeyPath))
}

func TestCredentials_PerEnvironment(t *testing.T) {
	h := newHarness(t)
	editorWrites(t, h, "env: production\n")

	require.NoError(t, h.run("credentials:edit", "-e", "production"))
	require.FileExists(t, filepath.Join(h.root, "config/credentials/production.key"))
	require.FileExists(t, filepath.Join(h.root, "config/credentials/production.yml.enc"))

	require.NoError(t, h.run("credentials:show", "--environment", "production"))
	require.Equal(t, "env: production\n", h.out.String())
}

func TestCredentials_MasterKeyFromEnvironment(t *testing.T) {
	h := newHarness(t)
	key, err := vault.GenerateKey()
	require.NoError(t, err)
	require.NoError(t, h.env.Set(vault.MasterKeyEnv, key))
	editorWrites(t, h, "a: 1\n")

	require.NoError(t, h.run("credentials:edit"))
	require.NotContains(t, h.out.String(), "Adding")
	require.NoFileExists(t, filepath.Join(h.root, DefaultKeyPath))

	require.NoError(t, h.run("credentials:show"))
	require.Equal(t, "a: 1\n", h.out.String())
}
