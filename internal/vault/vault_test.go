package vault

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newVault(t *testing.T) *Vault {
	t.Helper()
	dir := t.TempDir()
	v := Open(filepath.Join(dir, "config", "secrets.yml.enc"), filepath.Join(dir, "config", "master.key"))
	created, err := AddKeyFile(v.KeyPath)
	require.NoError(t, err)
	require.True(t, created)
	return v
}

func TestVault_WriteRead(t *testing.T) {
	v := newVault(t)

	require.NoError(t, v.Write([]byte("api_key: 123\n")))
	require.True(t, v.Exists())

	raw, err := os.ReadFile(v.Path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "api_key")

	plain, err := v.Read()
	require.NoError(t, err)
	require.Equal(t, "api_key: 123\n", string(plain))
}

func TestVault_ReadMissingFileIsEmpty(t *testing.T) {
	v := newVault(t)
	plain, err := v.Read()
	require.NoError(t, err)
	require.Empty(t, plain)
}

func TestVault_WrongKey(t *testing.T) {
	v := newVault(t)
	require.NoError(t, v.Write([]byte("secret")))

	other, err := GenerateKey()
	require.NoError(t, err)
	v.EnvKey = other

	_, err = v.Read()
	require.True(t, errors.Is(err, ErrInvalidMessage))
}

func TestVault_MissingKey(t *testing.T) {
	dir := t.TempDir()
	v := Open(filepath.Join(dir, "x.enc"), filepath.Join(dir, "missing.key"))

	key, err := v.Key()
	require.NoError(t, err)
	require.Nil(t, key)
	require.False(t, v.HasKey())

	_, err = v.Read()
	require.True(t, errors.Is(err, ErrMissingKey))
}

func TestVault_InvalidKey(t *testing.T) {
	v := Open("x.enc", "unused")
	v.EnvKey = "not-hex"
	_, err := v.Key()
	require.True(t, errors.Is(err, ErrInvalidKey))
}

func TestVault_Change(t *testing.T) {
	v := newVault(t)
	require.NoError(t, v.Write([]byte("a: 1\n")))

	var seen string
	err := v.Change(func(tmp string) error {
		data, err := os.ReadFile(tmp)
		require.NoError(t, err)
		require.Equal(t, "a: 1\n", string(data))
		seen = tmp
		return os.WriteFile(tmp, []byte("a: 2\n"), 0600)
	})
	require.NoError(t, err)

	_, err = os.Stat(seen)
	require.True(t, os.IsNotExist(err), "temp file must be removed")

	plain, err := v.Read()
	require.NoError(t, err)
	require.Equal(t, "a: 2\n", string(plain))
}

func TestVault_ChangeEditorFailureKeepsContent(t *testing.T) {
	v := newVault(t)
	require.NoError(t, v.Write([]byte("keep")))

	err := v.Change(func(string) error { return errors.New("editor crashed") })
	require.Error(t, err)

	plain, err := v.Read()
	require.NoError(t, err)
	require.Equal(t, "keep", string(plain))
}

func TestAddKeyFile_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0600))

	created, err := AddKeyFile(path)
	require.NoError(t, err)
	require.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "existing", string(data))
}

func TestIgnoreKeyFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, IgnoreKeyFile(dir, "config/master.key"))
	require.NoError(t, IgnoreKeyFile(dir, "config/master.key"))

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(data), "/config/master.key"))
}
