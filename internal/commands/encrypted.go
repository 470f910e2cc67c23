package commands

import (
	"errors"
	"fmt"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/vault"
)

// DefaultKeyPath is the key used by encrypted and credentials.
const DefaultKeyPath = "config/master.key"

var encryptedOptions = []command.Option{
	{Name: "key", Aliases: []string{"-k"}, Default: DefaultKeyPath, Description: "The project relative path to the encryption key"},
}

var encryptedArguments = []command.Argument{
	{Name: "file_path", Description: "Encrypted file, relative to the project"},
}

func encryptedFiles(c *command.Context) (string, string) {
	return c.Arg("file_path"), c.Options.String("key")
}

// Encrypted is the collection holding encrypted:show.
func Encrypted(deps Deps) *command.Descriptor {
	return command.New(command.Spec{
		Namespace:   "encrypted",
		Summary:     "Show or edit an encrypted file",
		Description: "Files are sealed with AES-256-GCM under the key given with -k (or $" + vault.MasterKeyEnv + ").",
		Options:     encryptedOptions,
		Arguments:   encryptedArguments,
		Commands: map[string]command.Entry{
			"show": {Summary: "Show the decrypted content of FILE_PATH", Perform: func(c *command.Context) error {
				return showVault(c, deps, encryptedFiles, func(file, key string, hasKey bool) string {
					if !hasKey {
						return fmt.Sprintf("Missing '%s' to decrypt data. See %s encrypted:help", key, command.Executable)
					}
					return fmt.Sprintf("File '%s' does not exist. Use %s encrypted:edit %s to change that.", file, command.Executable, file)
				})
			}},
		},
	})
}

// EncryptedEdit opens an encrypted file in $EDITOR.
func EncryptedEdit(deps Deps) *command.Descriptor {
	d := command.New(command.Spec{
		Namespace: "encrypted:edit",
		Summary:   "Open the decrypted file in $EDITOR and re-encrypt it on save",
		Options:   encryptedOptions,
		Arguments: encryptedArguments,
		Perform: func(c *command.Context) error {
			return editVault(c, deps, encryptedFiles)
		},
	})
	addEditHooks(d, command.Except("help"), command.Executable+" encrypted:edit", deps, encryptedFiles)
	return d
}

// showVault prints the decrypted content, or missing(...) when there is none.
func showVault(c *command.Context, deps Deps, files vaultFiles, missing func(file, key string, hasKey bool) string) error {
	v, err := openVault(c, deps, files)
	if err != nil {
		return err
	}
	file, key := files(c)

	content, err := v.Read()
	switch {
	case errors.Is(err, vault.ErrMissingKey):
		c.Say(missing(file, key, false))
		return nil
	case isDecryptError(err):
		c.Sayf("Couldn't decrypt %s. Perhaps you passed the wrong key?", file)
		return nil
	case err != nil:
		return err
	}

	if len(content) == 0 {
		c.Say(missing(file, key, true))
		return nil
	}
	_, err = c.Out.Write(content)
	return err
}
