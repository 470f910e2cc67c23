package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/launch"
	"github.com/footprint-tools/cmdr/internal/vault"
)

var errEditorAborted = errors.New("editor exited without saving")

const encryptedTemplate = "# aws:\n#   access_key_id: 123\n#   secret_access_key: 345\n\n"

// vaultFiles returns the encrypted file and key path for an invocation,
// relative to the project root.
type vaultFiles func(c *command.Context) (file, key string)

func editorCommand(c *command.Context) []string {
	editor := strings.TrimSpace(c.Config["editor"])
	if editor == "" {
		editor = strings.TrimSpace(c.Env.Get("EDITOR"))
	}
	return strings.Fields(editor)
}

func allOf(guards ...command.Guard) command.Guard {
	return func(c *command.Context) bool {
		for _, g := range guards {
			if g != nil && !g(c) {
				return false
			}
		}
		return true
	}
}

func currentVault(c *command.Context) *vault.Vault {
	v, _ := c.Value("vault").(*vault.Vault)
	return v
}

func openVault(c *command.Context, deps Deps, files vaultFiles) (*vault.Vault, error) {
	root, err := deps.root()
	if err != nil {
		return nil, err
	}
	file, key := files(c)
	v := vault.Open(resolvePath(root, file), resolvePath(root, key))
	v.EnvKey = c.Env.Get(vault.MasterKeyEnv)
	return v, nil
}

// addEditHooks installs the edit chain: open the vault, halt without an
// editor, create the key only when missing, then make sure the file exists.
func addEditHooks(d *command.Descriptor, guard command.Guard, commandName string, deps Deps, files vaultFiles) {
	d.BeforeCommandIf(guard, func(c *command.Context) command.Outcome {
		v, err := openVault(c, deps, files)
		if err != nil {
			return command.Fail(1, "%v", err)
		}
		c.Put("vault", v)
		return command.Continue
	})

	d.BeforeCommandIf(guard, func(c *command.Context) command.Outcome {
		if len(editorCommand(c)) > 0 {
			return command.Continue
		}
		c.Say("No $EDITOR to open file in. Assign one like this:")
		c.Say("")
		c.Sayf("EDITOR=\"code --wait\" %s", commandName)
		c.Say("")
		c.Say("For editors that fork and exit immediately, it's important to pass a wait flag;")
		c.Say("otherwise the file will be saved immediately with no chance to edit.")
		return command.Halt
	})

	d.BeforeCommandIf(allOf(guard, func(c *command.Context) bool { return !currentVault(c).HasKey() }), func(c *command.Context) command.Outcome {
		v := currentVault(c)
		created, err := vault.AddKeyFile(v.KeyPath)
		if err != nil {
			return command.Fail(1, "%v", err)
		}
		if !created {
			return command.Continue
		}
		_, key := files(c)
		c.Sayf("Adding %s to store the encryption key.", key)
		c.Say("")
		c.Say("Save this in a password manager your team can access.")
		c.Say("")
		c.Say("If you lose the key, no one, including you, can access anything encrypted with it.")
		c.Say("")

		root, err := deps.root()
		if err == nil {
			if err := vault.IgnoreKeyFile(root, key); err != nil {
				c.Logger.Warn("could not add %s to .gitignore: %v", key, err)
			}
		}
		return command.Continue
	})

	d.BeforeCommandIf(guard, func(c *command.Context) command.Outcome {
		v := currentVault(c)
		if v.Exists() {
			return command.Continue
		}
		if err := v.Write([]byte(encryptedTemplate)); err != nil {
			if isDecryptError(err) {
				// wrong key: perform reports it
				return command.Continue
			}
			return command.Fail(1, "%v", err)
		}
		return command.Continue
	})
}

// editVault opens a decrypted copy in the editor and re-encrypts it.
func editVault(c *command.Context, deps Deps, files vaultFiles) error {
	v := currentVault(c)
	file, _ := files(c)

	err := v.Change(func(tmpPath string) error {
		editor := editorCommand(c)
		code, err := deps.Launcher.Run(c.Ctx, launch.Process{
			Name:   editor[0],
			Args:   append(editor[1:], tmpPath),
			Stdin:  c.In,
			Stdout: c.Out,
			Stderr: c.Err,
		})
		if err != nil {
			return fmt.Errorf("editor: %w", err)
		}
		if code != 0 {
			return errEditorAborted
		}
		return nil
	})

	switch {
	case errors.Is(err, errEditorAborted):
		c.Say("Aborted changing file: nothing saved.")
		return nil
	case isDecryptError(err):
		c.Sayf("Couldn't decrypt %s. Perhaps you passed the wrong key?", file)
		return nil
	case err != nil:
		return err
	}

	c.Say("File encrypted and saved.")
	return nil
}

func isDecryptError(err error) bool {
	return errors.Is(err, vault.ErrInvalidMessage) || errors.Is(err, vault.ErrInvalidKey)
}
