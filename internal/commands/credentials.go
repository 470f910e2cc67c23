package commands

import (
	"fmt"
	"path"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/vault"
)

// DefaultCredentialsPath is the encrypted credentials file.
const DefaultCredentialsPath = "config/credentials.yml.enc"

const credentialsUsage = `Credentials are stored encrypted in config/credentials.yml.enc and opened
with config/master.key, or with the key in $` + vault.MasterKeyEnv + ` when it is set.
Keep the key out of version control; the encrypted file is safe to commit.

With --environment, config/credentials/<env>.yml.enc and
config/credentials/<env>.key are used instead.`

func credentialsFiles(c *command.Context) (string, string) {
	if e := c.Options.String("environment"); e != "" {
		dir := "config/credentials"
		return path.Join(dir, e+".yml.enc"), path.Join(dir, e+".key")
	}
	return DefaultCredentialsPath, DefaultKeyPath
}

// Credentials shows and edits the project credentials.
func Credentials(deps Deps) *command.Descriptor {
	var d *command.Descriptor
	d = command.New(command.Spec{
		Namespace: "credentials",
		Summary:   "Show or edit the encrypted project credentials",
		Options: []command.Option{
			{Name: "environment", Aliases: []string{"-e"}, Banner: "name", Description: "Use the credentials of one environment."},
		},
		Banner: func(string) string {
			return command.Executable + " credentials[:show|:edit] [options]"
		},
		Help: func(c *command.Context) error {
			c.Say("Usage:\n  " + d.Banner())
			c.Say("")
			c.Say(credentialsUsage)
			return nil
		},
		Commands: map[string]command.Entry{
			"show": {Summary: "Show the decrypted credentials", Perform: func(c *command.Context) error {
				return showVault(c, deps, credentialsFiles, func(_, _ string, hasKey bool) string {
					if !hasKey {
						return fmt.Sprintf("Missing master key to decrypt credentials. See %s credentials:help", command.Executable)
					}
					return fmt.Sprintf("No credentials have been added yet. Use %s credentials:edit to change that.", command.Executable)
				})
			}},
			"edit": {Summary: "Edit the credentials in $EDITOR", Perform: func(c *command.Context) error {
				return editVault(c, deps, credentialsFiles)
			}},
		},
	})
	addEditHooks(d, command.Only("edit"), command.Executable+" credentials:edit", deps, credentialsFiles)
	return d
}
