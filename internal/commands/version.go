package commands

import "github.com/footprint-tools/cmdr/internal/command"

// Version prints "cmdr <version>".
func Version(deps Deps) *command.Descriptor {
	return command.New(command.Spec{
		Namespace: "version",
		Summary:   "Show the cmdr version",
		Perform: func(c *command.Context) error {
			c.Sayf("%s %s", command.Executable, deps.Version())
			return nil
		},
	})
}
