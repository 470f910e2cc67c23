package commands

import (
	"os"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/completions"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// Completions prints a completion script, or how to install one.
func Completions(cat Catalog) *command.Descriptor {
	return command.New(command.Spec{
		Namespace: "completions",
		Summary:   "Print shell completion setup (bash, zsh, fish)",
		Arguments: []command.Argument{
			{Name: "shell", Optional: true, Description: "bash, zsh or fish. Default: $SHELL"},
		},
		Options: []command.Option{
			{Name: "script", Type: command.Boolean, Description: "Print the completion script instead of the instructions."},
		},
		Perform: func(c *command.Context) error {
			var shell completions.Shell
			if name := c.Arg("shell"); name != "" {
				sh, err := completions.ParseShell(name)
				if err != nil {
					return usage.InvalidArgument("shell", name, "use bash, zsh, or fish")
				}
				shell = sh
			} else if shell = completions.RunningShell(c.Env.Get); shell == "" {
				return usage.MissingArgument("shell", command.Executable+" completions <bash|zsh|fish>")
			}

			if c.Options.Bool("script") {
				cat.LookupAll()
				return completions.PrintCompletions(c.Out, shell, command.Executable, completions.ExtractCommands(cat.Descriptors()))
			}

			home, _ := os.UserHomeDir()
			if h := c.Env.Get("HOME"); h != "" {
				home = h
			}
			autoPath := completions.AutoInstallPath(shell, home, command.Executable, completions.IsBashCompletionInstalled())

			c.Say("To enable completions, choose one of the following:")
			c.Say("")
			n := 1
			if autoPath != "" {
				c.Sayf("%d. Write to auto-load directory:", n)
				c.Sayf("   %s completions %s --script > %s", command.Executable, shell, autoPath)
				c.Say("")
				n++
			}
			c.Sayf("%d. Add to %s:", n, completions.RcFile(shell))
			c.Sayf("   %s", completions.SourceInstructions(shell, command.Executable))
			c.Say("")
			c.Say("Then restart your shell or run: exec $SHELL")
			return nil
		},
	})
}
