package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/launch"
	"github.com/footprint-tools/cmdr/internal/script"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// DefaultConsole is used when the dbconsole config key is empty.
const DefaultConsole = "sqlite3"

var knownEnvironments = []string{"development", "production", "test"}

// DBConsole opens the database console for the current environment.
func DBConsole(deps Deps) *command.Descriptor {
	d := command.New(command.Spec{
		Namespace: "dbconsole",
		Summary:   "Start a console for the project database",
		Description: "Database defaults to db/<environment>.sqlite3 unless --connection or $DATABASE_URL is given. " +
			"The console binary comes from the dbconsole config key.",
		Aliases: []string{"db"},
		Arguments: []command.Argument{
			{Name: "environment", Description: "Environment to connect to (dev, test, prod)", Optional: true},
		},
		Options: []command.Option{
			{Name: "include_password", Type: command.Boolean, Aliases: []string{"-p"}, Description: "Pass the password from the connection to the console."},
			{Name: "mode", Type: command.Enum, Enum: []string{"html", "list", "line", "column"}, Description: "Put the sqlite3 console in the specified mode."},
			{Name: "header", Type: command.Boolean, Description: "Turn sqlite3 column headers on or off."},
			{Name: "connection", Aliases: []string{"-c"}, Description: "Database file or connection string to open."},
			{Name: "environment", Aliases: []string{"-e"}, Banner: "name", Description: "Specifies the environment to connect to."},
		},
		Perform: func(c *command.Context) error { return performDBConsole(c, deps) },
	})

	d.BeforeCommand(extractEnvironmentArgument)
	d.BeforeCommandIf(command.Except("help"), func(c *command.Context) command.Outcome {
		if err := env.SetEnvironment(c.Env, dbEnvironment(c)); err != nil {
			return command.Fail(1, "%v", err)
		}
		return command.Continue
	})

	return d
}

// extractEnvironmentArgument moves a positional environment into -e,
// expanding abbreviations like "prod".
func extractEnvironmentArgument(c *command.Context) command.Outcome {
	if c.Options.IsSet("environment") {
		c.Options.Set("environment", expandEnvironment(c.Options.String("environment")))
		return command.Continue
	}
	if arg := c.Arg("environment"); arg != "" {
		c.Options.Set("environment", expandEnvironment(arg))
	}
	return command.Continue
}

func expandEnvironment(name string) string {
	if name == "" {
		return name
	}
	for _, known := range knownEnvironments {
		if strings.HasPrefix(known, name) {
			return known
		}
	}
	return name
}

func dbEnvironment(c *command.Context) string {
	if e := c.Options.String("environment"); e != "" {
		return e
	}
	return c.Environment()
}

func performDBConsole(c *command.Context, deps Deps) error {
	root, err := deps.root()
	if err != nil {
		return err
	}

	console := strings.TrimSpace(c.Config["dbconsole"])
	if console == "" {
		console = DefaultConsole
	}
	if !launch.Available(deps.Launcher, console) {
		return usage.ExternalUnavailable(fmt.Sprintf("Couldn't find database client: %s. Check your $PATH and try again.", console))
	}

	conn := c.Options.String("connection")
	if conn == "" {
		conn = c.Env.Get("DATABASE_URL")
	}
	if conn == "" {
		conn = filepath.Join("db", dbEnvironment(c)+".sqlite3")
	}

	args := consoleArgs(console, c.Options, conn)
	c.Logger.Debug("dbconsole: %s %v", console, args)

	code, err := deps.Launcher.Run(c.Ctx, launch.Process{
		Name:   console,
		Args:   args,
		Env:    script.MergeEnv(c.Env.Environ(), env.Key+"="+dbEnvironment(c)),
		Dir:    root,
		Stdin:  c.In,
		Stdout: c.Out,
		Stderr: c.Err,
	})
	if err != nil {
		return fmt.Errorf("dbconsole %s: %w", console, err)
	}
	if code != 0 {
		return usage.CommandFailed(code, "")
	}
	return nil
}

// consoleArgs builds the client command line. sqlite3 gets mode and header
// flags; psql and mysql get the connection and, with -p, a password prompt.
func consoleArgs(console string, opts *command.Values, conn string) []string {
	var args []string
	switch filepath.Base(console) {
	case "psql":
		if opts.Bool("include_password") {
			args = append(args, "--password")
		}
		return append(args, conn)
	case "mysql", "mariadb":
		if opts.Bool("include_password") {
			args = append(args, "-p")
		}
		return append(args, conn)
	default:
		if mode := opts.String("mode"); mode != "" {
			args = append(args, "-"+mode)
		}
		if opts.IsSet("header") {
			if opts.Bool("header") {
				args = append(args, "-header")
			} else {
				args = append(args, "-noheader")
			}
		}
		return append(args, conn)
	}
}
