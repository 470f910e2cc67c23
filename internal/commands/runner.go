package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/script"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// Runner evaluates inline shell, a script file or stdin with the project
// environment loaded.
func Runner(deps Deps) *command.Descriptor {
	d := command.New(command.Spec{
		Namespace:   "runner",
		Summary:     "Run shell code or a script in the project environment",
		Description: "Runs inline shell code, a script file, or a script read from stdin (-). Extra arguments are passed as $1..$n.",
		Aliases:     []string{"r"},
		Options: []command.Option{
			{Name: "environment", Aliases: []string{"-e"}, Description: "The environment for the runner to operate under (test/development/production). Default: current environment"},
		},
		Arguments: []command.Argument{
			{Name: "code_or_file", Description: "Inline code, a script path, or - for stdin", Optional: true},
		},
		Banner: func(banner string) string {
			return banner + " [<'code'> | <file> | -]"
		},
		Perform: func(c *command.Context) error { return performRunner(c, deps) },
	})

	d.BeforeCommandIf(command.Except("help"), func(c *command.Context) command.Outcome {
		if c.Arg("code_or_file") != "" {
			return command.Continue
		}
		_ = c.Run("help")
		return command.Fail(1, "")
	})
	d.BeforeCommandIf(command.Except("help"), func(c *command.Context) command.Outcome {
		if c.Options.IsSet("environment") {
			if err := env.SetEnvironment(c.Env, c.Options.String("environment")); err != nil {
				return command.Fail(1, "%v", err)
			}
		}
		return command.Continue
	})

	return d
}

func performRunner(c *command.Context, deps Deps) error {
	root, err := deps.root()
	if err != nil {
		return err
	}

	target := c.Arg("code_or_file")
	var rest []string
	if len(c.Args) > 1 {
		rest = append(rest, c.Args[1:]...)
	}
	rest = append(rest, c.Extra...)

	req := script.Request{
		Args:   rest,
		Env:    script.MergeEnv(c.Env.Environ(), env.Key+"="+c.Environment()),
		Dir:    root,
		Stdin:  c.In,
		Stdout: c.Out,
		Stderr: c.Err,
	}

	switch path := resolvePath(root, target); {
	case target == "-":
		src, err := io.ReadAll(c.In)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		req.Source, req.Name = string(src), "stdin"
		// stdin is consumed by the script source
		req.Stdin = nil
	case fileExists(path):
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		req.Source, req.Name = string(src), filepath.Base(path)
	default:
		req.Source, req.Name = target, "runner"
	}

	code, err := script.Run(c.Ctx, req)
	if errors.Is(err, script.ErrSyntax) {
		c.Warn("Please specify a valid shell command or the path of a script to run.")
		c.Warn("Run '%s runner -h' for help.", command.Executable)
		c.Warn("")
		c.Warn("%v", err)
		return c.Exit(1, "")
	}
	if err != nil {
		return err
	}
	if code != 0 {
		return usage.CommandFailed(code, "")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
