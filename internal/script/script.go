// Package script runs POSIX shell snippets in-process with mvdan.cc/sh.
// Manifest commands, their guards and hooks, fallback tasks and the runner
// command all execute through here.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrSyntax wraps shell parse failures.
var ErrSyntax = errors.New("script syntax error")

// Request describes one script execution.
type Request struct {
	Source string
	Name   string   // used in parse error positions
	Args   []string // $1..$n
	Env    []string // KEY=value, the complete environment
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Parse validates source without running it.
func Parse(source, name string) (*syntax.File, error) {
	if name == "" {
		name = "script"
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return prog, nil
}

// Run executes the request and returns the script's exit status.
// A non-nil error means the script could not run at all (syntax error,
// interpreter setup, cancellation); a failing script is a non-zero status.
func Run(ctx context.Context, req Request) (int, error) {
	prog, err := Parse(req.Source, req.Name)
	if err != nil {
		return 1, err
	}

	if req.Dir == "" {
		if req.Dir, err = os.Getwd(); err != nil {
			return 1, fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}

	opts := []interp.RunnerOption{
		interp.Dir(req.Dir),
		interp.Env(expand.ListEnviron(req.Env...)),
		interp.StdIO(req.Stdin, req.Stdout, req.Stderr),
	}

	// "--" keeps args like "-v" from being read as shell options
	if len(req.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, req.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return 1, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return int(status), nil
		}
		return 1, fmt.Errorf("script execution failed: %w", err)
	}
	return 0, nil
}

// RunFile reads path and runs it with req.
func RunFile(ctx context.Context, path string, req Request) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 1, err
	}
	req.Source = string(data)
	if req.Name == "" {
		req.Name = path
	}
	return Run(ctx, req)
}

// Test runs a guard script; it holds when the script exits 0.
func Test(ctx context.Context, req Request) bool {
	code, err := Run(ctx, req)
	return err == nil && code == 0
}

// EnvName turns an option or argument name into a shell variable suffix:
// "dev-caching" becomes "DEV_CACHING".
func EnvName(name string) string {
	upper := strings.ToUpper(name)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, upper)
}

// MergeEnv overlays extra KEY=value pairs on base; later entries win.
func MergeEnv(base []string, extra ...string) []string {
	index := make(map[string]int, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range append(append([]string(nil), base...), extra...) {
		key, _, _ := strings.Cut(kv, "=")
		if i, ok := index[key]; ok {
			out[i] = kv
			continue
		}
		index[key] = len(out)
		out = append(out, kv)
	}
	return out
}
