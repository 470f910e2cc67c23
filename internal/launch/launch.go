// Package launch starts external programs (server backends, database
// consoles, editors) attached to the caller's stdio.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ErrNotFound is returned when a program is not on PATH.
var ErrNotFound = errors.New("program not found")

// Process describes one program launch.
type Process struct {
	Name   string
	Args   []string
	Env    []string // full environment; nil inherits the current process
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher finds and runs programs.
type Launcher interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, p Process) (int, error)
}

// Exec runs programs with os/exec.
type Exec struct{}

// LookPath resolves name on PATH.
func (Exec) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// Run starts p and waits for it. A non-zero exit is returned as the code
// with a nil error; err is set only when the program could not run.
func (e Exec) Run(ctx context.Context, p Process) (int, error) {
	path, err := e.LookPath(p.Name)
	if err != nil {
		return 127, err
	}

	cmd := exec.CommandContext(ctx, path, p.Args...)
	cmd.Env = p.Env
	cmd.Dir = p.Dir
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 1, err
	}
	return 0, nil
}

// Available reports whether name can be launched.
func Available(l Launcher, name string) bool {
	_, err := l.LookPath(name)
	return err == nil
}
