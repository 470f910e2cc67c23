package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/log"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// Runtime carries the process-level collaborators a command talks to.
// A zero field falls back to the real process (stdio, os environment, global logger).
type Runtime struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Env    env.Env
	Logger domain.Logger
	RunID  string
}

type runtimeKey struct{}

// WithRuntime attaches rt to ctx.
func WithRuntime(ctx context.Context, rt Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// RuntimeFrom returns the runtime attached to ctx with defaults filled in.
func RuntimeFrom(ctx context.Context) Runtime {
	rt, _ := ctx.Value(runtimeKey{}).(Runtime)
	if rt.In == nil {
		rt.In = os.Stdin
	}
	if rt.Out == nil {
		rt.Out = os.Stdout
	}
	if rt.Err == nil {
		rt.Err = os.Stderr
	}
	if rt.Env == nil {
		rt.Env = env.OS{}
	}
	if rt.Logger == nil {
		rt.Logger = log.Default()
	}
	return rt
}

// Context is the per-invocation state threaded through hooks and perform.
type Context struct {
	Ctx        context.Context
	Descriptor *Descriptor
	Command    string
	Options    *Values
	Args       []string          // positionals after option binding
	Named      map[string]string // positionals bound to declared arguments
	Extra      []string          // unknown flags, passed through untouched
	Raw        []string          // argv as received
	Config     map[string]string
	Env        env.Env
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	Logger     domain.Logger
	RunID      string

	state map[string]any
}

// Say prints a line to the command output.
func (c *Context) Say(a ...any) {
	_, _ = fmt.Fprintln(c.Out, a...)
}

// Sayf prints a formatted line to the command output.
func (c *Context) Sayf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.Out, format+"\n", args...)
}

// Warn prints a line to the error output.
func (c *Context) Warn(format string, args ...any) {
	_, _ = fmt.Fprintf(c.Err, format+"\n", args...)
}

// Arg returns a bound named argument, or "".
func (c *Context) Arg(name string) string {
	return c.Named[name]
}

// Put stores per-invocation state for later hooks or perform.
func (c *Context) Put(key string, value any) {
	if c.state == nil {
		c.state = make(map[string]any)
	}
	c.state[key] = value
}

// Value returns state stored with Put.
func (c *Context) Value(key string) any {
	return c.state[key]
}

// Environment is the active runtime environment name.
func (c *Context) Environment() string {
	return env.Environment(c.Env)
}

// Run performs another entry of the same command table without re-running
// the hook chain, e.g. c.Run("help").
func (c *Context) Run(name string) error {
	name = c.Descriptor.canonical(name)
	fn, ok := c.Descriptor.entry(name)
	if !ok {
		return fmt.Errorf("command %s has no entry %q", c.Descriptor.Namespace, name)
	}
	prev := c.Command
	c.Command = name
	defer func() { c.Command = prev }()
	return fn(c)
}

// Exit returns the error that terminates the invocation with code.
// A zero code is a silent halt.
func (c *Context) Exit(code int, message string) error {
	if code == 0 {
		if message != "" {
			c.Say(message)
		}
		return ErrHalt
	}
	return usage.CommandFailed(code, message)
}
