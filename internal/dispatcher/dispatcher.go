// Package dispatcher is the top-level entry: parse the namespace, resolve a
// descriptor, perform it, or hand the untouched namespace to the fallback.
package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/invocation"
	"github.com/footprint-tools/cmdr/internal/log"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// Resolver finds the descriptor for an invocation, or nil.
type Resolver interface {
	Resolve(inv invocation.Invocation) *command.Descriptor
}

// Fallback runs namespaces no descriptor claims.
type Fallback interface {
	Perform(ctx context.Context, fullNamespace string, args []string, cfg map[string]string) error
}

// Dispatcher wires a resolver to its fallback.
type Dispatcher struct {
	resolver Resolver
	fallback Fallback
	history  domain.HistoryStore
	runtime  command.Runtime
	now      func() time.Time
	newID    func() string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHistory records every invocation in store.
func WithHistory(store domain.HistoryStore) Option {
	return func(d *Dispatcher) { d.history = store }
}

// WithRuntime sets the stdio, environment and logger handed to commands.
func WithRuntime(rt command.Runtime) Option {
	return func(d *Dispatcher) { d.runtime = rt }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithIDs replaces the run id generator, for tests.
func WithIDs(fn func() string) Option {
	return func(d *Dispatcher) { d.newID = fn }
}

// New creates a dispatcher.
func New(resolver Resolver, fallback Fallback, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		resolver: resolver,
		fallback: fallback,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.runtime.Logger == nil {
		d.runtime.Logger = log.Default()
	}
	return d
}

// Invoke runs fullNamespace with args. A hook halt is a nil error.
func (d *Dispatcher) Invoke(ctx context.Context, fullNamespace string, args []string, cfg map[string]string) error {
	inv := invocation.Parse(fullNamespace)

	rt := d.runtime
	rt.RunID = d.newID()
	logger := rt.Logger
	if l, ok := logger.(*log.Logger); ok {
		logger = l.With("run", rt.RunID[:min(8, len(rt.RunID))])
		rt.Logger = logger
	}
	ctx = command.WithRuntime(ctx, rt)

	started := d.now()
	run := domain.Run{
		ID:        rt.RunID,
		Namespace: fullNamespace,
		Command:   inv.Command(),
		Args:      append([]string(nil), args...),
		StartedAt: started,
	}

	var err error
	desc := d.resolver.Resolve(inv)
	if desc != nil && desc.Owns(inv.Command()) {
		run.Resolved = true
		logger.Info("dispatch: %s -> %s (%s)", fullNamespace, desc.Namespace, inv.Command())
		err = desc.Perform(ctx, inv.Command(), args, cfg)
	} else {
		if desc != nil {
			logger.Debug("dispatch: %s does not own %q", desc.Namespace, inv.Command())
		}
		if d.fallback == nil {
			err = usage.UnknownCommand(fullNamespace)
		} else {
			logger.Info("dispatch: %s -> fallback", fullNamespace)
			err = d.fallback.Perform(ctx, fullNamespace, args, cfg)
		}
	}

	run.Duration = d.now().Sub(started)
	run.ExitCode = ExitCode(err)
	if err != nil {
		logger.Warn("dispatch: %s failed (exit %d): %v", fullNamespace, run.ExitCode, err)
	} else {
		logger.Debug("dispatch: %s done in %s", fullNamespace, run.Duration)
	}

	if d.history != nil {
		if recErr := d.history.Record(run); recErr != nil {
			logger.Warn("dispatch: could not record history: %v", recErr)
		}
	}

	return err
}

// ExitCode maps an Invoke error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue *usage.Error
	if errors.As(err, &ue) {
		return ue.GetExitCode()
	}
	return 1
}
