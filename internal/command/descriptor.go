// Package command defines command descriptors: the declared option and
// argument schema, the before-command hook chain and the perform entries
// reachable through a descriptor's command table.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/footprint-tools/cmdr/internal/usage"
)

// SourceBuiltin marks descriptors registered from Go code.
const SourceBuiltin = "builtin"

const helpEntry = "help"

// Executable is the program name used in banners and hints.
var Executable = "cmdr"

// PerformFunc is a command table entry.
type PerformFunc func(c *Context) error

// Entry is one named command of a collection.
type Entry struct {
	Summary string
	Hidden  bool
	Perform PerformFunc
}

// Spec declares a command. Perform registers a single command under the last
// namespace segment; Commands registers a collection (encrypted:show, ...).
type Spec struct {
	Namespace   string
	Source      string
	Summary     string
	Description string
	Hidden      bool
	Aliases     []string
	Options     []Option
	Arguments   []Argument

	// Banner rewrites the default usage line.
	Banner func(defaultBanner string) string
	// Help replaces the default help entry.
	Help PerformFunc

	Perform  PerformFunc
	Commands map[string]Entry
}

// Descriptor is a registered command.
type Descriptor struct {
	Namespace   string
	Source      string
	Summary     string
	Description string
	Hidden      bool
	Aliases     []string

	options      []Option
	arguments    []Argument
	hooks        []Hook
	entries      map[string]Entry
	defaultEntry string
	banner       func(string) string
}

// New builds a descriptor from spec. Every descriptor owns a help entry.
func New(spec Spec) *Descriptor {
	d := &Descriptor{
		Namespace:   spec.Namespace,
		Source:      spec.Source,
		Summary:     spec.Summary,
		Description: spec.Description,
		Hidden:      spec.Hidden,
		Aliases:     append([]string(nil), spec.Aliases...),
		options:     append([]Option(nil), spec.Options...),
		arguments:   append([]Argument(nil), spec.Arguments...),
		entries:     make(map[string]Entry, len(spec.Commands)+2),
		banner:      spec.Banner,
	}
	if d.Source == "" {
		d.Source = SourceBuiltin
	}

	d.entries[helpEntry] = Entry{Summary: "Show this help", Hidden: true, Perform: defaultHelp}
	if spec.Help != nil {
		d.entries[helpEntry] = Entry{Summary: "Show this help", Hidden: true, Perform: spec.Help}
	}

	for name, e := range spec.Commands {
		d.entries[name] = e
	}

	if spec.Perform != nil {
		d.defaultEntry = d.lastSegment()
		d.entries[d.defaultEntry] = Entry{Summary: spec.Summary, Perform: spec.Perform}
	}

	return d
}

// BeforeCommand appends a hook that always runs.
func (d *Descriptor) BeforeCommand(fn HookFunc) *Descriptor {
	return d.BeforeCommandIf(nil, fn)
}

// BeforeCommandIf appends a hook that runs only when guard holds.
func (d *Descriptor) BeforeCommandIf(guard Guard, fn HookFunc) *Descriptor {
	d.hooks = append(d.hooks, Hook{If: guard, Run: fn})
	return d
}

// AddHook appends a prepared hook.
func (d *Descriptor) AddHook(h Hook) *Descriptor {
	d.hooks = append(d.hooks, h)
	return d
}

// Hooks returns the before-command chain in registration order.
func (d *Descriptor) Hooks() []Hook {
	return append([]Hook(nil), d.hooks...)
}

func (d *Descriptor) Options() []Option { return append([]Option(nil), d.options...) }

func (d *Descriptor) Arguments() []Argument { return append([]Argument(nil), d.arguments...) }

func (d *Descriptor) lastSegment() string {
	parts := strings.Split(d.Namespace, ":")
	return parts[len(parts)-1]
}

// canonical maps an alias of a single command to its entry name.
func (d *Descriptor) canonical(name string) string {
	if _, ok := d.entries[name]; ok || d.defaultEntry == "" {
		return name
	}
	for _, a := range d.Aliases {
		if a == name || strings.HasSuffix(a, ":"+name) {
			return d.defaultEntry
		}
	}
	return name
}

func (d *Descriptor) entry(name string) (PerformFunc, bool) {
	e, ok := d.entries[name]
	if !ok || e.Perform == nil {
		return nil, false
	}
	return e.Perform, true
}

// Owns reports whether name is in the command table.
func (d *Descriptor) Owns(name string) bool {
	_, ok := d.entry(d.canonical(name))
	return ok
}

// DefaultEntry is the entry reached by the bare namespace, or "" for
// collections.
func (d *Descriptor) DefaultEntry() string { return d.defaultEntry }

// Commands returns the table entry names, sorted.
func (d *Descriptor) Commands() []string {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrintingCommands returns the visible "namespace" or "namespace:entry"
// names this descriptor contributes to a command listing, with summaries.
func (d *Descriptor) PrintingCommands() [][2]string {
	var out [][2]string
	for _, name := range d.Commands() {
		e := d.entries[name]
		if e.Hidden {
			continue
		}
		full := d.Namespace
		if name != d.defaultEntry {
			full = d.Namespace + ":" + name
		}
		summary := e.Summary
		if summary == "" {
			summary = d.Summary
		}
		out = append(out, [2]string{full, summary})
	}
	return out
}

// Perform binds args, runs the hook chain and calls the entry for name.
// A halt from a hook or ErrHalt from the entry is a nil error.
func (d *Descriptor) Perform(ctx context.Context, name string, args []string, cfg map[string]string) error {
	name = d.canonical(name)
	fn, ok := d.entry(name)
	if !ok {
		return fmt.Errorf("command %s has no entry %q", d.Namespace, name)
	}

	b, err := d.bind(args, name == helpEntry)
	if err != nil {
		return err
	}

	rt := RuntimeFrom(ctx)
	c := &Context{
		Ctx:        ctx,
		Descriptor: d,
		Command:    name,
		Options:    b.values,
		Args:       b.positionals,
		Named:      b.named,
		Extra:      b.extra,
		Raw:        append([]string(nil), args...),
		Config:     cfg,
		Env:        rt.Env,
		In:         rt.In,
		Out:        rt.Out,
		Err:        rt.Err,
		Logger:     rt.Logger,
		RunID:      rt.RunID,
	}
	if c.Config == nil {
		c.Config = map[string]string{}
	}

	for i, h := range d.hooks {
		if !h.applies(c) {
			c.Logger.Debug("command: %s hook %d skipped", d.Namespace, i)
			continue
		}
		outcome := h.Run(c)
		switch {
		case outcome.IsHalt():
			c.Logger.Debug("command: %s halted by hook %d", d.Namespace, i)
			return nil
		case outcome.IsFail():
			c.Logger.Debug("command: %s failed in hook %d (exit %d)", d.Namespace, i, outcome.Code)
			return usage.CommandFailed(outcome.Code, outcome.Message)
		}
	}

	if err := fn(c); err != nil {
		if errors.Is(err, ErrHalt) {
			return nil
		}
		return err
	}
	return nil
}

// Banner is the one-line usage, e.g. "cmdr encrypted:edit FILE_PATH [options]".
func (d *Descriptor) Banner() string {
	var b strings.Builder
	b.WriteString(Executable)
	b.WriteString(" ")
	b.WriteString(d.Namespace)
	for _, a := range d.arguments {
		b.WriteString(" ")
		b.WriteString(a.usageToken())
	}
	if len(d.visibleOptions()) > 0 {
		b.WriteString(" [options]")
	}
	if d.banner != nil {
		return d.banner(b.String())
	}
	return b.String()
}

func (d *Descriptor) visibleOptions() []Option {
	var out []Option
	for _, o := range d.options {
		if !o.Hidden {
			out = append(out, o)
		}
	}
	return out
}
