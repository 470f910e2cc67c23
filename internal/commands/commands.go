// Package commands holds the built-in command descriptors: help, version,
// server, runner, dbconsole, encrypted, credentials, tasks, history, config,
// commands and completions.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/config"
	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/invocation"
	"github.com/footprint-tools/cmdr/internal/launch"
	"github.com/footprint-tools/cmdr/internal/registry"
	"github.com/footprint-tools/cmdr/internal/tasks"
	"github.com/footprint-tools/cmdr/internal/ui"
	"github.com/footprint-tools/cmdr/internal/ui/picker"
)

// Catalog is the part of the registry the listing commands read.
type Catalog interface {
	Resolve(inv invocation.Invocation) *command.Descriptor
	Groups() []registry.Group
	Namespaces() []string
	Descriptors() []*command.Descriptor
	LookupAll()
}

// Deps are the collaborators of the built-in commands.
type Deps struct {
	Version  func() string
	Launcher launch.Launcher
	Config   domain.ConfigProvider
	History  domain.HistoryStore // nil when history is disabled
	Tasks    *tasks.Runner
	Pick     func(title string, items []picker.Item) (string, error)
	Pager    func(out io.Writer, cfg map[string]string, content string)
	Getwd    func() (string, error)
}

// DefaultDeps wires the real process collaborators.
func DefaultDeps(version string) Deps {
	return Deps{
		Version:  func() string { return version },
		Launcher: launch.Exec{},
		Config:   config.NewProvider(),
		Tasks:    &tasks.Runner{},
		Pick:     picker.Pick,
		Pager:    page,
		Getwd:    os.Getwd,
	}
}

func page(out io.Writer, cfg map[string]string, content string) {
	ui.NewWriterTo(out, ui.WithConfigGetter(func(key string) (string, bool) {
		v, ok := cfg[key]
		return v, ok
	})).Pager(content)
}

// Register adds every built-in to reg.
func Register(reg *registry.Registry, deps Deps) error {
	if deps.Pager == nil {
		deps.Pager = func(out io.Writer, _ map[string]string, content string) { _, _ = fmt.Fprint(out, content) }
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}

	descriptors := []*command.Descriptor{
		Help(reg, deps),
		Version(deps),
		Server(deps),
		Runner(deps),
		DBConsole(deps),
		Encrypted(deps),
		EncryptedEdit(deps),
		Credentials(deps),
		Tasks(deps),
		History(deps),
		Config(deps),
		Commands(reg),
		Completions(reg),
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return fmt.Errorf("register %s: %w", d.Namespace, err)
		}
	}
	return nil
}

// root returns the project directory commands resolve relative paths against.
func (d Deps) root() (string, error) {
	dir, err := d.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return dir, nil
}
