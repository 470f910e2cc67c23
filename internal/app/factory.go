// Package app wires the registry, built-in commands, task fallback and
// history store into a ready-to-use dispatcher.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/commands"
	"github.com/footprint-tools/cmdr/internal/config"
	"github.com/footprint-tools/cmdr/internal/dispatcher"
	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/log"
	"github.com/footprint-tools/cmdr/internal/paths"
	"github.com/footprint-tools/cmdr/internal/registry"
	"github.com/footprint-tools/cmdr/internal/store"
	"github.com/footprint-tools/cmdr/internal/tasks"
	"github.com/footprint-tools/cmdr/internal/ui"
)

// Version is set at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

// Options configures the application factory.
type Options struct {
	// Pager options
	PagerDisabled bool
	PagerOverride string

	// Config is the merged ~/.cmdrrc and defaults. Nil loads it.
	Config map[string]string

	// Runtime overrides the process streams and environment.
	Runtime command.Runtime

	// Getwd resolves the project root. Defaults to os.Getwd.
	Getwd func() (string, error)

	// LogPath and HistoryPath default to the per-user data directories.
	LogPath     string
	HistoryPath string
}

// DefaultOptions returns the options used by the cmdr binary.
func DefaultOptions() Options {
	cfg, _ := config.GetAll()
	return Options{Config: cfg}
}

// App is a wired cmdr instance.
type App struct {
	Config     map[string]string
	Registry   *registry.Registry
	Tasks      *tasks.Runner
	History    domain.HistoryStore
	Logger     domain.Logger
	Dispatcher *dispatcher.Dispatcher
}

// New creates an App with all dependencies wired up.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.GetAll(); err != nil {
			return nil, err
		}
	}
	getwd := opts.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	cwd, err := getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	logger := newLogger(cfg, opts.LogPath)

	reg := registry.New(
		registry.WithRoots(paths.SearchRoots(cwd, strings.Split(cfg["search_roots"], ","))...),
		registry.WithLogger(logger),
	)

	runner := &tasks.Runner{Root: cwd, Candidates: reg.Namespaces}

	var history domain.HistoryStore
	if cfg["enable_history"] == "true" {
		path := opts.HistoryPath
		if path == "" {
			path = paths.HistoryDBPath()
		}
		s, err := store.New(path)
		if err != nil {
			// history is best effort; a broken database must not block commands
			logger.Warn("app: history disabled: %v", err)
		} else {
			history = s
		}
	}

	deps := commands.DefaultDeps(Version)
	deps.Tasks = runner
	deps.History = history
	deps.Getwd = getwd
	deps.Pager = pager(opts)
	if err := commands.Register(reg, deps); err != nil {
		return nil, err
	}

	rt := opts.Runtime
	rt.Logger = logger
	dopts := []dispatcher.Option{dispatcher.WithRuntime(rt)}
	if history != nil {
		dopts = append(dopts, dispatcher.WithHistory(history))
	}

	return &App{
		Config:     cfg,
		Registry:   reg,
		Tasks:      runner,
		History:    history,
		Logger:     logger,
		Dispatcher: dispatcher.New(reg, runner, dopts...),
	}, nil
}

func newLogger(cfg map[string]string, path string) domain.Logger {
	if cfg["enable_log"] != "true" {
		return log.NopLogger{}
	}
	if path == "" {
		path = paths.LogFilePath()
	}
	l, err := log.New(path, log.ParseLevel(cfg["log_level"]))
	if err != nil {
		// Fall back to NopLogger on error
		return log.NopLogger{}
	}
	log.SetDefault(l)
	return l
}

func pager(opts Options) func(io.Writer, map[string]string, string) {
	return func(out io.Writer, cfg map[string]string, content string) {
		wopts := []ui.WriterOption{ui.WithConfigGetter(func(key string) (string, bool) {
			v, ok := cfg[key]
			return v, ok
		})}
		if opts.PagerDisabled {
			wopts = append(wopts, ui.WithPagerDisabled())
		}
		if opts.PagerOverride != "" {
			wopts = append(wopts, ui.WithPagerOverride(opts.PagerOverride))
		}
		ui.NewWriterTo(out, wopts...).Pager(content)
	}
}

// Invoke runs one command line against the wired registry.
func (a *App) Invoke(ctx context.Context, namespace string, args []string) error {
	return a.Dispatcher.Invoke(ctx, namespace, args, a.Config)
}

// Close cleans up application resources.
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Close()
	}
	if a.History != nil {
		_ = a.History.Close()
	}
	return nil
}
