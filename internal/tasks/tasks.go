// Package tasks is the fallback runner: namespaces no command descriptor
// claims are looked up in a task file and run as shell scripts.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/script"
	"github.com/footprint-tools/cmdr/internal/spellcheck"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// Name is how the fallback runner is known.
const Name = "task"

// DefaultFile is used when the tasks_file config key is empty.
const DefaultFile = "tasks.yaml"

// Task is one entry of the task file.
type Task struct {
	Name    string `yaml:"-"`
	Summary string `yaml:"summary"`
	Run     string `yaml:"run"`
}

type file struct {
	Tasks map[string]Task `yaml:"tasks"`
}

// Load reads the task file at path. A missing file is an empty task list.
func Load(path string) (map[string]Task, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Task{}, nil
	}
	if err != nil {
		return nil, err
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := make(map[string]Task, len(f.Tasks))
	for name, t := range f.Tasks {
		t.Name = name
		out[name] = t
	}
	return out, nil
}

// Runner executes tasks from File.
type Runner struct {
	File string
	// Root is the project directory relative task files resolve against.
	// Empty means the process working directory.
	Root string
	// Candidates returns extra names for "did you mean" suggestions,
	// typically the registry namespaces.
	Candidates func() []string
}

// Path resolves the task file from cfg, falling back to r.File and DefaultFile.
func (r *Runner) Path(cfg map[string]string) string {
	p := strings.TrimSpace(cfg["tasks_file"])
	if p == "" {
		p = r.File
	}
	if p == "" {
		p = DefaultFile
	}
	if r.Root != "" && !filepath.IsAbs(p) {
		p = filepath.Join(r.Root, p)
	}
	return p
}

// List returns every task sorted by name.
func (r *Runner) List(cfg map[string]string) ([]Task, error) {
	tasks, err := Load(r.Path(cfg))
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Perform runs the task named fullNamespace with args as $1..$n.
func (r *Runner) Perform(ctx context.Context, fullNamespace string, args []string, cfg map[string]string) error {
	tasks, err := Load(r.Path(cfg))
	if err != nil {
		return err
	}

	task, ok := tasks[fullNamespace]
	if !ok {
		return usage.UnknownCommand(fullNamespace, r.suggest(fullNamespace, tasks)...)
	}

	rt := command.RuntimeFrom(ctx)
	rt.Logger.Debug("tasks: running %s", fullNamespace)

	code, err := script.Run(ctx, script.Request{
		Source: task.Run,
		Name:   "task " + fullNamespace,
		Args:   args,
		Env: script.MergeEnv(rt.Env.Environ(),
			"CMDR_ENV="+env.Environment(rt.Env),
			"CMDR_TASK="+fullNamespace,
		),
		Stdin:  rt.In,
		Stdout: rt.Out,
		Stderr: rt.Err,
	})
	if err != nil {
		return fmt.Errorf("task %s: %w", fullNamespace, err)
	}
	if code != 0 {
		return usage.CommandFailed(code, "")
	}
	return nil
}

func (r *Runner) suggest(token string, tasks map[string]Task) []string {
	var from []string
	if r.Candidates != nil {
		from = append(from, r.Candidates()...)
	}
	for name := range tasks {
		from = append(from, name)
	}
	return spellcheck.Suggest(token, from)
}
