package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/script"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// Load reads the manifest at path and builds its descriptor under namespace.
// Its signature matches registry.LoadFunc.
func Load(path, namespace string) (*command.Descriptor, error) {
	m, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(m, namespace, path)
}

// Build turns a decoded manifest into a descriptor.
func Build(m *Manifest, namespace, source string) (*command.Descriptor, error) {
	options, err := buildOptions(m.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	spec := command.Spec{
		Namespace:   namespace,
		Source:      source,
		Summary:     m.Summary,
		Description: m.Description,
		Hidden:      m.Hidden,
		Aliases:     m.Aliases,
		Options:     options,
		Arguments:   buildArguments(m.Arguments),
	}

	if m.Banner != "" {
		banner := m.Banner
		spec.Banner = func(string) string { return banner }
	}

	if strings.TrimSpace(m.Run) != "" {
		spec.Perform = scriptEntry(m, m.Run, source)
	}

	if len(m.Commands) > 0 {
		spec.Commands = make(map[string]command.Entry, len(m.Commands))
		for name, e := range m.Commands {
			spec.Commands[name] = command.Entry{
				Summary: e.Summary,
				Hidden:  e.Hidden,
				Perform: scriptEntry(m, e.Run, source+"#"+name),
			}
		}
	}

	d := command.New(spec)
	for i, h := range m.Before {
		d.AddHook(scriptHook(m, h, fmt.Sprintf("%s#before[%d]", source, i)))
	}
	return d, nil
}

func buildOptions(specs []OptionSpec) ([]command.Option, error) {
	out := make([]command.Option, 0, len(specs))
	for _, s := range specs {
		typ, err := command.ParseType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", s.Name, err)
		}
		if typ == command.Enum && len(s.Enum) == 0 {
			return nil, fmt.Errorf("option %s: enum without values", s.Name)
		}
		def := ""
		if s.Default != nil {
			def = fmt.Sprint(s.Default)
		}
		out = append(out, command.Option{
			Name:        s.Name,
			Type:        typ,
			Default:     def,
			Aliases:     s.Aliases,
			Enum:        s.Enum,
			Required:    s.Required,
			Description: s.Description,
			Banner:      s.Banner,
			Hidden:      s.Hidden,
		})
	}
	return out, nil
}

func buildArguments(specs []ArgumentSpec) []command.Argument {
	out := make([]command.Argument, 0, len(specs))
	for _, s := range specs {
		out = append(out, command.Argument{
			Name:        s.Name,
			Description: s.Description,
			Optional:    s.Required != nil && !*s.Required,
		})
	}
	return out
}

// scriptEnv is the environment every manifest script sees.
func scriptEnv(m *Manifest, c *command.Context) []string {
	extra := []string{
		"CMDR_ENV=" + c.Environment(),
		"CMDR_NAMESPACE=" + c.Descriptor.Namespace,
		"CMDR_COMMAND=" + c.Command,
	}
	if c.RunID != "" {
		extra = append(extra, "CMDR_RUN_ID="+c.RunID)
	}

	keys := make([]string, 0, len(m.Env))
	for k := range m.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		extra = append(extra, k+"="+m.Env[k])
	}

	values := c.Options.Map()
	for _, name := range c.Options.Names() {
		extra = append(extra, "CMDR_OPT_"+script.EnvName(name)+"="+values[name])
	}
	for _, a := range c.Descriptor.Arguments() {
		if v, ok := c.Named[a.Name]; ok {
			extra = append(extra, "CMDR_ARG_"+script.EnvName(a.Name)+"="+v)
		}
	}

	return script.MergeEnv(c.Env.Environ(), extra...)
}

func request(m *Manifest, c *command.Context, source, name string) script.Request {
	return script.Request{
		Source: source,
		Name:   name,
		Args:   append(append([]string(nil), c.Args...), c.Extra...),
		Env:    scriptEnv(m, c),
		Stdin:  c.In,
		Stdout: c.Out,
		Stderr: c.Err,
	}
}

// scriptEntry runs src as a command entry; a non-zero status is the exit code.
func scriptEntry(m *Manifest, src, name string) command.PerformFunc {
	return func(c *command.Context) error {
		code, err := script.Run(c.Ctx, request(m, c, src, name))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if code != 0 {
			c.Logger.Debug("manifest: %s exited with %d", name, code)
			return usage.CommandFailed(code, "")
		}
		return nil
	}
}

func scriptHook(m *Manifest, h HookSpec, name string) command.Hook {
	hook := command.Hook{Name: name}

	if strings.TrimSpace(h.If) != "" {
		guard := h.If
		hook.If = func(c *command.Context) bool {
			return script.Test(c.Ctx, request(m, c, guard, name+"#if"))
		}
	}

	hook.Run = func(c *command.Context) command.Outcome {
		code, err := script.Run(c.Ctx, request(m, c, h.Run, name))
		if err != nil {
			return command.Fail(1, "%s: %v", name, err)
		}
		if code == 0 {
			return command.Continue
		}
		if h.OnFailure == OnFailureHalt {
			return command.Halt
		}
		return command.Fail(code, "")
	}
	return hook
}
