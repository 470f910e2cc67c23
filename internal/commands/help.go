package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/invocation"
	"github.com/footprint-tools/cmdr/internal/spellcheck"
	"github.com/footprint-tools/cmdr/internal/ui/picker"
	"github.com/footprint-tools/cmdr/internal/ui/style"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// Help lists commands, shows one command's help, or opens the picker.
func Help(cat Catalog, deps Deps) *command.Descriptor {
	return command.New(command.Spec{
		Namespace: "help",
		Summary:   "Show available commands or help for one command",
		Options: []command.Option{
			{Name: "interactive", Type: command.Boolean, Aliases: []string{"-i"}, Description: "Browse commands interactively"},
		},
		Arguments: []command.Argument{
			{Name: "command", Description: "Command to describe", Optional: true},
		},
		Perform: func(c *command.Context) error {
			if c.Options.Bool("interactive") {
				return helpInteractive(c, cat, deps)
			}
			if target := c.Arg("command"); target != "" {
				return helpFor(c, cat, deps, target)
			}
			deps.Pager(c.Out, c.Config, listing(c, cat, deps))
			return nil
		},
	})
}

func helpFor(c *command.Context, cat Catalog, deps Deps, target string) error {
	inv := invocation.Parse(target)
	// a collection is named by its namespace; anything else must be an entry
	if desc := cat.Resolve(inv); desc != nil && (desc.Namespace == target || desc.Owns(inv.Command())) {
		return desc.Perform(c.Ctx, "help", nil, c.Config)
	}

	if deps.Tasks != nil {
		list, err := deps.Tasks.List(c.Config)
		if err == nil {
			for _, t := range list {
				if t.Name == target {
					c.Sayf("%s - %s (task from %s)", t.Name, t.Summary, deps.Tasks.Path(c.Config))
					return nil
				}
			}
		}
	}

	return usage.UnknownCommand(target, spellcheck.Suggest(target, cat.Namespaces())...)
}

func helpInteractive(c *command.Context, cat Catalog, deps Deps) error {
	var items []picker.Item
	for _, g := range cat.Groups() {
		for _, l := range g.Commands {
			items = append(items, picker.Item{Name: l.Name, Summary: l.Summary})
		}
	}

	chosen, err := deps.Pick("cmdr commands", items)
	if errors.Is(err, picker.ErrNotInteractive) {
		c.Logger.Debug("help: picker unavailable, printing listing")
		deps.Pager(c.Out, c.Config, listing(c, cat, deps))
		return nil
	}
	if err != nil {
		return err
	}
	if chosen == "" {
		return nil
	}
	return helpFor(c, cat, deps, chosen)
}

func listing(c *command.Context, cat Catalog, deps Deps) string {
	var out strings.Builder

	out.WriteString(style.Header("USAGE"))
	fmt.Fprintf(&out, "\n   %s %s\n\n", style.Info(command.Executable), style.Muted("COMMAND [ARGS] [options]"))

	for _, g := range cat.Groups() {
		out.WriteString(style.Header(strings.ToUpper(g.Name)))
		out.WriteString("\n")
		for _, l := range g.Commands {
			fmt.Fprintf(&out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", l.Name)), l.Summary)
		}
		out.WriteString("\n")
	}

	if deps.Tasks != nil {
		list, err := deps.Tasks.List(c.Config)
		if err != nil {
			c.Logger.Warn("help: could not read tasks: %v", err)
		}
		if len(list) > 0 {
			out.WriteString(style.Header("TASKS"))
			out.WriteString(style.Muted(" (" + deps.Tasks.Path(c.Config) + ")"))
			out.WriteString("\n")
			for _, t := range list {
				fmt.Fprintf(&out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", t.Name)), t.Summary)
			}
			out.WriteString("\n")
		}
	}

	fmt.Fprintf(&out, "All commands can be run with -h (or --help) for more information.\n")
	return out.String()
}
