package command

import (
	"fmt"
	"strings"

	"github.com/footprint-tools/cmdr/internal/ui/style"
)

func defaultHelp(c *Context) error {
	_, err := fmt.Fprint(c.Out, c.Descriptor.HelpText())
	return err
}

// formatUsage styles the command part of a usage line in Info and the rest muted.
func formatUsage(banner string) string {
	cmdEnd := len(banner)
	for i, r := range banner {
		if r == '[' || r == '<' || (r >= 'A' && r <= 'Z') {
			cmdEnd = i
			break
		}
	}

	cmd := strings.TrimSpace(banner[:cmdEnd])
	rest := strings.TrimSpace(banner[cmdEnd:])
	if rest == "" {
		return style.Info(cmd)
	}
	return style.Info(cmd) + " " + style.Muted(rest)
}

// HelpText renders usage, description, subcommands, arguments and options.
func (d *Descriptor) HelpText() string {
	var out strings.Builder

	out.WriteString(d.Namespace)
	if d.Summary != "" {
		out.WriteString(" - ")
		out.WriteString(d.Summary)
	}
	out.WriteString("\n\n")

	out.WriteString(style.Header("USAGE"))
	out.WriteString("\n   ")
	out.WriteString(formatUsage(d.Banner()))
	out.WriteString("\n\n")

	if d.Description != "" {
		out.WriteString(strings.TrimRight(d.Description, "\n"))
		out.WriteString("\n\n")
	}

	if cmds := d.PrintingCommands(); len(cmds) > 1 || (len(cmds) == 1 && cmds[0][0] != d.Namespace) {
		out.WriteString(style.Header("COMMANDS"))
		out.WriteString("\n")
		for _, c := range cmds {
			fmt.Fprintf(&out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", c[0])), c[1])
		}
		out.WriteString("\n")
	}

	if len(d.arguments) > 0 {
		out.WriteString(style.Header("ARGUMENTS"))
		out.WriteString("\n")
		for _, a := range d.arguments {
			desc := a.Description
			if a.Optional {
				desc = strings.TrimSpace(desc + " (optional)")
			}
			fmt.Fprintf(&out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", a.usageToken())), desc)
		}
		out.WriteString("\n")
	}

	if opts := d.visibleOptions(); len(opts) > 0 {
		out.WriteString(style.Header("OPTIONS"))
		out.WriteString("\n")
		for _, o := range opts {
			fmt.Fprintf(&out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", optionUsage(o))), optionDescription(o))
		}
		out.WriteString("\n")
	}

	return out.String()
}

func optionUsage(o Option) string {
	names := []string{}
	if short := o.shortAlias(); short != "" {
		names = append(names, short)
	}
	long := o.long()
	if o.Type == Boolean {
		long = "--[no-]" + flagName(o.Name)
	}
	names = append(names, long)
	usage := strings.Join(names, ", ")

	if o.Type != Boolean {
		hint := o.Banner
		if hint == "" {
			hint = strings.ToUpper(strings.ReplaceAll(flagName(o.Name), "-", "_"))
		}
		usage += "=" + hint
	}
	return usage
}

func optionDescription(o Option) string {
	desc := o.Description
	if o.Type == Enum && len(o.Enum) > 0 {
		desc = strings.TrimSpace(desc + " Possible values: " + strings.Join(o.Enum, ", ") + ".")
	}
	if o.Default != "" {
		desc = strings.TrimSpace(desc + " Default: " + o.Default)
	}
	return desc
}
