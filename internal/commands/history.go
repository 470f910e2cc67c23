package commands

import (
	"strconv"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/format"
	"github.com/footprint-tools/cmdr/internal/ui/style"
)

// DefaultHistoryLimit is used when history_limit is unset or invalid.
const DefaultHistoryLimit = 20

// History lists recent invocations.
func History(deps Deps) *command.Descriptor {
	return command.New(command.Spec{
		Namespace: "history",
		Summary:   "Show recent invocations",
		Options: []command.Option{
			{Name: "limit", Type: command.Int, Aliases: []string{"-n"}, Description: "Number of entries to show. Default: history_limit config key"},
		},
		Perform: func(c *command.Context) error {
			if deps.History == nil {
				c.Sayf("History is disabled. Enable it with `%s config:set enable_history true`.", command.Executable)
				return nil
			}

			limit := historyLimit(c)
			runs, err := deps.History.Recent(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				c.Say("No invocations recorded yet.")
				return nil
			}

			layout := format.FromConfig(c.Config)
			for _, r := range runs {
				status := style.Success(strconv.Itoa(r.ExitCode))
				if r.ExitCode != 0 {
					status = style.Error(strconv.Itoa(r.ExitCode))
				}
				line := strings.TrimSpace(r.Namespace + " " + strings.Join(r.Args, " "))
				if !r.Resolved {
					line += style.Muted(" (task)")
				}
				c.Sayf("%s  %3s  %8s  %s",
					style.Muted(layout.DateTimeShort(r.StartedAt.Local())),
					status,
					format.Duration(r.Duration),
					line,
				)
			}
			return nil
		},
	})
}

func historyLimit(c *command.Context) int {
	if c.Options.IsSet("limit") {
		return c.Options.Int("limit")
	}
	if n, err := strconv.Atoi(c.Config["history_limit"]); err == nil && n > 0 {
		return n
	}
	return DefaultHistoryLimit
}
