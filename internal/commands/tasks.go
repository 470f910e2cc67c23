package commands

import (
	"fmt"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/ui/style"
)

// Tasks lists the fallback tasks.
func Tasks(deps Deps) *command.Descriptor {
	return command.New(command.Spec{
		Namespace: "tasks",
		Summary:   "List the tasks from the task file",
		Aliases:   []string{"-T"},
		Perform: func(c *command.Context) error {
			if deps.Tasks == nil {
				c.Say("No task runner configured.")
				return nil
			}
			list, err := deps.Tasks.List(c.Config)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				c.Sayf("No tasks defined in %s", deps.Tasks.Path(c.Config))
				return nil
			}

			width := 0
			for _, t := range list {
				width = max(width, len(t.Name))
			}
			for _, t := range list {
				name := fmt.Sprintf("%-*s", width, t.Name)
				c.Sayf("%s %s  %s", command.Executable, style.Info(name), style.Muted("# "+t.Summary))
			}
			return nil
		},
	})
}
