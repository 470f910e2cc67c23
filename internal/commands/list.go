package commands

import (
	"sort"

	"github.com/footprint-tools/cmdr/internal/command"
)

// Commands prints every command name, one per line.
func Commands(cat Catalog) *command.Descriptor {
	return command.New(command.Spec{
		Namespace: "commands",
		Summary:   "List every command name",
		Options: []command.Option{
			{Name: "all", Type: command.Boolean, Aliases: []string{"-a"}, Description: "Include hidden commands and entries."},
		},
		Perform: func(c *command.Context) error {
			all := c.Options.Bool("all")
			cat.LookupAll()

			seen := make(map[string]bool)
			var names []string
			for _, d := range cat.Descriptors() {
				if d.Hidden && !all {
					continue
				}
				for _, name := range d.Commands() {
					full := d.Namespace
					if name != d.DefaultEntry() {
						if name == "help" && !all {
							continue
						}
						full += ":" + name
					}
					if !seen[full] {
						seen[full] = true
						names = append(names, full)
					}
				}
			}
			sort.Strings(names)
			for _, n := range names {
				c.Say(n)
			}
			return nil
		},
	})
}
