package commands

import (
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/ui/style"
	"github.com/footprint-tools/cmdr/internal/usage"
)

// Config reads and writes ~/.cmdrrc.
func Config(deps Deps) *command.Descriptor {
	return command.New(command.Spec{
		Namespace: "config",
		Summary:   "Read and write cmdr settings",
		Arguments: []command.Argument{
			{Name: "key", Optional: true},
			{Name: "value", Optional: true},
		},
		Banner: func(string) string {
			return command.Executable + " config:[get|set|unset|list] [KEY] [VALUE]"
		},
		Commands: map[string]command.Entry{
			"get": {Summary: "Print the value of a setting", Perform: func(c *command.Context) error {
				key, err := requireArg(c, "key")
				if err != nil {
					return err
				}
				value, ok := deps.Config.Get(key)
				if !ok {
					return usage.InvalidConfigKey(key)
				}
				c.Say(value)
				return nil
			}},
			"set": {Summary: "Change a setting", Perform: func(c *command.Context) error {
				key, err := requireArg(c, "key")
				if err != nil {
					return err
				}
				value, err := requireArg(c, "value")
				if err != nil {
					return err
				}
				if err := deps.Config.Set(key, value); err != nil {
					return err
				}
				c.Logger.Info("config: set %s", key)
				return nil
			}},
			"unset": {Summary: "Reset a setting to its default", Perform: func(c *command.Context) error {
				key, err := requireArg(c, "key")
				if err != nil {
					return err
				}
				return deps.Config.Unset(key)
			}},
			"list": {Summary: "List every setting", Perform: func(c *command.Context) error {
				values, err := deps.Config.GetAll()
				if err != nil {
					return err
				}
				sections := domain.ConfigKeysBySection()
				first := true
				for _, section := range domain.ConfigSections() {
					keys := sections[section]
					if len(keys) == 0 {
						continue
					}
					if !first {
						c.Say("")
					}
					first = false
					c.Say(style.Header(strings.ToUpper(section)))
					for _, key := range keys {
						value := values[key.Name]
						if key.HideIfEmpty && value == "" {
							continue
						}
						c.Sayf("%s=%s", key.Name, value)
					}
				}
				return nil
			}},
		},
	})
}

func requireArg(c *command.Context, name string) (string, error) {
	if v := c.Arg(name); v != "" {
		return v, nil
	}
	line := command.Executable + " config:" + c.Command + " KEY"
	if c.Command == "set" {
		line += " VALUE"
	}
	return "", usage.MissingArgument(name, line)
}
