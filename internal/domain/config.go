package domain

// ConfigKey defines a configuration key with its metadata.
type ConfigKey struct {
	Name        string
	Default     string
	Description string
	Section     string // Section for grouping in config:list
	Hidden      bool   // Hidden keys are not shown in config:list
	HideIfEmpty bool   // Only show in config:list if explicitly set
}

// ConfigKeys defines all available configuration keys.
// This is the single source of truth for configuration.
// Order determines display order in `cmdr config:list`.
var ConfigKeys = []ConfigKey{
	// Commands
	{
		Name:        "search_roots",
		Default:     "commands,.cmdr/commands",
		Description: "Comma-separated directories scanned for *_command manifests",
		Section:     "Commands",
	},
	{
		Name:        "tasks_file",
		Default:     "tasks.yaml",
		Description: "Task file used when no command matches",
		Section:     "Commands",
	},
	{
		Name:        "server",
		Default:     "caddy",
		Description: "Default backend started by `cmdr server`",
		Section:     "Commands",
	},
	{
		Name:        "dbconsole",
		Default:     "sqlite3",
		Description: "Database console started by `cmdr dbconsole`",
		Section:     "Commands",
	},
	{
		Name:        "editor",
		Default:     "",
		Description: "Editor used by credentials:edit (overrides $EDITOR)",
		Section:     "Commands",
		HideIfEmpty: true,
	},
	// Display
	{
		Name:        "pager",
		Default:     "",
		Description: "Pager for long output such as help listings (overrides $PAGER, 'cat' disables)",
		Section:     "Display",
		HideIfEmpty: true,
	},
	{
		Name:        "display_date",
		Default:     "Jan 02",
		Description: "Date format: dd/mm/yyyy, mm/dd/yyyy, yyyy-mm-dd, or Go format",
		Section:     "Display",
	},
	{
		Name:        "display_time",
		Default:     "24h",
		Description: "Time format: 12h, 24h",
		Section:     "Display",
	},
	// Logging
	{
		Name:        "enable_log",
		Default:     "true",
		Description: "Enable logging to file (true/false)",
		Section:     "Logging",
	},
	{
		Name:        "log_level",
		Default:     "warn",
		Description: "Minimum log level: debug, info, warn, error",
		Section:     "Logging",
	},
	// History
	{
		Name:        "enable_history",
		Default:     "true",
		Description: "Record every invocation in the history database (true/false)",
		Section:     "History",
	},
	{
		Name:        "history_limit",
		Default:     "20",
		Description: "Number of entries shown by `cmdr history`",
		Section:     "History",
	},
}

// configKeyMap is a lookup map for configuration keys.
var configKeyMap map[string]ConfigKey

func init() {
	configKeyMap = make(map[string]ConfigKey, len(ConfigKeys))
	for _, key := range ConfigKeys {
		configKeyMap[key.Name] = key
	}
}

// GetConfigKey returns the ConfigKey for a given name.
func GetConfigKey(name string) (ConfigKey, bool) {
	key, ok := configKeyMap[name]
	return key, ok
}

// IsValidConfigKey checks if a key name is valid.
func IsValidConfigKey(name string) bool {
	_, ok := configKeyMap[name]
	return ok
}

// GetDefaultValue returns the default value for a config key.
func GetDefaultValue(name string) (string, bool) {
	if key, ok := configKeyMap[name]; ok {
		return key.Default, true
	}
	return "", false
}

// VisibleConfigKeys returns all non-hidden configuration keys.
func VisibleConfigKeys() []ConfigKey {
	var visible []ConfigKey
	for _, key := range ConfigKeys {
		if !key.Hidden {
			visible = append(visible, key)
		}
	}
	return visible
}

// ConfigSections returns the ordered list of section names.
func ConfigSections() []string {
	return []string{"Commands", "Display", "Logging", "History"}
}

// ConfigKeysBySection returns visible config keys grouped by section.
func ConfigKeysBySection() map[string][]ConfigKey {
	result := make(map[string][]ConfigKey)
	for _, key := range ConfigKeys {
		if !key.Hidden {
			result[key.Section] = append(result[key.Section], key)
		}
	}
	return result
}
