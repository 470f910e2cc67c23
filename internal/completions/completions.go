// Package completions generates shell completion scripts from the registered
// command descriptors.
package completions

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
)

// Shell is a supported completion target.
type Shell string

const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// Shells lists every supported shell.
var Shells = []Shell{ShellBash, ShellZsh, ShellFish}

// ParseShell accepts a shell name or a path such as /bin/zsh.
func ParseShell(s string) (Shell, error) {
	name := Shell(filepath.Base(strings.TrimSpace(s)))
	for _, sh := range Shells {
		if sh == name {
			return sh, nil
		}
	}
	return "", fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", s)
}

// RunningShell guesses the user's shell from $SHELL. Empty when unknown.
func RunningShell(getenv func(string) string) Shell {
	sh, err := ParseShell(getenv("SHELL"))
	if err != nil {
		return ""
	}
	return sh
}

// CommandInfo is one completable command name.
type CommandInfo struct {
	Name    string
	Summary string
	Flags   []FlagInfo
}

// FlagInfo is an option of a command.
type FlagInfo struct {
	Names       []string
	Description string
	HasValue    bool
}

// Long returns the first "--name" form.
func (f FlagInfo) Long() string {
	for _, n := range f.Names {
		if strings.HasPrefix(n, "--") {
			return n
		}
	}
	return ""
}

// Short returns the first single-letter "-x" form.
func (f FlagInfo) Short() string {
	for _, n := range f.Names {
		if len(n) == 2 && n[0] == '-' && n[1] != '-' {
			return n
		}
	}
	return ""
}

// ExtractCommands collects every visible command name, entry and alias,
// sorted by name.
func ExtractCommands(ds []*command.Descriptor) []CommandInfo {
	byName := make(map[string]CommandInfo)
	for _, d := range ds {
		if d.Hidden {
			continue
		}
		flags := extractFlags(d.Options())
		for _, pc := range d.PrintingCommands() {
			byName[pc[0]] = CommandInfo{Name: pc[0], Summary: pc[1], Flags: flags}
		}
		if d.DefaultEntry() == "" {
			continue
		}
		for _, alias := range d.Aliases {
			if _, taken := byName[alias]; !taken && !strings.HasPrefix(alias, "-") {
				byName[alias] = CommandInfo{Name: alias, Summary: d.Summary, Flags: flags}
			}
		}
	}

	out := make([]CommandInfo, 0, len(byName))
	for _, c := range byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func extractFlags(opts []command.Option) []FlagInfo {
	var flags []FlagInfo
	for _, o := range opts {
		if o.Hidden {
			continue
		}
		flags = append(flags, FlagInfo{
			Names:       o.Flags(),
			Description: o.Description,
			HasValue:    o.Type != command.Boolean,
		})
	}
	return flags
}

// Generate returns the completion script of shell for bin.
func Generate(shell Shell, bin string, commands []CommandInfo) (string, error) {
	switch shell {
	case ShellBash:
		return GenerateBash(bin, commands), nil
	case ShellZsh:
		return GenerateZsh(bin, commands), nil
	case ShellFish:
		return GenerateFish(bin, commands), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s", shell)
	}
}

// PrintCompletions writes the completion script for the given shell to w
func PrintCompletions(w io.Writer, shell Shell, bin string, commands []CommandInfo) error {
	script, err := Generate(shell, bin, commands)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, script)
	return err
}

// funcName turns a binary name into a shell identifier.
func funcName(bin string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, bin)
}

func singleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
