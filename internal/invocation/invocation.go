// Package invocation parses colon-namespaced command strings such as
// "server", "credentials:edit" or "db:migrate:status".
package invocation

import "strings"

const (
	HelpCommand    = "help"
	VersionCommand = "version"
)

// HelpMappings are the tokens that normalize to the help command.
var HelpMappings = []string{"-h", "-?", "--help", "help"}

// VersionMappings are the tokens that normalize to the version command.
var VersionMappings = []string{"-v", "--version"}

// Invocation is the parsed, immutable form of a raw namespace string.
type Invocation struct {
	namespace string
	nesting   []string
	command   string
	aliased   bool
}

// Parse never fails: degenerate input normalizes to the help command.
func Parse(raw string) Invocation {
	nesting := strings.Split(raw, ":")
	if raw == "" {
		nesting = nil
	}

	inv := Invocation{namespace: raw, nesting: nesting}

	last := ""
	if len(nesting) > 0 {
		last = nesting[len(nesting)-1]
	}

	switch {
	case isVersion(lastNonEmpty(nesting)):
		inv.command = VersionCommand
	case last == "" || contains(HelpMappings, last):
		inv.command = HelpCommand
	default:
		inv.command = last
	}
	inv.aliased = inv.command != last

	return inv
}

// Namespace returns the raw string the invocation was parsed from.
func (i Invocation) Namespace() string { return i.namespace }

// Nesting returns a copy of the colon-separated segments.
func (i Invocation) Nesting() []string {
	out := make([]string, len(i.nesting))
	copy(out, i.nesting)
	return out
}

// Command is the last segment, or "help"/"version" after alias normalization.
func (i Invocation) Command() string { return i.command }

// IsHelp reports whether the invocation resolves to the help command.
func (i Invocation) IsHelp() bool { return i.command == HelpCommand }

// Parent returns every segment but the last, joined with ":".
// It is empty for a bare command.
func (i Invocation) Parent() string {
	if len(i.nesting) < 2 {
		return ""
	}
	return strings.Join(i.nesting[:len(i.nesting)-1], ":")
}

// Lookups returns the candidate namespaces to match against the registry
// index, in priority order.
func (i Invocation) Lookups() []string {
	var out []string
	add := func(s string) {
		if s == "" || contains(out, s) {
			return
		}
		out = append(out, s)
	}

	add(i.namespace)
	add(i.Parent())
	if i.aliased {
		add(i.command)
	}
	return out
}

// LookupPaths returns the relative command file paths to try, always
// ending with "<command>/<command>".
func (i Invocation) LookupPaths() []string {
	self := i.command + "/" + i.command
	var out []string
	if p := strings.ReplaceAll(i.namespace, ":", "/"); p != "" && p != self {
		out = append(out, p)
	}
	return append(out, self)
}

func (i Invocation) String() string { return i.namespace }

func lastNonEmpty(segments []string) string {
	for j := len(segments) - 1; j >= 0; j-- {
		if segments[j] != "" {
			return segments[j]
		}
	}
	return ""
}

func isVersion(s string) bool {
	return contains(VersionMappings, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
