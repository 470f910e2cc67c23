package registry

import (
	"sort"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
)

// BuiltinGroup is listed first in Groups.
const BuiltinGroup = "cmdr"

// Listing is one printable command line.
type Listing struct {
	Name    string
	Summary string
}

// Group is a set of visible commands sharing their first namespace segment.
type Group struct {
	Name     string
	Commands []Listing
}

// Groups scans every root and groups visible commands by first namespace
// segment. Single-segment built-ins form the BuiltinGroup, which comes first;
// the other groups follow alphabetically.
func (r *Registry) Groups() []Group {
	r.LookupAll()

	byName := make(map[string][]Listing)
	for _, d := range r.Descriptors() {
		if d.Hidden {
			continue
		}
		group := groupName(d)
		for _, pc := range d.PrintingCommands() {
			byName[group] = append(byName[group], Listing{Name: pc[0], Summary: pc[1]})
		}
	}

	var groups []Group
	if builtins, ok := byName[BuiltinGroup]; ok {
		groups = append(groups, Group{Name: BuiltinGroup, Commands: sortListings(builtins)})
		delete(byName, BuiltinGroup)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		groups = append(groups, Group{Name: name, Commands: sortListings(byName[name])})
	}
	return groups
}

func groupName(d *command.Descriptor) string {
	first, _, nested := strings.Cut(d.Namespace, ":")
	if d.Source == command.SourceBuiltin && !nested && len(d.Commands()) <= 2 {
		return BuiltinGroup
	}
	return first
}

func sortListings(ls []Listing) []Listing {
	sort.Slice(ls, func(i, j int) bool { return ls[i].Name < ls[j].Name })
	return ls
}
