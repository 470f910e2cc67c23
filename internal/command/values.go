package command

import (
	"sort"
	"strconv"
)

// Values holds the bound option values of one invocation and remembers which
// of them were given on the command line rather than filled from defaults.
type Values struct {
	options  []Option
	index    map[string]int
	values   map[string]any
	explicit []uint64
}

func newValues(options []Option) *Values {
	v := &Values{
		options:  options,
		index:    make(map[string]int, len(options)),
		values:   make(map[string]any, len(options)),
		explicit: make([]uint64, (len(options)+63)/64),
	}
	for i, o := range options {
		v.index[o.Name] = i
		v.index[flagName(o.Name)] = i
	}
	return v
}

func (v *Values) lookupIndex(name string) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.index[name]
	if !ok {
		i, ok = v.index[flagName(name)]
	}
	return i, ok
}

func (v *Values) mark(i int) {
	v.explicit[i/64] |= 1 << (uint(i) % 64)
}

// Set stores value for a declared option and marks it explicit.
// It reports false for undeclared names.
func (v *Values) Set(name string, value any) bool {
	i, ok := v.lookupIndex(name)
	if !ok {
		return false
	}
	v.values[v.options[i].Name] = value
	v.mark(i)
	return true
}

func (v *Values) setDefault(i int, value any) {
	v.values[v.options[i].Name] = value
}

// IsSet reports whether the option was given explicitly.
func (v *Values) IsSet(name string) bool {
	i, ok := v.lookupIndex(name)
	if !ok {
		return false
	}
	return v.explicit[i/64]&(1<<(uint(i)%64)) != 0
}

// Explicit returns the names of explicitly given options in declaration order.
func (v *Values) Explicit() []string {
	if v == nil {
		return nil
	}
	var names []string
	for i, o := range v.options {
		if v.explicit[i/64]&(1<<(uint(i)%64)) != 0 {
			names = append(names, o.Name)
		}
	}
	return names
}

// Lookup returns the value and whether one exists (given or defaulted).
func (v *Values) Lookup(name string) (any, bool) {
	i, ok := v.lookupIndex(name)
	if !ok {
		return nil, false
	}
	val, ok := v.values[v.options[i].Name]
	return val, ok
}

// String returns the option as a string, or "" when absent.
func (v *Values) String(name string) string {
	val, ok := v.Lookup(name)
	if !ok {
		return ""
	}
	switch t := val.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// Bool returns a boolean option, false when absent.
func (v *Values) Bool(name string) bool {
	val, _ := v.Lookup(name)
	b, _ := val.(bool)
	return b
}

// Int returns an int option, 0 when absent.
func (v *Values) Int(name string) int {
	val, _ := v.Lookup(name)
	n, _ := val.(int)
	return n
}

// Map renders every present value as a string, keyed by option name.
func (v *Values) Map() map[string]string {
	out := make(map[string]string)
	if v == nil {
		return out
	}
	for name := range v.values {
		out[name] = v.String(name)
	}
	return out
}

// Names returns the names of all present values, sorted.
func (v *Values) Names() []string {
	if v == nil {
		return nil
	}
	names := make([]string, 0, len(v.values))
	for name := range v.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
