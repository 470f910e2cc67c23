package command

import (
	"fmt"
	"strings"
)

// Type is the declared value type of an option.
type Type int

const (
	String Type = iota
	Boolean
	Enum
	Int
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Enum:
		return "enum"
	case Int:
		return "int"
	default:
		return "unknown"
	}
}

// ParseType maps a manifest type tag to a Type. Empty means String.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string":
		return String, nil
	case "bool", "boolean":
		return Boolean, nil
	case "enum":
		return Enum, nil
	case "int", "integer", "numeric":
		return Int, nil
	default:
		return String, fmt.Errorf("unknown option type %q", s)
	}
}

// Option is a declared named option (--port, -p).
type Option struct {
	Name        string
	Type        Type
	Default     string // coerced per Type; empty means no default
	Aliases     []string
	Enum        []string
	Required    bool
	Description string
	Banner      string // value placeholder in help, e.g. "port" or "IP"
	Hidden      bool
}

// Argument is a declared positional argument. Arguments are required unless Optional.
type Argument struct {
	Name        string
	Description string
	Optional    bool
}

// flagName is the canonical long form: dashes, no underscores.
func flagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

func (o Option) long() string {
	return "--" + flagName(o.Name)
}

// Flags returns the long form followed by the aliases.
func (o Option) Flags() []string {
	return append([]string{o.long()}, o.Aliases...)
}

// matches reports whether flag (e.g. "--port", "-p") names this option.
func (o Option) matches(flag string) bool {
	if flag == o.long() || flag == "--"+o.Name {
		return true
	}
	for _, a := range o.Aliases {
		if flag == a {
			return true
		}
	}
	return false
}

// shortAlias returns the first single-dash alias ("-p"), if any.
func (o Option) shortAlias() string {
	for _, a := range o.Aliases {
		if len(a) == 2 && a[0] == '-' && a[1] != '-' {
			return a
		}
	}
	return ""
}

func (a Argument) usageToken() string {
	token := strings.ToUpper(flagName(a.Name))
	token = strings.ReplaceAll(token, "-", "_")
	if a.Optional {
		return "[" + token + "]"
	}
	return token
}
