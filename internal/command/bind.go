package command

import (
	"strconv"
	"strings"

	"github.com/footprint-tools/cmdr/internal/usage"
)

// binding is the result of matching argv against a descriptor's schema.
type binding struct {
	values      *Values
	positionals []string
	named       map[string]string
	extra       []string
}

// bind splits args into options, positionals and pass-through flags.
// Required arguments are not checked when skipRequired is set.
func (d *Descriptor) bind(args []string, skipRequired bool) (*binding, error) {
	b := &binding{
		values: newValues(d.options),
		named:  make(map[string]string),
	}

	for i := 0; i < len(args); i++ {
		tok := args[i]

		switch {
		case tok == "--":
			b.positionals = append(b.positionals, args[i+1:]...)
			i = len(args)
			continue
		case tok == "-" || !strings.HasPrefix(tok, "-"):
			b.positionals = append(b.positionals, tok)
			continue
		}

		name, value, hasValue := strings.Cut(tok, "=")
		opt, negated := d.findOption(name)

		// -p3000 style
		if opt == nil && !strings.HasPrefix(tok, "--") && len(tok) > 2 {
			opt, _ = d.findOption(tok[:2])
			if opt != nil && opt.Type != Boolean {
				value, hasValue = tok[2:], true
			} else {
				opt = nil
			}
		}

		if opt == nil {
			b.extra = append(b.extra, tok)
			continue
		}

		if opt.Type == Boolean {
			val := !negated
			if hasValue {
				parsed, err := strconv.ParseBool(value)
				if err != nil {
					return nil, usage.InvalidOption(flagName(opt.Name), value, "expected true or false")
				}
				val = parsed != negated
			}
			b.values.Set(opt.Name, val)
			continue
		}

		if negated {
			b.extra = append(b.extra, tok)
			continue
		}

		if !hasValue {
			if i+1 >= len(args) {
				return nil, usage.InvalidOption(flagName(opt.Name), "", "a value is required")
			}
			i++
			value = args[i]
		}

		coerced, err := coerce(*opt, value)
		if err != nil {
			return nil, err
		}
		b.values.Set(opt.Name, coerced)
	}

	for i, opt := range d.options {
		if b.values.IsSet(opt.Name) {
			continue
		}
		if opt.Default != "" {
			coerced, err := coerce(opt, opt.Default)
			if err != nil {
				return nil, err
			}
			b.values.setDefault(i, coerced)
			continue
		}
		if opt.Required && !skipRequired {
			return nil, usage.MissingOption(flagName(opt.Name))
		}
	}

	for i, arg := range d.arguments {
		if i < len(b.positionals) {
			b.named[arg.Name] = b.positionals[i]
			continue
		}
		if !arg.Optional && !skipRequired {
			return nil, usage.MissingArgument(arg.Name, d.Banner())
		}
	}

	return b, nil
}

// findOption matches a flag against declared options, including --no-<name>
// for booleans.
func (d *Descriptor) findOption(flag string) (*Option, bool) {
	for i := range d.options {
		if d.options[i].matches(flag) {
			return &d.options[i], false
		}
	}
	if rest, ok := strings.CutPrefix(flag, "--no-"); ok {
		for i := range d.options {
			if d.options[i].Type == Boolean && d.options[i].matches("--"+rest) {
				return &d.options[i], true
			}
		}
	}
	return nil, false
}

func coerce(opt Option, raw string) (any, error) {
	switch opt.Type {
	case Int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, usage.InvalidOption(flagName(opt.Name), raw, "expected an integer")
		}
		return n, nil
	case Boolean:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, usage.InvalidOption(flagName(opt.Name), raw, "expected true or false")
		}
		return v, nil
	case Enum:
		for _, allowed := range opt.Enum {
			if raw == allowed {
				return raw, nil
			}
		}
		return nil, usage.InvalidOption(flagName(opt.Name), raw, "expected one of: "+strings.Join(opt.Enum, ", "))
	default:
		return raw, nil
	}
}
