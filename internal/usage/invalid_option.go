package usage

import "fmt"

// InvalidOption is returned when an option value cannot be coerced to its declared type.
func InvalidOption(option, value, reason string) *Error {
	return &Error{
		Kind:    ErrInvalidOption,
		Message: fmt.Sprintf("cmdr: invalid value '%s' for option '--%s': %s", value, option, reason),
	}
}

// InvalidArgument reports a positional argument whose value is not accepted.
func InvalidArgument(arg, value, reason string) *Error {
	return &Error{
		Kind:    ErrInvalidOption,
		Message: fmt.Sprintf("cmdr: invalid value '%s' for argument '%s': %s", value, arg, reason),
	}
}
