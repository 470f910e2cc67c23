package usage

import "fmt"

// MissingArgument is returned when a required positional argument is not provided.
// The usage line, when non-empty, is appended so the user sees the expected shape.
func MissingArgument(arg, usageLine string) *Error {
	msg := fmt.Sprintf("cmdr: missing required argument '%s'", arg)
	if usageLine != "" {
		msg += "\nUsage: " + usageLine
	}
	return &Error{
		Kind:    ErrMissingArgument,
		Message: msg,
	}
}

// MissingOption is returned when a required option is not provided.
func MissingOption(option string) *Error {
	return &Error{
		Kind:    ErrMissingOption,
		Message: fmt.Sprintf("cmdr: missing required option '--%s'", option),
	}
}
