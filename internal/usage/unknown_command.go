package usage

import (
	"fmt"
	"strings"
)

// UnknownCommand is returned when neither a registered command nor a task matches.
func UnknownCommand(command string, suggestions ...string) *Error {
	msg := fmt.Sprintf("cmdr: '%s' is not a cmdr command. See 'cmdr help'.", command)
	if len(suggestions) > 0 {
		msg += "\n\nThe most similar commands are:\n\t" + strings.Join(suggestions, "\n\t")
	}
	return &Error{
		Kind:    ErrUnknownCommand,
		Message: msg,
	}
}
