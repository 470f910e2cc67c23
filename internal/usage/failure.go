package usage

// ExternalUnavailable is returned when a process a command wants to launch
// (a server backend, an editor, a database console) cannot be found.
func ExternalUnavailable(message string) *Error {
	return &Error{
		Kind:    ErrExternalUnavailable,
		Message: message,
	}
}

// CommandFailed is returned when a hook or a command terminates on purpose.
// A zero code falls back to the kind's default exit code.
func CommandFailed(code int, message string) *Error {
	return &Error{
		Kind:     ErrCommandFailed,
		Message:  message,
		ExitCode: code,
	}
}

// InvalidConfigKey is returned for configuration keys that are not declared.
func InvalidConfigKey(key string) *Error {
	return &Error{
		Kind:    ErrInvalidConfigKey,
		Message: "cmdr: unknown config key '" + key + "'. See 'cmdr config:list'.",
	}
}
