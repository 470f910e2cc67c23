package usage

// ErrorKind represents the type of usage error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrInvalidOption
	ErrMissingArgument
	ErrMissingOption
	ErrUnknownCommand
	ErrExternalUnavailable
	ErrCommandFailed
	ErrInvalidConfigKey
)

// Exit codes:
//
//	Exit 1: Environment/system errors
//	  - Unknown errors
//	  - Unknown command
//	  - External process unavailable
//	  - Command failed
//	  - Invalid config key
//
//	Exit 2: User input errors
//	  - Invalid option value
//	  - Missing argument
//	  - Missing option
var exitCodes = map[ErrorKind]int{
	ErrUnknown:             1,
	ErrInvalidOption:       2,
	ErrMissingArgument:     2,
	ErrMissingOption:       2,
	ErrUnknownCommand:      1,
	ErrExternalUnavailable: 1,
	ErrCommandFailed:       1,
	ErrInvalidConfigKey:    1,
}

// Error represents a user-facing usage error with semantic type information.
type Error struct {
	Kind     ErrorKind
	Message  string
	ExitCode int // overrides the code derived from Kind when non-zero
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// GetExitCode returns the appropriate exit code for this error.
// If ExitCode is explicitly set, it is returned; otherwise, the code is derived from Kind.
func (e *Error) GetExitCode() int {
	if e.ExitCode != 0 {
		return e.ExitCode
	}
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return 1
}

// Verify Error implements the error interface.
var _ error = (*Error)(nil)
