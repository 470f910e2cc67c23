package command

import (
	"errors"
	"fmt"
)

type outcomeKind int

const (
	outcomeContinue outcomeKind = iota
	outcomeHalt
	outcomeFail
)

// Outcome is what a before-hook returns: keep going, stop quietly, or fail.
type Outcome struct {
	kind    outcomeKind
	Code    int
	Message string
}

// Continue lets the chain proceed to the next hook.
var Continue = Outcome{kind: outcomeContinue}

// Halt stops the chain and skips perform. The dispatch succeeds.
var Halt = Outcome{kind: outcomeHalt}

// Fail stops the chain with a non-zero exit code and a message.
func Fail(code int, format string, args ...any) Outcome {
	if code == 0 {
		code = 1
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Outcome{kind: outcomeFail, Code: code, Message: msg}
}

func (o Outcome) IsContinue() bool { return o.kind == outcomeContinue }
func (o Outcome) IsHalt() bool     { return o.kind == outcomeHalt }
func (o Outcome) IsFail() bool     { return o.kind == outcomeFail }

func (o Outcome) String() string {
	switch o.kind {
	case outcomeHalt:
		return "halt"
	case outcomeFail:
		return fmt.Sprintf("fail(%d)", o.Code)
	default:
		return "continue"
	}
}

// ErrHalt can be returned from a perform function to stop silently.
var ErrHalt = errors.New("command: halt")

// HookFunc is a before-hook action.
type HookFunc func(c *Context) Outcome

// Guard decides whether a hook runs.
type Guard func(c *Context) bool

// Hook is one guarded entry of a before-command chain.
type Hook struct {
	Name string
	If   Guard
	Run  HookFunc
}

func (h Hook) applies(c *Context) bool {
	return h.If == nil || h.If(c)
}

// Only is a guard that limits a hook to the named entries of a command table.
func Only(names ...string) Guard {
	return func(c *Context) bool {
		for _, n := range names {
			if c.Command == n {
				return true
			}
		}
		return false
	}
}

// Except is the inverse of Only.
func Except(names ...string) Guard {
	only := Only(names...)
	return func(c *Context) bool { return !only(c) }
}
