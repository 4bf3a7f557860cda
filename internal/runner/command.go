// Package runner runs one command, external or in-process, and reports it
// through a format: an optional progress line, then a result line that shows
// the captured output only on failure.
package runner

import (
	"errors"
	"fmt"

	"github.com/mbourmaud/failprint/internal/callable"
	"github.com/mbourmaud/failprint/internal/shell"
)

// Kind discriminates the variants of Command
type Kind int

const (
	// KindShell is a command line run through the system shell
	KindShell Kind = iota
	// KindArgv is an argument vector run without a shell
	KindArgv
	// KindCallable is a function whose arguments come from Options
	KindCallable
	// KindDeferred is a function already bound to its arguments
	KindDeferred
)

func (k Kind) String() string {
	switch k {
	case KindShell:
		return "shell"
	case KindArgv:
		return "argv"
	case KindCallable:
		return "callable"
	case KindDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrInvalidCommand is returned for commands that cannot be run at all
var ErrInvalidCommand = errors.New("invalid command")

// Command is what a run executes. Build it with Shell, Argv, Callable or
// Deferred; only the fields of its Kind are meaningful.
type Command struct {
	Kind Kind

	Line string
	Argv []string

	Name string
	Fn   callable.Func

	Call *callable.Call
}

// Shell runs line through sh -c
func Shell(line string) Command {
	return Command{Kind: KindShell, Line: line}
}

// Argv runs an argument vector directly
func Argv(argv ...string) Command {
	return Command{Kind: KindArgv, Argv: argv}
}

// Callable runs fn in-process. An empty name uses the declared function name.
func Callable(name string, fn callable.Func) Command {
	return Command{Kind: KindCallable, Name: name, Fn: fn}
}

// Deferred runs a bound call in-process
func Deferred(call *callable.Call) Command {
	return Command{Kind: KindDeferred, Call: call}
}

// IsProcess reports whether the command spawns a child process
func (c Command) IsProcess() bool {
	return c.Kind == KindShell || c.Kind == KindArgv
}

// Validate checks that the fields of the command kind are set
func (c Command) Validate() error {
	switch c.Kind {
	case KindShell:
		if c.Line == "" {
			return fmt.Errorf("%w: empty command line", ErrInvalidCommand)
		}
	case KindArgv:
		if len(c.Argv) == 0 {
			return fmt.Errorf("%w: empty argument vector", ErrInvalidCommand)
		}
	case KindCallable:
		if c.Fn == nil {
			return fmt.Errorf("%w: nil function", ErrInvalidCommand)
		}
	case KindDeferred:
		if c.Call == nil || c.Call.Fn == nil {
			return fmt.Errorf("%w: nil deferred call", ErrInvalidCommand)
		}
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidCommand, c.Kind)
	}
	return nil
}

// Display renders the command as a shell command line or a call statement.
// args and kwargs are those a KindCallable command will receive.
func (c Command) Display(args []any, kwargs callable.Kwargs) string {
	switch c.Kind {
	case KindShell:
		return c.Line
	case KindArgv:
		return shell.Quote(c.Argv)
	case KindCallable:
		name := c.Name
		if name == "" {
			name = callable.Name(c.Fn)
		}
		return callable.Statement(name, args, kwargs)
	case KindDeferred:
		if c.Call == nil {
			return ""
		}
		return c.Call.String()
	default:
		return ""
	}
}
