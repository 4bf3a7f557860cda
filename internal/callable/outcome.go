// Package callable runs in-process functions under the same contract as child
// processes: output is captured at the descriptor level and whatever the
// function returns, panics with or fails with is turned into an exit code.
package callable

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Kwarg is a named argument. Order is kept for display.
type Kwarg struct {
	Key   string
	Value any
}

// Kwargs is an ordered list of named arguments
type Kwargs []Kwarg

// Get returns the value of the first argument named key
func (k Kwargs) Get(key string) (any, bool) {
	for _, kw := range k {
		if kw.Key == key {
			return kw.Value, true
		}
	}
	return nil, false
}

// Func is an in-process command
type Func func(args []any, kwargs Kwargs) Outcome

type outcomeKind int

const (
	kindOk outcomeKind = iota
	kindTerminated
	kindFailed
)

// Outcome is what a Func produced: a value, a controlled termination or a failure
type Outcome struct {
	kind  outcomeKind
	value any
	err   error
	stack []byte
}

// Ok wraps a returned value
func Ok(value any) Outcome {
	return Outcome{kind: kindOk, value: value}
}

// Terminated reports a deliberate exit, with an optional code or message
func Terminated(payload any) Outcome {
	return Outcome{kind: kindTerminated, value: payload}
}

// Failed reports an error. The stack of the caller is recorded with it.
func Failed(err error) Outcome {
	return Outcome{kind: kindFailed, err: err, stack: debug.Stack()}
}

// IsOk reports whether the outcome carries a value
func (o Outcome) IsOk() bool { return o.kind == kindOk }

// IsTerminated reports whether the outcome is a controlled termination
func (o Outcome) IsTerminated() bool { return o.kind == kindTerminated }

// IsFailed reports whether the outcome is a failure
func (o Outcome) IsFailed() bool { return o.kind == kindFailed }

// Value returns the value of an Ok outcome or the payload of a termination
func (o Outcome) Value() any { return o.value }

// Err returns the error of a failed outcome
func (o Outcome) Err() error { return o.err }

// Stack returns the goroutine stack recorded when the failure was reported
func (o Outcome) Stack() []byte {
	var panicErr *PanicError
	if errors.As(o.err, &panicErr) {
		return panicErr.Stack
	}
	return o.stack
}

// Termination is the payload of Exit. Returned as an error from a Func it has
// the same effect as a Terminated outcome.
type Termination struct {
	Payload any
}

func (t *Termination) Error() string {
	if t.Payload == nil {
		return "exit"
	}
	return fmt.Sprintf("exit: %v", t.Payload)
}

// Exit stops the running Func, like os.Exit but only up to the callable
// boundary. payload may be nil, an integer code or anything printable.
func Exit(payload any) {
	panic(&Termination{Payload: payload})
}

// ErrNilFunc is reported when there is no function to call
var ErrNilFunc = errors.New("nil callable")

// PanicError is a recovered panic together with the stack where it happened
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panicked error value
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// FromError adapts a plain function: a nil error is success, anything else a failure
func FromError(fn func() error) Func {
	return func([]any, Kwargs) Outcome {
		if err := fn(); err != nil {
			return Failed(err)
		}
		return Ok(nil)
	}
}

// FromValue adapts a function returning a single value
func FromValue(fn func() any) Func {
	return func([]any, Kwargs) Outcome {
		return Ok(fn())
	}
}
