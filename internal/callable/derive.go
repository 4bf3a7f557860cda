package callable

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"runtime/debug"
	"strconv"
	"strings"
)

// Truther lets a value decide whether it counts as success
type Truther interface {
	Truth() bool
}

// Coder is implemented by values that already carry an exit code, such as
// *exec.ExitError and *os.ProcessState
type Coder interface {
	ExitCode() int
}

func invoke(fn Func, args []any, kwargs Kwargs) (outcome Outcome) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if term, ok := r.(*Termination); ok {
			outcome = Terminated(term.Payload)
			return
		}
		outcome = Failed(&PanicError{Value: r, Stack: debug.Stack()})
	}()

	if fn == nil {
		return Failed(ErrNilFunc)
	}
	return fn(args, kwargs)
}

// Derive turns an outcome into an exit code. Termination messages and failure
// traces are written to stderr. A returned *Call is invoked in turn, in a
// loop, until a final outcome is reached.
func Derive(outcome Outcome, stderr io.Writer) int {
	for {
		switch outcome.kind {
		case kindTerminated:
			return terminationCode(outcome.value, stderr)

		case kindFailed:
			var term *Termination
			if errors.As(outcome.err, &term) {
				return terminationCode(term.Payload, stderr)
			}
			writeFailure(outcome.err, outcome.Stack(), stderr)
			return 1

		default:
			if call, ok := outcome.value.(*Call); ok && call != nil {
				outcome = call.Invoke()
				continue
			}
			return safeValueCode(outcome.value, stderr)
		}
	}
}

// safeValueCode guards against Truth or ExitCode methods that panic
func safeValueCode(value any, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			writeFailure(&PanicError{Value: r, Stack: stack}, stack, stderr)
			code = 1
		}
	}()
	return valueCode(value)
}

func terminationCode(payload any, stderr io.Writer) int {
	if payload == nil {
		return 0
	}
	if code, ok := integer(payload); ok {
		return code
	}
	_, _ = fmt.Fprintln(stderr, payload)
	return 1
}

// writeFailure prints the error followed by the stack it was recorded with
func writeFailure(err error, stack []byte, stderr io.Writer) {
	if err == nil {
		err = errors.New("unknown failure")
	}
	if len(stack) == 0 {
		stack = debug.Stack()
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		_, _ = fmt.Fprintf(stderr, "%s\n\n%s\n", panicErr.Error(), stack)
		return
	}
	_, _ = fmt.Fprintf(stderr, "Error: %v\n\n%s\n", err, stack)
}

// valueCode maps a returned value to an exit code: booleans first, then
// integer coercion, then truthiness
func valueCode(value any) int {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return 1
	}

	switch v := value.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 0
		}
		return 1
	case Coder:
		return v.ExitCode()
	}

	if code, ok := coerce(value); ok {
		return code
	}
	if truthy(value) {
		return 0
	}
	return 1
}

// integer accepts any Go integer kind. Values that do not fit in an int are
// clamped, so they never wrap to zero or change sign.
func integer(value any) (int, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		switch {
		case n > math.MaxInt:
			return math.MaxInt, true
		case n < math.MinInt:
			return math.MinInt, true
		}
		return int(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n := v.Uint(); n <= math.MaxInt {
			return int(n), true
		}
		return math.MaxInt, true
	default:
		return 0, false
	}
}

// coerce extends integer with truncated floats and numeric strings
func coerce(value any) (int, bool) {
	if code, ok := integer(value); ok {
		return code, true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		switch {
		case math.IsNaN(f):
			return 0, false
		case f >= math.MaxInt:
			return math.MaxInt, true
		case f <= math.MinInt:
			return math.MinInt, true
		}
		return int(f), true
	case reflect.String:
		code, err := strconv.Atoi(strings.TrimSpace(v.String()))
		if err != nil {
			return 0, false
		}
		return code, true
	default:
		return 0, false
	}
}

func truthy(value any) bool {
	if t, ok := value.(Truther); ok {
		return t.Truth()
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Invalid:
		return false
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return v.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return !v.IsNil()
	case reflect.Complex64, reflect.Complex128:
		return v.Complex() != 0
	default:
		return true
	}
}
