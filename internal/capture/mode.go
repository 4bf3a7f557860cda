// Package capture redirects the process standard output and error streams at
// the file descriptor level, so that everything written by the current
// process and by any child it spawns can be collected.
package capture

import (
	"errors"
	"fmt"
)

// Mode selects which of stdout/stderr a run captures
type Mode int

const (
	// Both merges stdout and stderr into a single stream
	Both Mode = iota
	Stdout
	Stderr
	None
)

// ErrInvalidMode is returned when a value cannot be cast to a Mode
var ErrInvalidMode = errors.New("invalid capture mode")

// InvalidModeError reports the offending value
type InvalidModeError struct {
	Value string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("%s %q (expected one of stdout, stderr, both, none)", ErrInvalidMode, e.Value)
}

func (e *InvalidModeError) Unwrap() error {
	return ErrInvalidMode
}

var modeNames = map[Mode]string{
	Stdout: "stdout",
	Stderr: "stderr",
	Both:   "both",
	None:   "none",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Names returns the accepted mode names, in a stable order
func Names() []string {
	return []string{"stdout", "stderr", "both", "none"}
}

// Parse matches s exactly against the known mode names
func Parse(s string) (Mode, error) {
	for mode, name := range modeNames {
		if name == s {
			return mode, nil
		}
	}
	return None, &InvalidModeError{Value: s}
}

// Cast normalizes a loosely typed value into a Mode.
//
// nil and true mean Both, false means None, a Mode is returned as is and a
// string must be one of the mode names.
func Cast(value any) (Mode, error) {
	switch v := value.(type) {
	case nil:
		return Both, nil
	case bool:
		if v {
			return Both, nil
		}
		return None, nil
	case Mode:
		if _, ok := modeNames[v]; !ok {
			return None, &InvalidModeError{Value: v.String()}
		}
		return v, nil
	case string:
		return Parse(v)
	default:
		return None, &InvalidModeError{Value: fmt.Sprintf("%v", v)}
	}
}

// Redirects reports whether the mode touches any file descriptor
func (m Mode) Redirects() bool {
	return m != None
}

// Wants reports which streams end up in the captured output
func (m Mode) Wants() (stdout, stderr bool) {
	switch m {
	case Both:
		return true, true
	case Stdout:
		return true, false
	case Stderr:
		return false, true
	default:
		return false, false
	}
}
