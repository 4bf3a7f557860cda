package shell

import (
	"errors"
	"strings"

	"github.com/mbourmaud/failprint/internal/capture"
)

var (
	// ErrPTYUnavailable is returned on platforms without pseudo-terminals
	ErrPTYUnavailable = errors.New("pseudo-terminals are not available on this platform")
	// ErrPTYMode is returned when a single stream is requested: a PTY only
	// delivers merged output
	ErrPTYMode = errors.New("pty runs can only capture both streams or none")
)

// WindowSize is the terminal size announced to the child
type WindowSize struct {
	Rows uint16
	Cols uint16
}

// PTYRequest describes a child process attached to a pseudo-terminal
type PTYRequest struct {
	Argv []string
	// Mode must be capture.Both or capture.None
	Mode  capture.Mode
	Input *string
	Size  *WindowSize
}

// SupportsPTY reports whether mode can be served by a PTY run
func SupportsPTY(mode capture.Mode) bool {
	return mode == capture.Both || mode == capture.None
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
