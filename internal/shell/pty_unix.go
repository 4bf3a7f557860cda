//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package shell

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/mbourmaud/failprint/internal/capture"
)

// PTYSupported reports whether this build can drive pseudo-terminals
const PTYSupported = true

// RunPTY runs the request on the slave side of a new pseudo-terminal and
// reads the master side until the child closes it. Output is merged, with
// CRLF line endings normalized to LF.
func (r *Runner) RunPTY(req PTYRequest) (int, string, error) {
	if len(req.Argv) == 0 {
		return 0, "", &SpawnError{Err: ErrEmptyCommand}
	}
	if !SupportsPTY(req.Mode) {
		return 0, "", ErrPTYMode
	}

	ptmx, tty, err := pty.Open()
	if err != nil {
		return 0, "", fmt.Errorf("failed to open pty: %w", err)
	}
	defer ptmx.Close()
	ttyOpen := true
	defer func() {
		if ttyOpen {
			_ = tty.Close()
		}
	}()

	if req.Size != nil {
		if err := pty.Setsize(ptmx, &pty.Winsize{Rows: req.Size.Rows, Cols: req.Size.Cols}); err != nil {
			return 0, "", fmt.Errorf("failed to set pty size: %w", err)
		}
	}

	var eof byte
	if req.Input != nil {
		// echo goes off before the child starts so the input never shows up
		// in the output
		if eof, err = disableEcho(tty); err != nil {
			return 0, "", err
		}
	}

	cmd := exec.Command(req.Argv[0], req.Argv[1:]...)
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	r.debugf("executing (pty, %s): %s", req.Mode, r.formatCommand(cmd))

	if err := cmd.Start(); err != nil {
		return 0, "", &SpawnError{Command: Quote(req.Argv), Err: err}
	}
	_ = tty.Close()
	ttyOpen = false

	if req.Input != nil {
		if _, err := io.WriteString(ptmx, *req.Input); err != nil {
			r.debugf("failed to write pty input: %v", err)
		}
		// one end-of-input is not always enough when the text does not end
		// with a newline: the first one only flushes the pending line
		_, _ = ptmx.Write([]byte{eof})
		_, _ = ptmx.Write([]byte{eof})
	}

	var out bytes.Buffer
	var sink io.Writer = &out
	if req.Mode == capture.None {
		sink = os.Stdout
	}
	chunk := make([]byte, 4096)
	for {
		n, err := ptmx.Read(chunk)
		if n > 0 {
			_, _ = sink.Write(chunk[:n])
		}
		// EIO on linux, EOF elsewhere: the slave side is gone
		if err != nil {
			break
		}
	}

	code, err := exitStatus(cmd, cmd.Wait())
	if err != nil {
		return 0, "", fmt.Errorf("failed to wait for %s: %w", Quote(req.Argv), err)
	}

	r.debugf("exited with code %d: %s", code, r.formatCommand(cmd))
	return code, normalizeNewlines(capture.Decode(out.Bytes())), nil
}

// disableEcho turns local echo off on the terminal, confirms the change took
// effect and returns the end-of-input character
func disableEcho(tty *os.File) (byte, error) {
	fd := int(tty.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return 0, fmt.Errorf("failed to read pty attributes: %w", err)
	}

	termios.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, termios); err != nil {
		return 0, fmt.Errorf("failed to disable pty echo: %w", err)
	}

	check, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return 0, fmt.Errorf("failed to read pty attributes: %w", err)
	}
	if check.Lflag&unix.ECHO != 0 {
		return 0, fmt.Errorf("pty echo is still enabled")
	}

	eof := check.Cc[unix.VEOF]
	if eof == 0 {
		eof = 0x04
	}
	return eof, nil
}
