package shell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mbourmaud/failprint/internal/capture"
	"github.com/mbourmaud/failprint/internal/logger"
)

var (
	// ErrSpawn is returned when a command cannot be located or started
	ErrSpawn = errors.New("failed to spawn command")
	// ErrEmptyCommand is returned for requests without anything to run
	ErrEmptyCommand = errors.New("empty command")
)

// SpawnError reports a command that never ran. It is never turned into an
// exit code.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrSpawn, e.Command, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawn, e.Err}
}

// ProcessRequest describes a child process run through pipes
type ProcessRequest struct {
	// Shell is a command line for the system shell. Takes precedence over Argv.
	Shell string
	Argv  []string
	// UseShell runs Argv through the shell after quoting it
	UseShell bool
	Mode     capture.Mode
	// Input replaces the inherited standard input when not nil
	Input *string
}

// Display returns the command as it would be typed in a shell
func (r ProcessRequest) Display() string {
	if r.Shell != "" {
		return r.Shell
	}
	return Quote(r.Argv)
}

func (r ProcessRequest) command() (*exec.Cmd, error) {
	line := r.Shell
	if line == "" && r.UseShell {
		line = Quote(r.Argv)
	}
	if line != "" {
		return shellCommand(line), nil
	}
	if len(r.Argv) == 0 {
		return nil, &SpawnError{Err: ErrEmptyCommand}
	}
	return exec.Command(r.Argv[0], r.Argv[1:]...), nil
}

// ShellArgv returns the argument vector used to run line through the shell
func ShellArgv(line string) []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", line}
	}
	return []string{"sh", "-c", line}
}

func shellCommand(line string) *exec.Cmd {
	argv := ShellArgv(line)
	return exec.Command(argv[0], argv[1:]...)
}

// Runner executes child processes and reports their exit code and output
type Runner struct {
	Debug  bool
	Logger *logger.Logger
}

// NewRunner creates a new command runner
func NewRunner(debug bool) *Runner {
	return &Runner{Debug: debug, Logger: logger.Default()}
}

func (r *Runner) debugf(format string, args ...any) {
	if !r.Debug || r.Logger == nil {
		return
	}
	r.Logger.Debug(format, args...)
}

// RunProcess runs the request through pipes and blocks until the child exits.
// Stdout and Stderr modes discard the other stream; Both shares a single pipe
// so the original interleaving is kept.
func (r *Runner) RunProcess(req ProcessRequest) (int, string, error) {
	cmd, err := req.command()
	if err != nil {
		return 0, "", err
	}

	var out bytes.Buffer
	switch req.Mode {
	case capture.None:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	case capture.Both:
		cmd.Stdout = &out
		cmd.Stderr = &out
	case capture.Stdout:
		cmd.Stdout = &out
	case capture.Stderr:
		cmd.Stderr = &out
	default:
		return 0, "", &capture.InvalidModeError{Value: req.Mode.String()}
	}

	if req.Input != nil {
		cmd.Stdin = strings.NewReader(*req.Input)
	} else {
		cmd.Stdin = os.Stdin
	}

	r.debugf("executing (%s): %s", req.Mode, r.formatCommand(cmd))

	code, err := exitStatus(cmd, cmd.Run())
	if err != nil {
		return 0, "", &SpawnError{Command: req.Display(), Err: err}
	}

	r.debugf("exited with code %d: %s", code, r.formatCommand(cmd))
	return code, capture.Decode(out.Bytes()), nil
}

// exitStatus extracts the exit code of a finished command. Errors other than
// a non-zero exit mean the process never ran and are returned as is.
func exitStatus(cmd *exec.Cmd, runErr error) (int, error) {
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return 0, runErr
		}
	}
	if cmd.ProcessState == nil {
		return 0, runErr
	}
	if code, ok := signalCode(cmd.ProcessState); ok {
		return code, nil
	}
	return cmd.ProcessState.ExitCode(), nil
}

// formatCommand formats a command for display
func (r *Runner) formatCommand(cmd *exec.Cmd) string {
	parts := []string{cmd.Path}
	parts = append(parts, cmd.Args[1:]...)

	if cmd.Dir != "" {
		return fmt.Sprintf("(cd %s && %s)", cmd.Dir, Quote(parts))
	}

	return Quote(parts)
}
