// Package preflight probes the environment for what failprint relies on.
package preflight

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/mbourmaud/failprint/internal/format"
	"github.com/mbourmaud/failprint/internal/shell"
	"github.com/mbourmaud/failprint/internal/ui"
	"golang.org/x/term"
)

// CheckResult represents the result of a preflight check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// RunAllChecks runs all preflight checks and returns results
func RunAllChecks() []CheckResult {
	return []CheckResult{
		CheckShell(),
		CheckPTY(),
		CheckTempDir(),
		CheckFormat(),
		CheckTerminal(),
	}
}

// CheckShell verifies sh is available to run command strings
func CheckShell() CheckResult {
	result := CheckResult{Name: "Shell"}

	path, err := exec.LookPath("sh")
	if err != nil {
		result.Message = "sh not found in PATH, command strings cannot run"
		return result
	}

	result.Passed = true
	result.Message = path
	return result
}

var ptyProbe struct {
	once sync.Once
	err  error
}

func probePTY() error {
	if !shell.PTYSupported {
		return shell.ErrPTYUnavailable
	}
	ptmx, tty, err := pty.Open()
	if err != nil {
		return err
	}
	_ = tty.Close()
	_ = ptmx.Close()
	return nil
}

// PTYAvailable reports whether a pseudo-terminal can be allocated. The probe
// runs once per process.
func PTYAvailable() bool {
	ptyProbe.once.Do(func() {
		ptyProbe.err = probePTY()
	})
	return ptyProbe.err == nil
}

// CheckPTY verifies a pseudo-terminal can be allocated
func CheckPTY() CheckResult {
	result := CheckResult{Name: "Pseudo-terminal"}

	if !PTYAvailable() {
		result.Message = fmt.Sprintf("PTY unavailable, --pty will fall back to pipes: %v", ptyProbe.err)
		return result
	}

	result.Passed = true
	result.Message = "PTY allocation works"
	return result
}

// CheckTempDir verifies the capture backing files can be created
func CheckTempDir() CheckResult {
	result := CheckResult{Name: "Temporary directory"}

	f, err := os.CreateTemp("", "failprint-check-*")
	if err != nil {
		result.Message = fmt.Sprintf("Cannot create capture files: %v", err)
		return result
	}
	_ = f.Close()
	_ = os.Remove(f.Name()) // nolint:errcheck

	result.Passed = true
	result.Message = fmt.Sprintf("Capture files go to %s", os.TempDir())
	return result
}

// CheckFormat verifies the default format resolves
func CheckFormat() CheckResult {
	result := CheckResult{Name: "Default format"}

	name := format.DefaultName()
	if _, err := format.Resolve(name); err != nil {
		result.Message = fmt.Sprintf("%s is invalid: %v", format.EnvVar, err)
		return result
	}

	result.Passed = true
	result.Message = name
	return result
}

// CheckTerminal reports whether stdout is a terminal. It never fails.
func CheckTerminal() CheckResult {
	result := CheckResult{Name: "Terminal", Passed: true}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		result.Message = "stdout is not a terminal"
		return result
	}
	if cols, rows, err := term.GetSize(fd); err == nil {
		result.Message = fmt.Sprintf("stdout is a %dx%d terminal", cols, rows)
		return result
	}
	result.Message = "stdout is a terminal"
	return result
}

// PrintResults writes check results to w and reports whether all passed
func PrintResults(w io.Writer, results []CheckResult) bool {
	allPassed := true

	_, _ = fmt.Fprint(w, ui.Header("Preflight Checks"))

	for _, r := range results {
		status := ui.CheckMark("")
		if !r.Passed {
			status = ui.CrossMark("")
			allPassed = false
		}

		name := ui.StyleBold.Render(r.Name)
		message := ui.StyleDim.Render(r.Message)
		_, _ = fmt.Fprintf(w, "  %s %s: %s\n", status, name, message)
	}

	_, _ = fmt.Fprintln(w)
	return allPassed
}
