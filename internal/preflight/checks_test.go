package preflight

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mbourmaud/failprint/internal/format"
	"github.com/mbourmaud/failprint/internal/shell"
)

func TestCheckShell(t *testing.T) {
	result := CheckShell()
	if result.Name != "Shell" {
		t.Errorf("expected name 'Shell', got '%s'", result.Name)
	}
	if !result.Passed {
		t.Errorf("expected sh to be found: %s", result.Message)
	}
}

func TestCheckShell_EmptyPath(t *testing.T) {
	t.Setenv("PATH", "")

	result := CheckShell()
	if result.Passed {
		t.Error("expected check to fail without PATH")
	}
}

func TestPTYAvailable(t *testing.T) {
	// Stable across calls
	first := PTYAvailable()
	if PTYAvailable() != first {
		t.Error("expected cached probe result")
	}
	if !shell.PTYSupported && first {
		t.Error("PTY cannot be available on this platform")
	}

	result := CheckPTY()
	if result.Passed != first {
		t.Errorf("CheckPTY disagrees with PTYAvailable: %+v", result)
	}
}

func TestCheckTempDir(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	result := CheckTempDir()
	if !result.Passed {
		t.Errorf("expected check to pass, got: %s", result.Message)
	}
}

func TestCheckFormat(t *testing.T) {
	t.Setenv(format.EnvVar, "")
	result := CheckFormat()
	if !result.Passed || result.Message != "pretty" {
		t.Errorf("expected pretty to pass, got %+v", result)
	}

	t.Setenv(format.EnvVar, "xml")
	result = CheckFormat()
	if result.Passed {
		t.Error("expected unknown format to fail")
	}
	if !strings.Contains(result.Message, format.EnvVar) {
		t.Errorf("expected message to name %s, got %s", format.EnvVar, result.Message)
	}
}

func TestCheckTerminal(t *testing.T) {
	result := CheckTerminal()
	if !result.Passed {
		t.Error("terminal check should never fail")
	}
	if result.Message == "" {
		t.Error("expected a message")
	}
}

func TestRunAllChecks(t *testing.T) {
	results := RunAllChecks()
	if len(results) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(results))
	}
	for _, r := range results {
		if r.Name == "" {
			t.Error("every check needs a name")
		}
	}
}

func TestPrintResults(t *testing.T) {
	results := []CheckResult{
		{Name: "Check 1", Passed: true, Message: "OK"},
		{Name: "Check 2", Passed: true, Message: "OK"},
	}

	var buf bytes.Buffer
	allPassed := PrintResults(&buf, results)
	if !allPassed {
		t.Error("expected all checks to pass")
	}
	if !strings.Contains(buf.String(), "Check 1") || !strings.Contains(buf.String(), "Preflight Checks") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	results = append(results, CheckResult{Name: "Check 3", Passed: false, Message: "Failed"})
	buf.Reset()
	allPassed = PrintResults(&buf, results)
	if allPassed {
		t.Error("expected some checks to fail")
	}
	if !strings.Contains(buf.String(), "Failed") {
		t.Errorf("expected failure message, got: %s", buf.String())
	}
}
