//go:build !windows

package cmd

import (
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/mbourmaud/failprint/internal/format"
	"github.com/mbourmaud/failprint/internal/testutil"
)

func TestRoot_ProgressLineIsOverwritten(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(format.EnvVar, "")

	var screen string
	testutil.RunPromptTest(t,
		func(c testutil.ExpectConsole) {
			c.ExpectString("✓")
			c.ExpectEOF()
			screen = c.Screen()
		},
		func(stdio terminal.Stdio) error {
			root, _ := NewRootCmd()
			root.SetOut(stdio.Out)
			root.SetErr(stdio.Err)
			root.SetArgs([]string{"-p", "-t", "Step", "true"})
			return root.Execute()
		},
	)

	lines := strings.Split(screen, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " ") != "✓ Step" {
		t.Errorf("expected the result line to replace the progress line, got %q", screen)
	}
	if strings.Contains(screen, "> Step") {
		t.Errorf("progress line left on screen: %q", screen)
	}
}
