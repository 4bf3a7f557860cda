package ui

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// DefaultStdio returns the process terminal stdio
func DefaultStdio() terminal.Stdio {
	return terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// PromptSelectWithStdio asks for one of options, preselecting current when it
// is one of them
func PromptSelectWithStdio(label string, options []string, current string, stdio terminal.Stdio) (string, error) {
	var value string
	prompt := &survey.Select{
		Message: label,
		Options: options,
	}
	for _, option := range options {
		if option == current {
			prompt.Default = current
			break
		}
	}

	err := survey.AskOne(prompt, &value, survey.WithStdio(stdio.In, stdio.Out, stdio.Err))
	return value, err
}

// PromptConfirmWithStdio asks a yes/no question
func PromptConfirmWithStdio(label string, defaultYes bool, stdio terminal.Stdio) (bool, error) {
	var value bool
	prompt := &survey.Confirm{
		Message: label,
		Default: defaultYes,
	}

	err := survey.AskOne(prompt, &value, survey.WithStdio(stdio.In, stdio.Out, stdio.Err))
	return value, err
}
