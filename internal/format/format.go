// Package format holds the named presentation formats used to print progress
// and result lines, and renders them with text/template.
package format

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

const (
	// EnvVar overrides the default format name
	EnvVar = "FAILPRINT_FORMAT"
	// DefaultFormat is used when neither a flag nor EnvVar names a format
	DefaultFormat = "pretty"

	customPrefix = "custom="
	customName   = "custom"
)

// ErrUnknownFormat is returned when a format name is not registered
var ErrUnknownFormat = errors.New("unknown format")

// UnknownFormatError reports the offending name
type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s %q (available: %s, or custom=TEMPLATE)", ErrUnknownFormat, e.Name, strings.Join(Names(), ", "))
}

func (e *UnknownFormatError) Unwrap() error {
	return ErrUnknownFormat
}

// Format describes how a run is presented
type Format struct {
	Name             string
	Template         string
	ProgressTemplate string
	// AcceptANSI means the format can display escape sequences, which
	// allows running commands in a PTY.
	AcceptANSI bool
}

// HasProgress reports whether the format prints a progress line
func (f *Format) HasProgress() bool {
	return f.ProgressTemplate != ""
}

var builtins = map[string]Format{
	"pretty": {
		Name: "pretty",
		Template: `{{if .success}}{{green "✓"}}{{else if .nofail}}{{yellow "✗"}}{{else}}{{red "✗"}}{{end}} ` +
			`{{bold (or .title .command)}}` +
			`{{if .failure}} ({{.code}}){{end}}` +
			`{{if and .failure .output (not .quiet)}}` + "\n" +
			`{{if and .title .command}}  > {{.command}}` + "\n" + `{{end}}` +
			`{{indent "  " .output}}{{end}}`,
		ProgressTemplate: `> {{or .title .command}}`,
		AcceptANSI:       true,
	},
	"tap": {
		Name: "tap",
		Template: `{{if .failure}}not {{end}}ok {{.number}} - {{or .title .command}}` +
			`{{if and .failure .output}}` + "\n  ---\n  " +
			`{{if and .title .command}}command: {{.command}}` + "\n  " + `{{end}}` +
			"output: |\n" + `{{indent "    " .output}}` + "\n  ...{{end}}",
	},
}

// Names returns the built-in format names, sorted
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns a built-in format
func Get(name string) (*Format, bool) {
	f, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return &f, true
}

// Resolve returns the format for name. A name of the form custom=TEMPLATE
// builds a format from the given result template, without progress line.
func Resolve(name string) (*Format, error) {
	if tpl, ok := strings.CutPrefix(name, customPrefix); ok {
		f := &Format{Name: customName, Template: tpl}
		if _, err := parse(customName, tpl); err != nil {
			return nil, fmt.Errorf("invalid custom format: %w", err)
		}
		return f, nil
	}

	f, ok := Get(name)
	if !ok {
		return nil, &UnknownFormatError{Name: name}
	}
	return f, nil
}

// DefaultName returns the format named by the environment, or DefaultFormat
func DefaultName() string {
	if name := strings.TrimSpace(os.Getenv(EnvVar)); name != "" {
		return name
	}
	return DefaultFormat
}

// Default resolves DefaultName
func Default() (*Format, error) {
	return Resolve(DefaultName())
}
