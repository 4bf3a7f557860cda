package format

import (
	"strings"
	"text/template"

	"github.com/charmbracelet/x/ansi"
	"github.com/mbourmaud/failprint/internal/ui"
)

// Vars are the values a result template can use. They are exposed to the
// template as the keys title, command, code, success, failure, number,
// output, nofail, quiet and silent.
type Vars struct {
	Title   string
	Command string
	Code    int
	Number  int
	Output  string
	NoFail  bool
	Quiet   bool
	Silent  bool
}

// Map returns the template data
func (v Vars) Map() map[string]any {
	return map[string]any{
		"title":   v.Title,
		"command": v.Command,
		"code":    v.Code,
		"success": v.Code == 0,
		"failure": v.Code != 0,
		"number":  v.Number,
		"output":  v.Output,
		"nofail":  v.NoFail,
		"quiet":   v.Quiet,
		"silent":  v.Silent,
	}
}

var funcs = template.FuncMap{
	"indent": func(prefix, text string) string { return ui.Indent(text, prefix) },
	"green":  func(s string) string { return ui.StyleGreen.Render(s) },
	"red":    func(s string) string { return ui.StyleRed.Render(s) },
	"yellow": func(s string) string { return ui.StyleYellow.Render(s) },
	"bold":   func(s string) string { return ui.StyleBold.Render(s) },
	"strip":  ansi.Strip,
}

func parse(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(funcs).Parse(text)
}

func execute(name, text string, data map[string]any) (string, error) {
	tpl, err := parse(name, text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Render executes a result template with vars
func Render(text string, vars Vars) (string, error) {
	return execute("result", text, vars.Map())
}

// RenderResult renders the result line of f. Escape sequences in the output
// are removed when the format does not accept them.
func (f *Format) RenderResult(vars Vars) (string, error) {
	if !f.AcceptANSI {
		vars.Output = ansi.Strip(vars.Output)
	}
	return execute(f.Name, f.Template, vars.Map())
}

// RenderProgress renders the progress line of f, or "" when it has none
func (f *Format) RenderProgress(title, command string) (string, error) {
	if !f.HasProgress() {
		return "", nil
	}
	return execute(f.Name+"-progress", f.ProgressTemplate, map[string]any{
		"title":   title,
		"command": command,
	})
}
