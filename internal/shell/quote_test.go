package shell

import (
	"os/exec"
	"strings"
	"testing"
)

// TestQuote tests command line rendering
func TestQuote(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"plain tokens", []string{"echo", "hello"}, "echo hello"},
		{"empty token", []string{"printf", ""}, `printf ""`},
		{"spaces", []string{"echo", "b c"}, `echo "b c"`},
		{"single quote", []string{"echo", "d'e"}, `echo "d'e"`},
		{"double quote", []string{"echo", `say "hi"`}, `echo 'say "hi"'`},
		{"both quotes", []string{"echo", `it's "x"`}, `echo "it's \"x\""`},
		{"no tokens", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quote(tt.tokens); got != tt.want {
				t.Errorf("Quote(%q) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

// TestQuote_ShellRoundTrip checks that sh parses the rendered line back into the same tokens
func TestQuote_ShellRoundTrip(t *testing.T) {
	tests := [][]string{
		{"a", "b c", "d'e"},
		{"x", `y"z`, ""},
		{`it's "quoted"`, "plain"},
	}

	for _, tokens := range tests {
		line := `for arg in ` + Quote(tokens) + `; do printf '[%s]\n' "$arg"; done`
		out, err := exec.Command("sh", "-c", line).Output()
		if err != nil {
			t.Fatalf("sh -c %q failed: %v", line, err)
		}

		var want strings.Builder
		for _, token := range tokens {
			want.WriteString("[" + token + "]\n")
		}
		if string(out) != want.String() {
			t.Errorf("round trip of %q = %q, want %q", tokens, out, want.String())
		}
	}
}
