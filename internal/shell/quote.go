package shell

import "strings"

// Quote rebuilds a printable, shell-runnable command line from tokens
func Quote(tokens []string) string {
	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		parts = append(parts, quoteToken(token))
	}
	return strings.Join(parts, " ")
}

func quoteToken(token string) string {
	if token == "" {
		return `""`
	}

	hasSpaces := strings.Contains(token, " ")
	hasDouble := strings.Contains(token, `"`)
	hasSingle := strings.Contains(token, "'")

	switch {
	case hasDouble && hasSingle:
		return `"` + strings.ReplaceAll(token, `"`, `\"`) + `"`
	case hasDouble:
		return "'" + token + "'"
	case hasSingle || hasSpaces:
		return `"` + token + `"`
	default:
		return token
	}
}
