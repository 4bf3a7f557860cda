package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header renders a section header
func Header(title string) string {
	return StyleHeader.Render(title) + "\n"
}

// CheckMark renders a green checkmark with optional label
func CheckMark(label string) string {
	if label == "" {
		return StyleGreen.Render("✓")
	}
	return StyleGreen.Render("✓ " + label)
}

// CrossMark renders a red cross with optional label
func CrossMark(label string) string {
	if label == "" {
		return StyleRed.Render("✗")
	}
	return StyleRed.Render("✗ " + label)
}

// Table renders a simple table. Cells may already be styled.
func Table(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	var b strings.Builder

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	for i, h := range headers {
		padded := h + strings.Repeat(" ", widths[i]-lipgloss.Width(h))
		b.WriteString(TableHeaderStyle.Render(padded))
	}
	b.WriteString("\n")

	for _, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				b.WriteString(cell)
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Indent prefixes every line of text with prefix
func Indent(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			b.WriteString(line)
			continue
		}
		b.WriteString(prefix + line)
	}
	return b.String()
}
