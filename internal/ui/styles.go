package ui

import "github.com/charmbracelet/lipgloss"

// Base text styles
var (
	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleDim  = lipgloss.NewStyle().Foreground(ColorDim)
)

// Colored text styles
var (
	StyleCyan   = lipgloss.NewStyle().Foreground(ColorCyan)
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
)

// Semantic styles
var (
	StyleHeader = StyleBold.Foreground(ColorCyan)
)

// Table styles
var (
	TableHeaderStyle = StyleBold.Foreground(ColorCyan).PaddingRight(2)
)
