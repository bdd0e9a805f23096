package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	mosox "github.com/lgsolve/mosox"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// colorEnabled decides whether styled output is appropriate for the current
// stdout, honoring an explicit config override before falling back to a
// terminal check.
func colorEnabled(mode mosox.ColorMode) bool {
	switch mode {
	case mosox.ColorAlways:
		return true
	case mosox.ColorNever:
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

// render applies style to s when enabled, otherwise returns s unstyled.
func render(enabled bool, style lipgloss.Style, s string) string {
	if !enabled {
		return s
	}

	return style.Render(s)
}
