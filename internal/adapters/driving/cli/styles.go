package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for command output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
	}
}

// Styles contains pre-configured lipgloss styles for listings.
type Styles struct {
	// Title style for result headers.
	Title lipgloss.Style

	// Score style for similarity and match scores.
	Score lipgloss.Style

	// Muted style for secondary lines.
	Muted lipgloss.Style

	// Success style for completed actions.
	Success lipgloss.Style

	// Warning style for missing requirements.
	Warning lipgloss.Style

	// Quote style for snippets and evidence.
	Quote lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Score: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Quote: lipgloss.NewStyle().
			Foreground(theme.Muted).
			PaddingLeft(6),
	}
}

// styles is shared by every command.
var styles = NewStyles(nil)
