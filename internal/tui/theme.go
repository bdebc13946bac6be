package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// Theme is the dashboard palette.
type Theme struct {
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Income      lipgloss.Style
	Expense     lipgloss.Style
	Error       lipgloss.Style
	Box         lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Primary     lipgloss.Color
	Dark        bool
}

func newTheme(primary, muted, border lipgloss.Color, dark bool) Theme {
	return Theme{
		Dark:        dark,
		Primary:     primary,
		Title:       lipgloss.NewStyle().Bold(true).Foreground(primary),
		Subtle:      lipgloss.NewStyle().Foreground(muted),
		Income:      lipgloss.NewStyle().Foreground(lipgloss.Color("#38A169")),
		Expense:     lipgloss.NewStyle().Foreground(lipgloss.Color("#E53E3E")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("#E53E3E")).Bold(true),
		Box:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(primary).Underline(true).Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(muted).Padding(0, 2),
	}
}

// Dark and Light are the two palettes.
var (
	Dark  = newTheme(lipgloss.Color("#a78bfa"), lipgloss.Color("#737373"), lipgloss.Color("#404040"), true)
	Light = newTheme(lipgloss.Color("#6d28d9"), lipgloss.Color("#6b7280"), lipgloss.Color("#d1d5db"), false)
)

// ThemeFor maps the stored preference to a palette. ThemeSystem follows the
// terminal background.
func ThemeFor(pref model.Theme) Theme {
	switch pref {
	case model.ThemeLight:
		return Light
	case model.ThemeDark:
		return Dark
	default:
		if lipgloss.HasDarkBackground() {
			return Dark
		}
		return Light
	}
}
