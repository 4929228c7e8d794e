package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/model"
)

// Theme bundles palette + symbols + border for one display theme.
type Theme struct {
	Name model.Theme

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.Color

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
}

var (
	light = Theme{
		Name:    model.ThemeLight,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1F2937")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#2563EB")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#15803D")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#B45309")),

		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Strikethrough(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),

		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("#D1D5DB"),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
	}

	dark = Theme{
		Name:    model.ThemeDark,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DCD7BA")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#727169")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7E9CD8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#98BB6C")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5D62")).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9E3B")),

		Selected: lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("#223249")),
		Done:     lipgloss.NewStyle().Foreground(lipgloss.Color("#727169")).Strikethrough(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#727169")),

		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("#363646"),

		BoxUnchecked: "◻", BoxChecked: "◼",
		SymDone: "✔", SymPending: "•",
	}
)

// For returns the palette for t. Unknown themes get the light one.
func For(t model.Theme) Theme {
	if t == model.ThemeDark {
		return dark
	}
	return light
}

// ToggleLabel is the call to action of the theme switch.
func (t Theme) ToggleLabel() string {
	if t.Name == model.ThemeDark {
		return "Switch to ☀️ Light Mode"
	}
	return "Switch to 🌒 Dark Mode"
}
