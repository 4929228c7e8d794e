package model

import "strings"

// Todo is the domain model for a todo entry.
// Values reachable from a store snapshot are shared and must be treated as read-only.
type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is one of the supported themes.
func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps a user-supplied name onto a Theme.
func ParseTheme(s string) (Theme, bool) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// DefaultDisplayName is the placeholder shown until the user picks a name.
const DefaultDisplayName = "John Doe"

// Prefs holds the user's display preferences.
type Prefs struct {
	Theme       Theme  `json:"theme"`
	DisplayName string `json:"display_name"`
}

// DefaultPrefs returns the preferences a new session starts with.
func DefaultPrefs() Prefs {
	return Prefs{Theme: ThemeLight, DisplayName: DefaultDisplayName}
}
