package model

import (
	"fmt"
	"strings"
)

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// DefaultTheme is used when no theme has been saved.
const DefaultTheme = ThemeSystem

// ThemeSettingKey is the settings key the theme is stored under.
const ThemeSettingKey = "theme"

// ParseTheme parses a theme name, ignoring case.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q: must be light, dark, or system", s)
	}
}
