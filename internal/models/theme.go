package models

import "fmt"

// NeonColor is the accent color for the neon UI theme.
type NeonColor string

const (
	NeonBlue   NeonColor = "blue"
	NeonPurple NeonColor = "purple"
	NeonPink   NeonColor = "pink"
	NeonGreen  NeonColor = "green"
	NeonYellow NeonColor = "yellow"
	NeonOrange NeonColor = "orange"
)

// ParseNeonColor converts a stored color string into a NeonColor.
func ParseNeonColor(s string) (NeonColor, error) {
	switch NeonColor(s) {
	case NeonBlue, NeonPurple, NeonPink, NeonGreen, NeonYellow, NeonOrange:
		return NeonColor(s), nil
	}
	return "", fmt.Errorf("unknown neon color %q", s)
}

// ThemeState holds display preferences as persisted under "theme-storage".
type ThemeState struct {
	IsDarkMode bool      `json:"isDarkMode"`
	Language   string    `json:"language"`
	NeonColor  NeonColor `json:"neonColor"`
}

// DefaultTheme matches the out-of-the-box preferences: dark mode on,
// English, blue accent.
func DefaultTheme() ThemeState {
	return ThemeState{
		IsDarkMode: true,
		Language:   "en",
		NeonColor:  NeonBlue,
	}
}
