package render

import (
	"github.com/charmbracelet/glamour/styles"
)

// Glamour standard styles used for assistant bubbles
const (
	StyleLight = styles.LightStyle
	StyleDark  = styles.DarkStyle
)

// StyleForTheme maps the UI theme name to its markdown style
func StyleForTheme(theme string) string {
	if theme == StyleDark {
		return StyleDark
	}
	return StyleLight
}

// IsStandardStyle reports whether style names one of glamour's bundled styles
func IsStandardStyle(style string) bool {
	_, ok := styles.DefaultStyles[style]
	return ok
}
