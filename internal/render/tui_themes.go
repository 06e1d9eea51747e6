package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Bubble colors
	UserBubble      lipgloss.Color
	UserText        lipgloss.Color
	AssistantBubble lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	LightTheme = TUITheme{
		Name:        "light",
		Description: "Light background with blue user bubbles",

		Background: lipgloss.Color("#f3f4f6"),
		Surface:    lipgloss.Color("#ffffff"),
		Border:     lipgloss.Color("#d1d5db"),

		UserBubble:      lipgloss.Color("#3b82f6"),
		UserText:        lipgloss.Color("#ffffff"),
		AssistantBubble: lipgloss.Color("#e5e7eb"),

		Primary:   lipgloss.Color("#2563eb"),
		Secondary: lipgloss.Color("#16a34a"),
		Accent:    lipgloss.Color("#7c3aed"),
		Warning:   lipgloss.Color("#d97706"),
		Error:     lipgloss.Color("#dc2626"),

		Text:     lipgloss.Color("#1f2937"),
		TextDim:  lipgloss.Color("#6b7280"),
		TextMute: lipgloss.Color("#9ca3af"),
	}

	DarkTheme = TUITheme{
		Name:        "dark",
		Description: "Dark background with blue user bubbles",

		Background: lipgloss.Color("#111827"),
		Surface:    lipgloss.Color("#1f2937"),
		Border:     lipgloss.Color("#374151"),

		UserBubble:      lipgloss.Color("#2563eb"),
		UserText:        lipgloss.Color("#ffffff"),
		AssistantBubble: lipgloss.Color("#374151"),

		Primary:   lipgloss.Color("#60a5fa"),
		Secondary: lipgloss.Color("#4ade80"),
		Accent:    lipgloss.Color("#a78bfa"),
		Warning:   lipgloss.Color("#fbbf24"),
		Error:     lipgloss.Color("#f87171"),

		Text:     lipgloss.Color("#f3f4f6"),
		TextDim:  lipgloss.Color("#9ca3af"),
		TextMute: lipgloss.Color("#4b5563"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = LightTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	switch name {
	case "light":
		return LightTheme, true
	case "dark":
		return DarkTheme, true
	default:
		return TUITheme{}, false
	}
}
