package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// UserBubble colors the border of the user's messages
	UserBubble lipgloss.Color
}

// Built-in TUI themes
var (
	// MidnightTheme mirrors the web page: slate background, cyan/indigo/pink hero
	MidnightTheme = TUITheme{
		Name:        "midnight",
		Description: "Midnight - slate background with a cyan to pink hero",

		Background: lipgloss.Color("#020617"),
		Surface:    lipgloss.Color("#111827"),
		Border:     lipgloss.Color("#1f2937"),

		Primary:   lipgloss.Color("#22d3ee"),
		Secondary: lipgloss.Color("#6366f1"),
		Accent:    lipgloss.Color("#ec4899"),
		Warning:   lipgloss.Color("#facc15"),
		Error:     lipgloss.Color("#f87171"),

		Text:     lipgloss.Color("#e5e7eb"),
		TextDim:  lipgloss.Color("#9ca3af"),
		TextMute: lipgloss.Color("#6b7280"),

		UserBubble: lipgloss.Color("#2563eb"),
	}

	// TokyoNightTheme is a dark theme based on Tokyo Night
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		UserBubble: lipgloss.Color("#9ece6a"),
	}

	// PaperTheme is a light theme for bright terminals
	PaperTheme = TUITheme{
		Name:        "paper",
		Description: "Paper - Light theme with gray text",

		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#f3f4f6"),
		Border:     lipgloss.Color("#d1d5db"),

		Primary:   lipgloss.Color("#1d4ed8"),
		Secondary: lipgloss.Color("#047857"),
		Accent:    lipgloss.Color("#7c3aed"),
		Warning:   lipgloss.Color("#b45309"),
		Error:     lipgloss.Color("#b91c1c"),

		Text:     lipgloss.Color("#333333"),
		TextDim:  lipgloss.Color("#6b7280"),
		TextMute: lipgloss.Color("#9ca3af"),

		UserBubble: lipgloss.Color("#2563eb"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = MidnightTheme
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
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns all built-in TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		MidnightTheme,
		TokyoNightTheme,
		PaperTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
