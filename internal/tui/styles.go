// Package tui provides the terminal user interface for offsum.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/offsum/internal/errors"
	"github.com/diogo/offsum/internal/render"
)

// Color variables (updated from theme)
var (
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorUser      lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	subtitleStyle lipgloss.Style

	messagesAreaStyle    lipgloss.Style
	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	// Sidebar
	sidebarStyle         lipgloss.Style
	sidebarTitleStyle    lipgloss.Style
	sidebarSectionStyle  lipgloss.Style
	sidebarItemStyle     lipgloss.Style
	sidebarCursorStyle   lipgloss.Style
	sidebarSelectedStyle lipgloss.Style
	sidebarTaglineStyle  lipgloss.Style
	buttonStyle          lipgloss.Style
	buttonFocusedStyle   lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	noticeStyle     lipgloss.Style

	errorStyle lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style

	// Config menu
	configTitleStyle        lipgloss.Style
	configPanelStyle        lipgloss.Style
	configMenuItemStyle     lipgloss.Style
	configMenuSelectedStyle lipgloss.Style
	configCursorStyle       lipgloss.Style
	configValueStyle        lipgloss.Style
	configEnabledStyle      lipgloss.Style
	configDisabledStyle     lipgloss.Style
	configPathStyle         lipgloss.Style
	configFeedbackStyle     lipgloss.Style
)

// Gradient colors for the hero title and loading dots
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#22d3ee"), // Cyan
	lipgloss.Color("#6366f1"), // Indigo
	lipgloss.Color("#ec4899"), // Pink
	lipgloss.Color("#6366f1"),
}

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorUser = theme.UserBubble
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		Align(lipgloss.Center)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorUser).
		Foreground(colorText).
		Padding(0, 1).
		MarginLeft(6)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorUser).
		Bold(true).
		MarginLeft(6)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(6)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	sidebarStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	sidebarTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		MarginBottom(1)

	sidebarSectionStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginTop(1)

	sidebarItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	sidebarCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	sidebarSelectedStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	sidebarTaglineStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		MarginTop(1)

	buttonStyle = lipgloss.NewStyle().
		Foreground(colorText).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	buttonFocusedStyle = buttonStyle.
		BorderForeground(colorAccent).
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Align(lipgloss.Center)

	configTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		MarginBottom(1).
		PaddingLeft(1)

	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	configMenuItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	configMenuSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	configCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	configValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	configEnabledStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	configDisabledStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f87171"))

	configPathStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	configFeedbackStyle = lipgloss.NewStyle().
		Foreground(colorWarning).
		Italic(true).
		MarginTop(1)
}

// renderHero draws text with the cyan/indigo/pink gradient, one rune at a time
func renderHero(text string) string {
	var sb strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		idx := i * (len(gradientColors) - 1) / max(len(runes)-1, 1)
		sb.WriteString(lipgloss.NewStyle().
			Foreground(gradientColors[idx]).
			Bold(true).
			Render(string(r)))
	}
	return sb.String()
}

// FormatError returns a styled error message with a hint when one applies.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	switch {
	case apierrors.IsInvalidStyle(err):
		var styleErr *apierrors.InvalidStyleError
		if errors.As(err, &styleErr) && len(styleErr.Allowed) > 0 {
			sb.WriteString(dimStyle.Render("\n  Hint: valid styles are " + strings.Join(styleErr.Allowed, ", ")))
		}
	case apierrors.IsInvalidVariant(err):
		sb.WriteString(dimStyle.Render("\n  Hint: use --variant summarize or --variant echo"))
	case apierrors.IsConfigError(err):
		if path := apierrors.GetConfigPath(err); path != "" {
			sb.WriteString(dimStyle.Render("\n  Config: " + path))
		}
		sb.WriteString(dimStyle.Render("\n  Hint: run 'offsum config init' to restore the defaults"))
	}

	return sb.String()
}

// PrintError prints a styled error message to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
