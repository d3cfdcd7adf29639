package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/offsum/internal/config"
	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewChoice
)

// Menu item indices for main view
const (
	menuVariant = iota
	menuDefaultStyle
	menuDemoSeed
	menuVerbose
	menuCopyToClipboard
	menuMarkdownStyle
	menuTUITheme
	menuExit
	menuItemCount
)

var menuLabels = [menuItemCount]string{
	menuVariant:         "Reply Variant",
	menuDefaultStyle:    "Default Style",
	menuDemoSeed:        "Demo Conversation",
	menuVerbose:         "Verbose Logging",
	menuCopyToClipboard: "Copy to Clipboard",
	menuMarkdownStyle:   "Markdown Theme",
	menuTUITheme:        "TUI Theme",
	menuExit:            "Exit",
}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error

	// Navigation. choiceItem is the menu entry whose choices are open.
	view         configView
	cursor       int
	choiceItem   int
	choiceCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates a config menu over cfg. Changes are persisted
// with save; a nil save uses config.SaveConfig.
func NewConfigModel(cfg config.Config, save func(config.Config) error) ConfigModel {
	if save == nil {
		save = config.SaveConfig
	}
	configPath, _ := config.GetConfigPath()

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		save:            save,
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Config returns the configuration as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view == viewChoice {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			if m.view == viewMain {
				m.cursor = wrap(m.cursor-1, menuItemCount)
			} else {
				m.choiceCursor = wrap(m.choiceCursor-1, len(m.choices(m.choiceItem)))
			}

		case "down", "j":
			if m.view == viewMain {
				m.cursor = wrap(m.cursor+1, menuItemCount)
			} else {
				m.choiceCursor = wrap(m.choiceCursor+1, len(m.choices(m.choiceItem)))
			}

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i%n + n) % n
}

// choices returns the selectable values of a multi-choice menu item
func (m ConfigModel) choices(item int) []string {
	switch item {
	case menuVariant:
		variants := models.Variants()
		out := make([]string, len(variants))
		for i, v := range variants {
			out[i] = string(v)
		}
		return out
	case menuDefaultStyle:
		return models.StyleNames()
	case menuMarkdownStyle:
		return render.MarkdownStyles()
	case menuTUITheme:
		return render.TUIThemeNames()
	}
	return nil
}

// value returns the current value of a multi-choice menu item
func (m ConfigModel) value(item int) string {
	switch item {
	case menuVariant:
		return m.config.Variant
	case menuDefaultStyle:
		return m.config.DefaultStyle
	case menuMarkdownStyle:
		return m.config.Markdown.Style
	case menuTUITheme:
		return m.config.TUITheme
	}
	return ""
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewChoice {
		return m.applyChoice()
	}

	switch m.cursor {
	case menuVariant, menuDefaultStyle, menuMarkdownStyle, menuTUITheme:
		m.view = viewChoice
		m.choiceItem = m.cursor
		m.choiceCursor = 0
		current := m.value(m.cursor)
		for i, c := range m.choices(m.cursor) {
			if c == current {
				m.choiceCursor = i
				break
			}
		}
		return m, nil

	case menuDemoSeed:
		m.config.DemoSeed = !m.config.DemoSeed
		return m.persist(fmt.Sprintf("Demo conversation %s", enabledWord(m.config.DemoSeed)))

	case menuVerbose:
		m.config.Verbose = !m.config.Verbose
		return m.persist(fmt.Sprintf("Verbose logging %s", enabledWord(m.config.Verbose)))

	case menuCopyToClipboard:
		m.config.CopyToClipboard = !m.config.CopyToClipboard
		return m.persist(fmt.Sprintf("Copy to clipboard %s", enabledWord(m.config.CopyToClipboard)))

	case menuExit:
		return m, tea.Quit
	}

	return m, nil
}

func (m ConfigModel) applyChoice() (tea.Model, tea.Cmd) {
	selected := m.choices(m.choiceItem)[m.choiceCursor]
	m.view = viewMain

	switch m.choiceItem {
	case menuVariant:
		m.config.Variant = selected
	case menuDefaultStyle:
		m.config.DefaultStyle = selected
	case menuMarkdownStyle:
		m.config.Markdown.Style = selected
	case menuTUITheme:
		m.config.TUITheme = selected
		// Apply the new TUI theme immediately
		render.SetTUITheme(selected)
		UpdateTheme()
	}

	return m.persist(fmt.Sprintf("%s set to %s", menuLabels[m.choiceItem], selected))
}

func (m ConfigModel) persist(feedback string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = feedback
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		configTitleStyle.Render("✦ Configuration"),
		configPanelStyle.Width(contentWidth).Render(
			"📁 Config: " + configPathStyle.Render(m.configPath),
		),
	}

	var settings string
	if m.view == viewChoice {
		settings = m.renderChoices()
	} else {
		settings = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func menuLine(selected bool, label string) string {
	if selected {
		return configCursorStyle.Render("▸ ") + configMenuSelectedStyle.Render(label)
	}
	return "  " + configMenuItemStyle.Render(label)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	lines := []string{sidebarSectionStyle.Render("⚙ Settings"), ""}

	for item := 0; item < menuItemCount; item++ {
		label := menuLabels[item]
		if item == menuExit {
			lines = append(lines, "", menuLine(m.cursor == item, label))
			continue
		}

		var value string
		switch item {
		case menuDemoSeed:
			value = renderBoolValue(m.config.DemoSeed)
		case menuVerbose:
			value = renderBoolValue(m.config.Verbose)
		case menuCopyToClipboard:
			value = renderBoolValue(m.config.CopyToClipboard)
		default:
			value = configValueStyle.Render(m.value(item))
		}

		pad := strings.Repeat(" ", max(20-len(label), 1))
		lines = append(lines, menuLine(m.cursor == item, label)+pad+value)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderChoices renders the sub-menu of the open item
func (m ConfigModel) renderChoices() string {
	lines := []string{sidebarSectionStyle.Render("Select " + menuLabels[m.choiceItem]), ""}

	current := m.value(m.choiceItem)
	for i, c := range m.choices(m.choiceItem) {
		line := menuLine(m.choiceCursor == i, c)
		if c == current {
			line += configEnabledStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderBoolValue renders a boolean value with appropriate styling
func renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view == viewChoice {
		back = "Back"
	}
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the config TUI
func RunConfig(cfg config.Config) error {
	p := tea.NewProgram(
		NewConfigModel(cfg, nil),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
