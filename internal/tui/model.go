package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/render"
	"github.com/diogo/offsum/internal/session"
)

// Text revealed by the typing effect while a reply is prepared
const typingText = "🔍 Analyzing your input..."

const sidebarWidth = 30

// Message types for the TUI
type (
	typingTickMsg time.Time
	replyMsg      struct {
		seq  int
		turn session.Turn
	}
	errMsg struct {
		seq int
		err error
	}
	copiedMsg struct {
		err error
	}
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Options configures the chat TUI
type Options struct {
	Session     *session.Session
	Variant     models.Variant
	Render      render.Options
	TypingDelay time.Duration
	Logger      *zap.Logger
	// Copy writes text to the clipboard; defaults to atotto/clipboard.
	Copy func(string) error
}

// Model represents the TUI state
type Model struct {
	session     *session.Session
	variant     models.Variant
	renderOpts  render.Options
	typingDelay time.Duration
	logger      *zap.Logger
	copyFn      func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Focus and sidebar cursor. Row 0 is the Clear Chat button,
	// rows 1..n are the style radio options.
	focus         focusArea
	sidebarCursor int

	// Reply state
	loading bool
	typed   int // runes of typingText revealed
	cancel  context.CancelFunc
	seq     int // identifies the reply in flight
	pending session.Pending

	ready  bool
	err    error
	notice string

	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask anything... summarize, explain, simplify"
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	sess := opts.Session
	if sess == nil {
		sess = session.New("local")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	variant := opts.Variant
	if variant == "" {
		variant = models.DefaultVariant
	}
	renderOpts := opts.Render
	if renderOpts.Style == "" {
		renderOpts = render.DefaultOptions()
	}

	// Row 0 is the only row when the style radio is hidden
	cursor := 0
	if variant != models.VariantEcho {
		cursor = sess.Style().Index() + 1
	}

	return Model{
		session:       sess,
		variant:       variant,
		renderOpts:    renderOpts,
		typingDelay:   opts.TypingDelay,
		logger:        logger,
		copyFn:        copyFn,
		textarea:      ta,
		spinner:       s,
		sidebarCursor: cursor,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func typingTick(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = time.Millisecond
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return typingTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.stopReply()
			return m, tea.Quit

		case "esc":
			if m.loading {
				m.stopReply()
				m.notice = "Reply cancelled"
				return m, nil
			}
			return m, tea.Quit

		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil

		case "ctrl+l":
			m.clearChat()
			return m, nil

		case "ctrl+y":
			return m, m.copyLastReply()
		}

		if m.focus == focusSidebar {
			return m.updateSidebar(msg)
		}

		if msg.String() == "enter" {
			if m.loading {
				return m, nil
			}
			return m.submit()
		}

	case typingTickMsg:
		if m.loading && m.typed < len([]rune(typingText)) {
			m.typed++
			cmds = append(cmds, typingTick(m.typingDelay))
		}

	case replyMsg:
		if msg.seq != m.seq {
			break
		}
		m.loading = false
		m.cancel = nil
		m.logger.Debug("reply appended",
			zap.String("session", m.session.ID),
			zap.Int("messages", m.session.Log().Len()))
		m.updateViewport()
		m.viewport.GotoBottom()

	case errMsg:
		if msg.seq != m.seq {
			break
		}
		m.loading = false
		m.cancel = nil
		if !errors.Is(msg.err, context.Canceled) && !errors.Is(msg.err, session.ErrCleared) {
			m.err = msg.err
			m.logger.Warn("reply failed", zap.Error(msg.err))
		}
		m.updateViewport()

	case copiedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to copy reply: %w", msg.err)
		} else {
			m.notice = "Reply copied to clipboard"
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only KeyMsg reaches the textarea to prevent escape sequence leaks
	if !m.loading && m.focus == focusInput {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit appends the user message and starts the reply.
// Whitespace-only input is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()

	pending, ok := m.session.Begin(input)
	if !ok {
		m.textarea.Reset()
		return m, nil
	}

	m.textarea.Reset()
	m.err = nil
	m.notice = ""
	m.loading = true
	m.typed = 0
	m.seq++
	m.pending = pending
	m.updateViewport()
	m.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.logger.Debug("user message appended",
		zap.String("session", m.session.ID),
		zap.Int("chars", len([]rune(input))))

	return m, tea.Batch(
		m.complete(ctx, m.seq, pending),
		typingTick(m.typingDelay),
		m.spinner.Tick,
	)
}

// complete runs the reply in the background
func (m Model) complete(ctx context.Context, seq int, p session.Pending) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		turn, err := sess.Complete(ctx, p)
		if err != nil {
			return errMsg{seq: seq, err: err}
		}
		return replyMsg{seq: seq, turn: turn}
	}
}

func (m *Model) stopReply() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
}

func (m *Model) clearChat() {
	m.stopReply()
	m.session.Clear()
	m.err = nil
	m.notice = ""
	m.updateViewport()
	m.logger.Debug("chat cleared", zap.String("session", m.session.ID))
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusSidebar
		m.textarea.Blur()
		return
	}
	m.focus = focusInput
	m.textarea.Focus()
}

// sidebarRows returns the number of selectable sidebar rows
func (m Model) sidebarRows() int {
	if m.variant == models.VariantEcho {
		return 1
	}
	return 1 + len(models.Styles())
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.sidebarRows()

	switch msg.String() {
	case "up", "k":
		m.sidebarCursor--
		if m.sidebarCursor < 0 {
			m.sidebarCursor = rows - 1
		}

	case "down", "j":
		m.sidebarCursor++
		if m.sidebarCursor >= rows {
			m.sidebarCursor = 0
		}

	case "enter", " ":
		styles := models.Styles()
		if m.sidebarCursor == 0 || m.sidebarCursor > len(styles) || m.variant == models.VariantEcho {
			m.clearChat()
			return m, nil
		}
		style := styles[m.sidebarCursor-1]
		m.session.SetStyle(style)
		m.notice = "Summary style: " + style.String()
		m.logger.Debug("style selected",
			zap.String("session", m.session.ID),
			zap.String("style", style.String()))
	}

	return m, nil
}

func (m Model) copyLastReply() tea.Cmd {
	last, ok := m.session.Log().Last(models.RoleAssistant)
	if !ok {
		return nil
	}
	copyFn := m.copyFn
	return func() tea.Msg {
		return copiedMsg{err: copyFn(last.Content)}
	}
}

// layout sizes the viewport and textarea from the window size
func (m *Model) layout() {
	headerHeight := 4 // Header panel with border
	inputHeight := 6  // Input panel with border
	statusHeight := 1 // Status bar
	padding := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.contentWidth()

	if !m.ready {
		m.viewport = viewport.New(contentWidth-4, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth - 4
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
}

func (m Model) contentWidth() int {
	w := m.width - sidebarWidth - 2
	if w < 30 {
		w = 30
	}
	return w
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.contentWidth()

	// HEADER
	header := headerStyle.Width(m.width - 2).Render(lipgloss.JoinVertical(
		lipgloss.Center,
		renderHero("Offline Summarization Tool"),
		subtitleStyle.Render("Fast • Private • No Internet Required"),
	))

	// MESSAGES
	var messagesContent string
	if m.session.Log().IsEmpty() {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)

	// INPUT
	var inputContent string
	if m.loading {
		inputContent = m.renderTyping()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)

	main := lipgloss.JoinVertical(lipgloss.Left, messagesPanel, inputPanel)
	sidebar := m.renderSidebar(lipgloss.Height(main) - 2)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	sections := []string{header, body, m.renderStatusBar(m.width - 2)}

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSidebar(height int) string {
	var sb strings.Builder

	sb.WriteString(sidebarTitleStyle.Render("⚙ Controls"))
	sb.WriteString("\n")

	button := buttonStyle
	if m.focus == focusSidebar && m.sidebarCursor == 0 {
		button = buttonFocusedStyle
	}
	sb.WriteString(button.Render("🗑 Clear Chat"))
	sb.WriteString("\n")

	if m.variant != models.VariantEcho {
		sb.WriteString(sidebarSectionStyle.Render("📄 Summary Style"))
		sb.WriteString("\n")

		current := m.session.Style()
		for i, style := range models.Styles() {
			cursor := "  "
			if m.focus == focusSidebar && m.sidebarCursor == i+1 {
				cursor = sidebarCursorStyle.Render("▸ ")
			}
			radio := "( )"
			itemStyle := sidebarItemStyle
			if style == current {
				radio = "(•)"
				itemStyle = sidebarSelectedStyle
			}
			sb.WriteString(cursor + itemStyle.Render(radio+" "+style.String()))
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(sidebarTaglineStyle.Render(
			"Offline Summarization Tool\n🔹 Fast\n🔹 Private\n🔹 Works without internet"))
	}

	if height < 1 {
		height = 1
	}
	return sidebarStyle.
		Width(sidebarWidth - 2).
		Height(height).
		Render(sb.String())
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width
	height := m.viewport.Height

	icon, title, subtitle := "👋", "Ready when you are", "Type what you want to summarize"
	if m.variant == models.VariantEcho {
		icon, title, subtitle = "🤖", "What can I help with?", "Paste text or ask a question to get started"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render(icon),
		"",
		welcomeTitleStyle.Width(width).Render(title),
		welcomeStyle.Width(width).Render(subtitle),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderTyping shows the typing effect, then the thinking spinner
func (m Model) renderTyping() string {
	runes := []rune(typingText)
	n := m.typed
	if n > len(runes) {
		n = len(runes)
	}

	typed := lipgloss.NewStyle().Foreground(colorText).Render(string(runes[:n]))
	if n < len(runes) {
		return typed + loadingStyle.Render("▌")
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		typed,
		m.spinner.View()+loadingStyle.Render(" Thinking..."),
	)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Tab", "Sidebar"},
		{"Ctrl+L", "Clear"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	if m.notice != "" {
		bar = noticeStyle.Render(m.notice) + "    " + bar
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 8
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	opts := m.renderOpts.WithWidth(bubbleWidth - 4)

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(msg.Content, opts))
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(opts Options) error {
	m := NewChatModel(opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
