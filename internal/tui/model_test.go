package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/reply"
	"github.com/diogo/offsum/internal/session"
)

type clipboardStub struct {
	text string
	err  error
}

func (c *clipboardStub) write(text string) error {
	c.text = text
	return c.err
}

func newTestModel(t *testing.T, variant models.Variant) (Model, *clipboardStub) {
	t.Helper()

	stub := &clipboardStub{}
	m := NewChatModel(Options{
		Session: session.New("test"),
		Variant: variant,
		Copy:    stub.write,
	})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), stub
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestNewChatModel_Defaults(t *testing.T) {
	m := NewChatModel(Options{})

	if m.session == nil {
		t.Fatal("expected a default session")
	}
	if m.variant != models.VariantSummarize {
		t.Errorf("variant = %q, want summarize", m.variant)
	}
	if m.sidebarCursor != 1 {
		t.Errorf("sidebar cursor = %d, want the Short row", m.sidebarCursor)
	}
	if m.View() != loadingStyle.Render("  Initializing...") {
		t.Error("View before the first size message should show the init line")
	}
}

func TestSubmit_AppendsUserMessage(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("hi")

	m, cmd := update(t, m, key(tea.KeyEnter))

	if !m.loading {
		t.Error("expected loading after submit")
	}
	if cmd == nil {
		t.Error("expected a command to produce the reply")
	}
	msgs := m.session.Messages()
	if len(msgs) != 1 || msgs[0].Content != "hi" {
		t.Fatalf("log = %+v", msgs)
	}
	if m.textarea.Value() != "" {
		t.Error("textarea should be reset after submit")
	}
}

func TestSubmit_WhitespaceIgnored(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("   \n  ")

	m, _ = update(t, m, key(tea.KeyEnter))

	if m.loading {
		t.Error("whitespace input must not start a reply")
	}
	if n := m.session.Log().Len(); n != 0 {
		t.Errorf("log has %d messages, want 0", n)
	}
}

func TestSubmit_CommandWordsAreMessages(t *testing.T) {
	for _, input := range []string{"quit", "exit", "/quit", "/exit", "/clear"} {
		t.Run(input, func(t *testing.T) {
			m, _ := newTestModel(t, models.VariantSummarize)
			m.textarea.SetValue(input)

			m, cmd := update(t, m, key(tea.KeyEnter))
			if cmd == nil {
				t.Fatal("expected a command to produce the reply")
			}
			if _, quit := cmd().(tea.QuitMsg); quit {
				t.Fatalf("%q should not quit the chat", input)
			}

			m, _ = update(t, m, m.complete(context.Background(), m.seq, m.pending)())

			msgs := m.session.Messages()
			if len(msgs) != 2 {
				t.Fatalf("log = %+v, want user message and reply", msgs)
			}
			if msgs[0].Content != input || msgs[1].Content != reply.PasteContentPrompt {
				t.Errorf("log = %+v", msgs)
			}
		})
	}
}

func TestSubmit_IgnoredWhileLoading(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("first")
	m, _ = update(t, m, key(tea.KeyEnter))

	m.textarea.SetValue("second")
	m, cmd := update(t, m, key(tea.KeyEnter))

	if cmd != nil {
		t.Error("enter while loading should do nothing")
	}
	if n := m.session.Log().Len(); n != 1 {
		t.Errorf("log has %d messages, want 1", n)
	}
}

func TestReplyMsg_CompletesTurn(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, key(tea.KeyEnter))

	msg := m.complete(context.Background(), m.seq, m.pending)()
	m, _ = update(t, m, msg)

	if m.loading {
		t.Error("loading should stop once the reply arrives")
	}
	last, ok := m.session.Log().Last(models.RoleAssistant)
	if !ok || last.Content != reply.PasteContentPrompt {
		t.Errorf("assistant reply = %q", last.Content)
	}
	if !strings.Contains(m.viewport.View(), "Assistant") {
		t.Error("viewport should show the assistant label")
	}
}

func TestReplyMsg_StaleIgnored(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, key(tea.KeyEnter))

	m, _ = update(t, m, replyMsg{seq: m.seq - 1})
	if !m.loading {
		t.Error("a reply from an earlier turn must not end the current one")
	}
}

func TestErrMsg(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.loading = true

	m, _ = update(t, m, errMsg{seq: m.seq, err: context.Canceled})
	if m.loading || m.err != nil {
		t.Errorf("cancellation should end quietly: loading=%v err=%v", m.loading, m.err)
	}

	m.loading = true
	m, _ = update(t, m, errMsg{seq: m.seq, err: errors.New("boom")})
	if m.err == nil {
		t.Error("expected error to be recorded")
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("View should show the error")
	}
}

func TestTypingEffect(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, key(tea.KeyEnter))

	runes := []rune(typingText)
	m, cmd := update(t, m, typingTickMsg{})
	if m.typed != 1 || cmd == nil {
		t.Fatalf("after one tick typed=%d, cmd=%v", m.typed, cmd)
	}
	if got := m.renderTyping(); !strings.Contains(got, string(runes[:1])) {
		t.Errorf("renderTyping() = %q", got)
	}

	for i := 1; i < len(runes)+3; i++ {
		m, _ = update(t, m, typingTickMsg{})
	}
	if m.typed != len(runes) {
		t.Errorf("typed = %d, want %d", m.typed, len(runes))
	}
	if got := m.renderTyping(); !strings.Contains(got, "Thinking...") || !strings.Contains(got, "Analyzing your input") {
		t.Errorf("renderTyping() after typing = %q", got)
	}
}

func TestSidebar_SelectStyle(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)

	m, _ = update(t, m, key(tea.KeyTab))
	if m.focus != focusSidebar {
		t.Fatal("tab should focus the sidebar")
	}

	// Short -> Detailed -> Bullet Points
	m, _ = update(t, m, key(tea.KeyDown))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = update(t, m, key(tea.KeyEnter))

	if got := m.session.Style(); got != models.StyleBulletPoints {
		t.Errorf("style = %q, want Bullet Points", got)
	}
	if !strings.Contains(m.View(), "(•) Bullet Points") {
		t.Error("radio should mark Bullet Points")
	}

	m, _ = update(t, m, key(tea.KeyTab))
	if m.focus != focusInput {
		t.Error("tab should return focus to the input")
	}
}

func TestSidebar_CursorWraps(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m, _ = update(t, m, key(tea.KeyTab))

	m.sidebarCursor = 0
	m, _ = update(t, m, key(tea.KeyUp))
	if m.sidebarCursor != len(models.Styles()) {
		t.Errorf("cursor = %d, want last row", m.sidebarCursor)
	}
	m, _ = update(t, m, key(tea.KeyDown))
	if m.sidebarCursor != 0 {
		t.Errorf("cursor = %d, want wrap to 0", m.sidebarCursor)
	}
}

func TestSidebar_ClearButton(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.session.Log().Seed(models.DemoConversation()...)

	m, _ = update(t, m, key(tea.KeyTab))
	m.sidebarCursor = 0
	m, _ = update(t, m, key(tea.KeySpace))

	if !m.session.Log().IsEmpty() {
		t.Error("Clear Chat should empty the log")
	}
	if !strings.Contains(m.View(), "Ready when you are") {
		t.Error("welcome screen should return after clearing")
	}
}

func TestSidebar_EchoOnlyClears(t *testing.T) {
	m := NewChatModel(Options{
		Session: session.New("test", session.WithStyle(models.StyleExamReady)),
		Variant: models.VariantEcho,
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.sidebarCursor != 0 {
		t.Fatalf("sidebar cursor = %d, want the Clear Chat row", m.sidebarCursor)
	}

	m.session.Log().Seed(models.DemoConversation()...)
	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, key(tea.KeyDown))
	if m.sidebarCursor != 0 {
		t.Errorf("cursor moved to %d with a single row", m.sidebarCursor)
	}
	m, _ = update(t, m, key(tea.KeyEnter))

	if !m.session.Log().IsEmpty() {
		t.Error("Enter on the sidebar should clear the chat")
	}
	if m.session.Style() != models.StyleExamReady {
		t.Errorf("hidden style changed to %q", m.session.Style())
	}

	// An out-of-range cursor never reaches the hidden radio
	m.session.Log().Seed(models.DemoConversation()...)
	m.sidebarCursor = 4
	m, _ = update(t, m, key(tea.KeySpace))
	if !m.session.Log().IsEmpty() || m.session.Style() != models.StyleExamReady {
		t.Errorf("cursor 4 in echo mode: log len %d, style %q", m.session.Log().Len(), m.session.Style())
	}
}

func TestCtrlL_DropsLateReply(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, key(tea.KeyEnter))
	seq, pending := m.seq, m.pending

	m, _ = update(t, m, key(tea.KeyCtrlL))

	// The reply goroutine finishes after the clear with a live context
	msg := m.complete(context.Background(), seq, pending)()
	m, _ = update(t, m, msg)

	if !m.session.Log().IsEmpty() {
		t.Errorf("late reply landed in a cleared log: %+v", m.session.Messages())
	}
	if m.err != nil {
		t.Errorf("late reply after clear should not surface an error: %v", m.err)
	}
}

func TestCtrlL_ClearsAndCancels(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, key(tea.KeyEnter))

	m, _ = update(t, m, key(tea.KeyCtrlL))

	if m.loading {
		t.Error("clear should stop the pending reply")
	}
	if !m.session.Log().IsEmpty() {
		t.Error("ctrl+l should empty the log")
	}
}

func TestEsc(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, key(tea.KeyEnter))

	m, cmd := update(t, m, key(tea.KeyEsc))
	if m.loading || cmd != nil {
		t.Error("esc while loading should cancel without quitting")
	}
	if m.notice != "Reply cancelled" {
		t.Errorf("notice = %q", m.notice)
	}

	_, cmd = update(t, m, key(tea.KeyEsc))
	if cmd == nil {
		t.Fatal("esc when idle should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestCtrlY_CopiesLastReply(t *testing.T) {
	m, stub := newTestModel(t, models.VariantSummarize)

	if _, cmd := update(t, m, key(tea.KeyCtrlY)); cmd != nil {
		t.Error("nothing to copy on an empty log")
	}

	m.session.Log().Append(models.RoleUser, "q")
	m.session.Log().Append(models.RoleAssistant, "answer")

	m, cmd := update(t, m, key(tea.KeyCtrlY))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	m, _ = update(t, m, cmd())

	if stub.text != "answer" {
		t.Errorf("copied %q, want answer", stub.text)
	}
	if m.notice != "Reply copied to clipboard" {
		t.Errorf("notice = %q", m.notice)
	}

	stub.err = errors.New("no clipboard")
	m, _ = update(t, m, m.copyLastReply()())
	if m.err == nil {
		t.Error("copy failure should be reported")
	}
}

func TestView_Welcome(t *testing.T) {
	tests := []struct {
		variant       models.Variant
		welcome       string
		wantStyleList bool
	}{
		{models.VariantSummarize, "Ready when you are", true},
		{models.VariantEcho, "What can I help with?", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			m, _ := newTestModel(t, tt.variant)
			view := m.View()

			if !strings.Contains(view, tt.welcome) {
				t.Errorf("View missing welcome %q", tt.welcome)
			}
			if !strings.Contains(view, "Clear Chat") {
				t.Error("View missing Clear Chat button")
			}
			if got := strings.Contains(view, "Summary Style"); got != tt.wantStyleList {
				t.Errorf("style radio shown = %v, want %v", got, tt.wantStyleList)
			}
		})
	}
}

func TestView_Messages(t *testing.T) {
	m, _ := newTestModel(t, models.VariantSummarize)
	m.session.Log().Append(models.RoleUser, "paste this")
	m.session.Log().Append(models.RoleAssistant, reply.PasteContentPrompt)
	m.updateViewport()

	view := m.View()
	if strings.Contains(view, "Ready when you are") {
		t.Error("welcome should be hidden when messages exist")
	}
	if !strings.Contains(view, "paste this") {
		t.Error("View missing user message")
	}
	if !strings.Contains(view, "Offline") {
		t.Error("View missing header")
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("FormatError(nil) should be empty")
	}

	_, err := models.ParseStyle("Long")
	got := FormatError(err)
	if !strings.Contains(got, "Long") || !strings.Contains(got, "Bullet Points") {
		t.Errorf("FormatError(style) = %q", got)
	}

	_, err = models.ParseVariant("gpt")
	if !strings.Contains(FormatError(err), "--variant") {
		t.Error("variant error should hint at the flag")
	}
}
