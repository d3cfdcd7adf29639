package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	apierrors "github.com/diogo/offsum/internal/errors"
	"github.com/diogo/offsum/internal/render"
	"github.com/diogo/offsum/internal/reply"
	"github.com/diogo/offsum/internal/session"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#22d3ee"), // Cyan
	lipgloss.Color("#6366f1"), // Indigo
	lipgloss.Color("#ec4899"), // Pink
	lipgloss.Color("#a855f7"), // Purple
}

var (
	colorText     = lipgloss.Color("#e5e7eb")
	colorTextDim  = lipgloss.Color("#9ca3af")
	colorTextMute = lipgloss.Color("#6b7280")
	colorSuccess  = lipgloss.Color("#4ade80")
	colorWarning  = lipgloss.Color("#f87171")
	colorPrimary  = lipgloss.Color("#22d3ee")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := successStyle.Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", checkmark, successStyle.Render(message))
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery answers a single message and prints the reply
func runQuery(ctx context.Context, deps *Dependencies, input string, flags queryFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("message cannot be empty: %w", apierrors.ErrEmptyInput)
	}

	cfg := loadConfig(deps)

	style, err := resolveStyle(flags.style, cfg)
	if err != nil {
		return err
	}
	variant, err := resolveVariant(flags.variant, cfg)
	if err != nil {
		return err
	}
	responder, err := reply.ForVariant(variant)
	if err != nil {
		return err
	}

	opts := []session.Option{
		session.WithStyle(style),
		session.WithResponder(responder),
	}
	if !flags.raw {
		opts = append(opts, session.WithThinkingDelay(cfg.ThinkingDelay()))
	}
	sess := session.New("cli", opts...)

	if cfg.Verbose && !flags.raw {
		fmt.Fprintf(deps.Err, "[verbose] Variant: %s, style: %s\n", variant, style)
	}

	var spin *spinner
	if !flags.raw {
		spin = newSpinner(deps.Err, "Thinking")
		spin.start()
	}

	turn, _, err := sess.Submit(ctx, input)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return fmt.Errorf("reply interrupted: %w", err)
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	text := turn.Assistant.Content

	if flags.copy || cfg.CopyToClipboard {
		copyReply(deps, text, flags.raw)
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !flags.raw {
			fmt.Fprintln(deps.Err, successStyle.Render(fmt.Sprintf("✓ Reply saved to %s", flags.output)))
		}
		return nil
	}

	if flags.raw {
		fmt.Fprintln(deps.Out, text)
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	renderOpts := render.OptionsFromConfig(cfg).WithWidth(contentWidth)
	if !isStdoutTTY() {
		renderOpts = renderOpts.WithStyle("notty")
	}

	fmt.Fprintln(deps.Out, assistantLabelStyle.Render("✦ Assistant"))
	fmt.Fprintln(deps.Out, assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(text, renderOpts)))
	return nil
}

func copyReply(deps *Dependencies, text string, quiet bool) {
	if deps.Clipboard == nil {
		return
	}
	if err := deps.Clipboard(text); err != nil {
		fmt.Fprintln(deps.Err, warningStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		return
	}
	if !quiet {
		fmt.Fprintln(deps.Err, successStyle.Render("✓ Copied to clipboard"))
	}
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
