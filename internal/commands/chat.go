package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/offsum/internal/config"
	"github.com/diogo/offsum/internal/logging"
	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/render"
	"github.com/diogo/offsum/internal/reply"
	"github.com/diogo/offsum/internal/session"
	"github.com/diogo/offsum/internal/tui"
)

type chatFlags struct {
	style   string
	variant string
	demo    bool
}

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	var flags chatFlags

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session in the terminal.

Tab moves between the message box and the sidebar, where the summary
style is chosen and the chat can be cleared. Ctrl+L clears the chat
from anywhere; Esc or Ctrl+C ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.style, "style", "s", "", "Initial summary style")
	cmd.Flags().StringVar(&flags.variant, "variant", "", "Reply variant (summarize, echo)")
	cmd.Flags().BoolVar(&flags.demo, "demo", false, "Start with the demo conversation")

	return cmd
}

// chatLogger writes to the log file so the alternate screen stays clean
func chatLogger(cfg config.Config) *zap.Logger {
	path, err := config.GetLogPath()
	if err != nil {
		return logging.Nop()
	}
	logger, err := logging.New(logging.Options{Verbose: cfg.Verbose, OutputPath: path})
	if err != nil {
		return logging.Nop()
	}
	return logger
}

// newSessionOptions builds the options shared by chat and serve sessions
func newSessionOptions(cfg config.Config, styleFlag, variantFlag string, demo bool) ([]session.Option, models.Variant, error) {
	style, err := resolveStyle(styleFlag, cfg)
	if err != nil {
		return nil, "", err
	}
	variant, err := resolveVariant(variantFlag, cfg)
	if err != nil {
		return nil, "", err
	}
	responder, err := reply.ForVariant(variant)
	if err != nil {
		return nil, "", err
	}

	opts := []session.Option{
		session.WithStyle(style),
		session.WithResponder(responder),
		session.WithThinkingDelay(cfg.ThinkingDelay()),
	}
	if demo || cfg.DemoSeed {
		opts = append(opts, session.WithSeed(models.DemoConversation()...))
	}
	return opts, variant, nil
}

func runChat(deps *Dependencies, flags chatFlags) error {
	cfg := loadConfig(deps)

	opts, variant, err := newSessionOptions(cfg, flags.style, flags.variant, flags.demo)
	if err != nil {
		return err
	}

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	logger := chatLogger(cfg)
	defer func() { _ = logger.Sync() }()

	sess := session.New("local", opts...)
	logger.Info("chat started",
		zap.String("variant", string(variant)),
		zap.String("style", sess.Style().String()))

	if err := deps.TUI.RunChat(tui.Options{
		Session:     sess,
		Variant:     variant,
		Render:      render.OptionsFromConfig(cfg),
		TypingDelay: cfg.TypingDelay(),
		Logger:      logger,
		Copy:        deps.Clipboard,
	}); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}
