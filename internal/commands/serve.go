package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/offsum/internal/logging"
	"github.com/diogo/offsum/internal/server"
	"github.com/diogo/offsum/internal/session"
)

type serveFlags struct {
	addr    string
	style   string
	variant string
	demo    bool
}

// NewServeCmd creates the serve command
func NewServeCmd(deps *Dependencies) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page over HTTP",
		Long: `Serve the chat page and its JSON API. Every browser gets its own
session; idle sessions are dropped after session_ttl_minutes.

The address comes from --addr, then OFFSUM_ADDR, then server_addr in the
config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(deps)
			if flags.addr != "" {
				cfg.ServerAddr = flags.addr
			}

			opts, variant, err := newSessionOptions(cfg, flags.style, flags.variant, flags.demo)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Verbose: cfg.Verbose})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			logger.Info("starting server",
				zap.String("addr", cfg.ServerAddr),
				zap.String("variant", string(variant)),
				zap.Duration("session_ttl", cfg.SessionTTL()))

			srv := server.New(server.Options{
				Addr:     cfg.ServerAddr,
				Variant:  variant,
				Sessions: session.NewManager(cfg.SessionTTL(), logger, opts...),
				Logger:   logger,
			})
			if err := srv.Run(cmd.Context()); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "Listen address (default from config, :8501)")
	cmd.Flags().StringVarP(&flags.style, "style", "s", "", "Summary style new sessions start with")
	cmd.Flags().StringVar(&flags.variant, "variant", "", "Reply variant (summarize, echo)")
	cmd.Flags().BoolVar(&flags.demo, "demo", false, "Start new sessions with the demo conversation")

	return cmd
}
