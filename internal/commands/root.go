// Package commands provides CLI commands for offsum.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/offsum/internal/config"
	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/tui"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// queryFlags are the flags of the one-shot root command
type queryFlags struct {
	file    string
	output  string
	style   string
	variant string
	raw     bool
	copy    bool
}

// NewRootCmd creates the root command and its subcommands
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "offsum [text]",
		Short: "Offline summarization demo",
		Long: `offsum is an offline summarization demo. It answers every message
with a canned reply chosen from the text, so it never needs a network
connection or a model.

Examples:
  offsum chat                           Start the interactive chat
  offsum serve                          Serve the web page on :8501
  offsum "summarize my large paragraph" Send a single message
  offsum -f notes.md -s "Exam Ready"    Read the message from a file
  cat notes.md | offsum                 Read the message from stdin
  offsum styles                         List summary styles`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Out, "offsum %s (built %s)\n", Version, BuildTime)
				return nil
			}

			input, ok, err := readInput(deps, flags.file, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runQuery(cmd.Context(), deps, input, flags)
		},
	}

	cmd.SetIn(deps.In)
	cmd.SetOut(deps.Out)
	cmd.SetErr(deps.Err)

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read the message from a file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().StringVarP(&flags.style, "style", "s", "", "Summary style (Short, Detailed, Bullet Points, Exam Ready)")
	cmd.Flags().StringVar(&flags.variant, "variant", "", "Reply variant (summarize, echo)")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "Print the plain reply without decoration")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		NewChatCmd(deps),
		NewServeCmd(deps),
		NewStylesCmd(deps),
		NewConfigCmd(deps),
	)

	return cmd
}

// readInput picks the message from --file, stdin or the argument, in that
// order. ok is false when none was given.
func readInput(deps *Dependencies, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinIsPipe != nil && deps.StdinIsPipe() {
		data, err := io.ReadAll(deps.In)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// loadConfig loads the user configuration, warning and falling back to the
// defaults when the file is broken.
func loadConfig(deps *Dependencies) config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(deps.Err, tui.FormatError(err))
	}
	return cfg
}

// resolveStyle returns the flag value if set, else the configured default
func resolveStyle(flag string, cfg config.Config) (models.Style, error) {
	if flag != "" {
		return models.ParseStyle(flag)
	}
	return cfg.Style()
}

// resolveVariant returns the flag value if set, else the configured variant
func resolveVariant(flag string, cfg config.Config) (models.Variant, error) {
	if flag != "" {
		return models.ParseVariant(flag)
	}
	return cfg.ReplyVariant()
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(nil).ExecuteContext(ctx); err != nil {
		tui.PrintError(err)
		stop()
		os.Exit(1)
	}
}
