package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/offsum/internal/config"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration in effect, after environment overrides, and
the path of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(deps)

			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			fmt.Fprintf(deps.Out, "# %s\n%s\n", path, data)
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.SaveConfig(config.DefaultConfig()); err != nil {
					return err
				}
				path, _ := config.GetConfigPath()
				fmt.Fprintln(deps.Out, successStyle.Render("✓ Wrote "+path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Open the interactive configuration menu",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return deps.TUI.RunConfig(loadConfig(deps))
			},
		},
	)

	return cmd
}
