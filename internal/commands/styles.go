package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/offsum/internal/models"
)

// NewStylesCmd creates the styles command
func NewStylesCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List summary styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(deps)
			def, err := cfg.Style()
			if err != nil {
				return err
			}

			dim := lipgloss.NewStyle().Foreground(colorTextDim)
			for _, name := range models.StyleNames() {
				if name == def.String() {
					fmt.Fprintf(deps.Out, "%s %s\n", assistantLabelStyle.Render("● "+name), dim.Render("(default)"))
					continue
				}
				fmt.Fprintf(deps.Out, "  %s\n", name)
			}
			return nil
		},
	}
}
