package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosduck/chanpilot/internal/config"
	"github.com/cosduck/chanpilot/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current configuration",
	Long:  "Display the configured model tiers, site credentials, browser settings, and notification sinks.",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if !config.Exists("") {
		fmt.Println("chanpilot is not configured yet.")
		fmt.Println("Run 'chanpilot setup' to get started.")
		return nil
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(tui.RenderStatus(cfg))
	return nil
}
