package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosduck/chanpilot/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run interactive setup wizard",
	Long:  "Run the interactive setup wizard to configure chanpilot with your model API key, site credentials, and notification sinks.",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := tui.RunSetup()
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	fmt.Println()
	fmt.Println(tui.RenderStatus(cfg))

	fmt.Println()
	fmt.Println("You can now:")
	fmt.Println("  - List scripts:     chanpilot scripts")
	fmt.Println("  - Estimate a run:   chanpilot estimate kakao-collect")
	fmt.Println("  - Start a run:      chanpilot run")

	return nil
}
