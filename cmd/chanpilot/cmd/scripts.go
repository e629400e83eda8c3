package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosduck/chanpilot/internal/config"
	"github.com/cosduck/chanpilot/internal/scripts"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List available automation scripts",
	Long:  "List built-in scripts and user scripts discovered from SCRIPT.md files in the workspace.",
	RunE:  runScripts,
}

func runScripts(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loader := scripts.NewLoader(cfg.WorkspacePath())
	if err := loader.Discover(); err != nil {
		return fmt.Errorf("failed to discover scripts: %w", err)
	}

	fmt.Printf("Available scripts (%d):\n", loader.Count())
	fmt.Print(loader.Summary())
	fmt.Println()
	fmt.Printf("Add your own under %s/scripts/<name>/SCRIPT.md\n", cfg.WorkspacePath())
	return nil
}
