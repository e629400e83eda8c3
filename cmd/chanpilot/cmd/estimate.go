package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosduck/chanpilot/internal/config"
	"github.com/cosduck/chanpilot/internal/policy"
	"github.com/cosduck/chanpilot/internal/scripts"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [script]",
	Short: "Estimate the cost of a script across model tiers",
	Long:  "Show the prompt token estimate and projected cost units for a script on each model tier, without running anything.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEstimate,
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loader := scripts.NewLoader(cfg.WorkspacePath())
	if err := loader.Discover(); err != nil {
		return err
	}

	name := cfg.Runs.DefaultScript
	if len(args) == 1 {
		name = args[0]
	}
	script, err := loader.Get(name)
	if err != nil {
		return err
	}

	tokens := policy.EstimateTaskTokens(script.TaskTemplate)
	fmt.Printf("Script: %s (~%d prompt tokens)\n\n", script.Name, tokens)
	fmt.Printf("%-10s %-20s %s\n", "Tier", "Model", "Cost units")

	for _, tier := range []policy.ModelTier{policy.TierCheap, policy.TierBalanced, policy.TierPremium} {
		cost, err := policy.EstimateCost(tokens, tier)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %-20s %.4f\n", tier, cfg.ModelForTier(string(tier)), cost.CostUnits)
	}
	return nil
}
