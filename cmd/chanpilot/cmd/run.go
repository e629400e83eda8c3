package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cosduck/chanpilot/internal/agent"
	"github.com/cosduck/chanpilot/internal/config"
	"github.com/cosduck/chanpilot/internal/policy"
	"github.com/cosduck/chanpilot/internal/providers"
	"github.com/cosduck/chanpilot/internal/scripts"
	"github.com/cosduck/chanpilot/internal/tui"
)

var (
	runTimeoutFlag  int
	runMaxItemsFlag int
	runPremiumFlag  bool
	runVisionFlag   string
	runDryRunFlag   bool
	runPickFlag     bool
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Execute an automation script",
	Long:  "Execute an automation script against its channel console. Without an argument the configured default script is used; with --pick an interactive chooser is shown.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&runTimeoutFlag, "timeout", 0, "Run time limit in seconds (0 uses the configured default)")
	runCmd.Flags().IntVar(&runMaxItemsFlag, "max-items", 0, "Maximum items to process (0 uses the script default)")
	runCmd.Flags().BoolVar(&runPremiumFlag, "premium", false, "Force the premium model tier")
	runCmd.Flags().StringVar(&runVisionFlag, "vision", "", "Override vision detail: off, low, high or auto")
	runCmd.Flags().BoolVar(&runDryRunFlag, "dry-run", false, "Resolve the run configuration and estimate cost without running")
	runCmd.Flags().BoolVar(&runPickFlag, "pick", false, "Choose the script interactively")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.EnsureWorkspaceDir(cfg); err != nil {
		return fmt.Errorf("failed to prepare workspace: %w", err)
	}

	script, err := selectScript(cfg, args)
	if err != nil {
		return err
	}
	if err := applyOverrides(script, cfg); err != nil {
		return err
	}

	provider, err := providers.NewFromConfig(cfg)
	if err != nil {
		fmt.Println("No model API configured.")
		fmt.Println("Run 'chanpilot setup' to configure it.")
		return nil
	}

	runner, err := agent.NewRunner(agent.RunnerConfig{Config: cfg, Provider: provider})
	if err != nil {
		return err
	}

	if runDryRunFlag {
		return printPlan(runner, script)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Running %s...\n", script.Name)
	report, err := runner.Run(ctx, script)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

// selectScript resolves the script to run. An explicit argument wins;
// without one, an interactive chooser opens on a terminal and the
// configured default applies otherwise.
func selectScript(cfg *config.Config, args []string) (*scripts.Script, error) {
	loader := scripts.NewLoader(cfg.WorkspacePath())
	if err := loader.Discover(); err != nil {
		return nil, err
	}

	if len(args) == 1 {
		return loader.Get(args[0])
	}
	if runPickFlag || isatty.IsTerminal(os.Stdin.Fd()) {
		return tui.PickScript(loader.All())
	}
	return loader.Get(cfg.Runs.DefaultScript)
}

// applyOverrides folds command-line flags into the script options and the
// run timeout.
func applyOverrides(script *scripts.Script, cfg *config.Config) error {
	if runTimeoutFlag > 0 {
		cfg.Runs.TimeoutSeconds = runTimeoutFlag
	}
	if runMaxItemsFlag > 0 {
		script.Options.MaxItems = runMaxItemsFlag
	}
	if runPremiumFlag {
		script.Options.UseCheapModel = false
		script.Tier = policy.TierPremium
	}

	switch strings.ToLower(runVisionFlag) {
	case "":
	case "off":
		script.Options.VisionNeeded = false
	case "low":
		script.Options.VisionNeeded = true
		script.Options.VisionDetail = policy.DetailLow
	case "high":
		script.Options.VisionNeeded = true
		script.Options.VisionDetail = policy.DetailHigh
	case "auto":
		script.Options.VisionNeeded = true
		script.Options.VisionDetail = policy.DetailAuto
	default:
		return fmt.Errorf("unknown vision detail %q (use off, low, high or auto)", runVisionFlag)
	}
	return nil
}

func printPlan(runner *agent.Runner, script *scripts.Script) error {
	runCfg, model, cost, err := runner.Plan(script)
	if err != nil {
		return err
	}

	fmt.Printf("Script:       %s\n", script.Name)
	fmt.Printf("Model tier:   %s (%s)\n", runCfg.ModelTier, model)
	fmt.Printf("Vision:       %s\n", visionLabel(runCfg))
	fmt.Printf("Max items:    %d\n", runCfg.MaxItemsPerRun)
	fmt.Printf("FAQ cache:    %s\n", enabledLabel(runCfg.CachingEnabled))
	fmt.Printf("Est. prompt:  %d tokens, %.4f cost units\n", cost.TokensUsed, cost.CostUnits)
	return nil
}

func printReport(report *agent.Report) {
	fmt.Printf("\nRun %s finished in %s\n", report.RunID[:8], report.Duration.Round(time.Second))
	fmt.Printf("  Model:     %s (%s tier)\n", report.Model, report.Config.ModelTier)
	fmt.Printf("  Tokens:    %d (%.4f cost units)\n", report.TokensUsed, report.Cost.CostUnits)
	if len(report.Records) > 0 {
		fmt.Printf("  Records:   %d collected", len(report.Records))
		if report.CacheHits > 0 {
			fmt.Printf(", %d answered from cache", report.CacheHits)
		}
		fmt.Println()
	}
	fmt.Printf("  Artifacts: %s\n", report.ArtifactDir)
}

func visionLabel(runCfg policy.RunConfig) string {
	if !runCfg.VisionEnabled {
		return "off"
	}
	return string(runCfg.VisionDetail)
}

func enabledLabel(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
