package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cosduck/chanpilot/internal/config"
	"github.com/cosduck/chanpilot/internal/runlog"
)

var logsCmd = &cobra.Command{
	Use:   "logs [run]",
	Short: "Show run artifacts",
	Long:  "Without an argument, list recent runs in the log directory. With a run directory name, print that run's transcript.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logDir := cfg.LogDirPath()

	if len(args) == 1 {
		return printTranscript(filepath.Join(logDir, args[0]))
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No runs recorded yet.")
			return nil
		}
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	var runs []string
	for _, entry := range entries {
		if entry.IsDir() {
			runs = append(runs, entry.Name())
		}
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	// Directory names start with the run timestamp, so newest last.
	sort.Strings(runs)
	if len(runs) > 20 {
		runs = runs[len(runs)-20:]
	}

	fmt.Printf("Recent runs (%s):\n", logDir)
	for _, name := range runs {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("\nShow a transcript with: chanpilot logs <run>")
	return nil
}

func printTranscript(dir string) error {
	messages, err := runlog.ReadTranscript(dir)
	if err != nil {
		return err
	}

	for _, m := range messages {
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.Role, m.Content)
	}
	if len(messages) == 0 {
		fmt.Println("Transcript is empty.")
	}
	return nil
}
