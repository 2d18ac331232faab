package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "deskpilot",
	Short: "Office artifact task orchestrator",
	Long: `Deskpilot turns natural-language task descriptions into office
artifacts: documents, presentations, and spreadsheets.

Tasks are routed to producers by an explicit hint or a keyword heuristic,
executed as ordered capability plans, and tracked with run metrics. An
optional Anthropic collaborator proposes plans; without one, every producer
falls back to a deterministic plan.

Examples:
  deskpilot run "write a report about quarterly sales"
  deskpilot run --producer presentation "deck about the roadmap with 5 slides"
  deskpilot serve`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: deskpilot.yaml, ~/.config/deskpilot/config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(producersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
