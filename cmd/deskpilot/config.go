package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Display the configuration after merging defaults, the config file,
and DESKPILOT_* environment variables.

Configuration is read from ~/.config/deskpilot/config.yaml with project
overrides in deskpilot.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		apiKeyDisplay := "(not set)"
		if cfg.Planner.APIKey != "" {
			apiKeyDisplay = "****"
		}

		fmt.Printf("planner.api_key: %s\n", apiKeyDisplay)
		fmt.Printf("planner.model: %s\n", cfg.Planner.Model)
		fmt.Printf("planner.max_tokens: %d\n", cfg.Planner.MaxTokens)
		fmt.Printf("planner.use_bedrock: %t\n", cfg.Planner.UseBedrock)
		fmt.Printf("producers.document: %t\n", cfg.Producers.Document)
		fmt.Printf("producers.presentation: %t\n", cfg.Producers.Presentation)
		fmt.Printf("producers.spreadsheet: %t\n", cfg.Producers.Spreadsheet)
		fmt.Printf("producers.communication: %t\n", cfg.Producers.Communication)
		fmt.Printf("producers.workflow: %t\n", cfg.Producers.Workflow)
		fmt.Printf("workspace.dir: %s\n", cfg.Workspace.Dir)
		fmt.Printf("tracker.recent_ring_size: %d\n", cfg.Tracker.RecentRingSize)
		fmt.Printf("server.host: %s\n", cfg.Server.Host)
		fmt.Printf("server.port: %d\n", cfg.Server.Port)
		fmt.Printf("defaults.task_timeout: %s\n", cfg.Defaults.TaskTimeout)
		fmt.Printf("defaults.slide_count: %d\n", cfg.Defaults.SlideCount)
		fmt.Printf("logging.level: %s\n", cfg.Logging.Level)
		fmt.Printf("logging.format: %s\n", cfg.Logging.Format)
	},
}
