package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kweiss/deskpilot/internal/tracker"
	"github.com/kweiss/deskpilot/pkg/models"
)

var statusAddr string

var statusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Show a task's execution record",
	Long: `Query a running deskpilot server for one task's execution record.

The server address comes from configuration; override with --addr.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusAddr, "addr", "", "Server address (host:port)")
}

// serverURL resolves the target server from the flag or configuration.
func serverURL(flagAddr string) (string, error) {
	if flagAddr != "" {
		return "http://" + flagAddr, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return "http://" + cfg.Server.Addr(), nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	base, err := serverURL(statusAddr)
	if err != nil {
		return err
	}

	var exec tracker.TaskExecution
	if err := getInto(base+"/status/"+args[0], &exec); err != nil {
		return err
	}

	statusColor := color.New(color.FgYellow)
	switch exec.Status {
	case models.StatusCompleted:
		statusColor = color.New(color.FgGreen)
	case models.StatusFailed:
		statusColor = color.New(color.FgRed)
	}

	fmt.Printf("task:     %s\n", exec.TaskID)
	fmt.Printf("producer: %s\n", exec.Producer)
	fmt.Printf("status:   %s\n", statusColor.Sprint(exec.Status))
	fmt.Printf("elapsed:  %s\n", exec.Elapsed().Round(time.Millisecond))
	if exec.Error != "" {
		fmt.Printf("error:    %s\n", exec.Error)
	}
	if exec.Outcome != nil {
		for _, art := range exec.Outcome.Artifacts {
			fmt.Printf("artifact: %s (%s, %s)\n", art.Path, art.Kind, art.Tier)
		}
	}
	return nil
}

// getInto fetches a JSON endpoint and decodes it, surfacing server errors.
func getInto(url string, into any) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("is the server running? %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		if derr := json.NewDecoder(resp.Body).Decode(&body); derr == nil && body.Error != "" {
			return fmt.Errorf("server: %s", body.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}
