package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kweiss/deskpilot/internal/orchestrator"
	"github.com/kweiss/deskpilot/pkg/models"
)

var (
	runProducer string
	runTitle    string
	runTimeout  time.Duration
	runStream   bool
	runCaller   string
)

var runCmd = &cobra.Command{
	Use:   "run <task description>",
	Short: "Execute a task and print its result",
	Long: `Execute a natural-language task in-process and print the outcome.

The task is routed to a producer by the --producer hint or by keywords in
the description. Artifacts are written under the configured workspace.

Examples:
  deskpilot run "write a report about quarterly sales"
  deskpilot run --stream "make a deck about the roadmap with 5 slides"
  deskpilot run --producer spreadsheet --title "Q3 Budget" "budget tracker"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().StringVarP(&runProducer, "producer", "p", "", "Producer to use (document, presentation, spreadsheet, communication, workflow)")
	runCmd.Flags().StringVar(&runTitle, "title", "", "Artifact title override")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-task timeout override (e.g. 30s)")
	runCmd.Flags().BoolVar(&runStream, "stream", false, "Print each step as it completes")
	runCmd.Flags().StringVar(&runCaller, "caller", "cli", "Caller id recorded with the task")
}

func runTask(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	req := orchestrator.Request{
		Description: strings.Join(args, " "),
		Producer:    runProducer,
		CallerID:    runCaller,
		Timeout:     runTimeout,
	}
	if runTitle != "" {
		req.Context = map[string]any{"title": runTitle}
	}

	if runStream {
		return runStreaming(a, req)
	}

	res, err := a.orch.Execute(context.Background(), req)
	if err != nil && res.Outcome == nil {
		return err
	}
	printResult(res)
	return nil
}

func runStreaming(a *app, req orchestrator.Request) error {
	taskID, stream, err := a.orch.ExecuteStreaming(context.Background(), req)
	if err != nil {
		return err
	}
	fmt.Printf("task %s\n", taskID)

	var final *models.ExecutionChunk
	for chunk := range stream {
		if chunk.Done {
			c := chunk
			final = &c
			continue
		}
		fmt.Printf("  [%d] %s: %s\n", chunk.StepIndex+1, chunk.Step, chunk.Detail)
	}
	if final == nil {
		return fmt.Errorf("stream ended without a terminal chunk")
	}
	printResult(&orchestrator.Result{
		TaskID:  taskID,
		Status:  final.Status,
		Outcome: final.Outcome,
	})
	return nil
}

func printResult(res *orchestrator.Result) {
	switch res.Status {
	case models.StatusCompleted:
		color.New(color.FgGreen).Printf("✓ %s completed", res.TaskID)
	case models.StatusCancelled:
		color.New(color.FgYellow).Printf("⚠ %s cancelled", res.TaskID)
	default:
		color.New(color.FgRed).Printf("✗ %s %s", res.TaskID, res.Status)
	}
	if res.Producer != "" {
		fmt.Printf(" (%s)", res.Producer)
	}
	fmt.Println()

	if res.Outcome == nil {
		return
	}
	if res.Outcome.Summary != "" {
		fmt.Printf("  %s\n", res.Outcome.Summary)
	}
	if res.Outcome.Error != "" {
		fmt.Printf("  error: %s\n", res.Outcome.Error)
	}
	for _, art := range res.Outcome.Artifacts {
		fmt.Printf("  %s (%s, %s)\n", art.Path, art.Kind, art.Tier)
	}
	if res.Outcome.Elapsed > 0 {
		fmt.Printf("  elapsed: %s\n", res.Outcome.Elapsed.Round(time.Millisecond))
	}
}
