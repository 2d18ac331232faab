package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kweiss/deskpilot/internal/tracker"
)

var metricsAddr string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show aggregate run metrics",
	Args:  cobra.NoArgs,
	RunE:  runMetrics,
}

func init() {
	metricsCmd.Flags().StringVar(&metricsAddr, "addr", "", "Server address (host:port)")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	base, err := serverURL(metricsAddr)
	if err != nil {
		return err
	}

	var m tracker.Metrics
	if err := getInto(base+"/metrics", &m); err != nil {
		return err
	}

	fmt.Printf("total:       %d\n", m.Total)
	fmt.Printf("live:        %d\n", m.Live)
	fmt.Printf("avg elapsed: %s\n", m.AvgElapsed.Round(time.Millisecond))
	fmt.Printf("error rate:  %.1f%%\n", m.ErrorRate*100)
	for status, n := range m.ByStatus {
		fmt.Printf("  %-10s %d\n", status, n)
	}
	if len(m.ByProducer) > 0 {
		fmt.Println("by producer:")
		for name, n := range m.ByProducer {
			fmt.Printf("  %-14s %d\n", name, n)
		}
	}
	if len(m.Recent) > 0 {
		fmt.Println("recent:")
		for _, r := range m.Recent {
			fmt.Printf("  %s  %-10s %-14s %s\n", r.TaskID, r.Status, r.Producer, r.Elapsed.Round(time.Millisecond))
		}
	}
	return nil
}
