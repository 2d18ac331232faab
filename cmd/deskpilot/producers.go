package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var producersCmd = &cobra.Command{
	Use:   "producers",
	Short: "List producers and their capabilities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		for _, d := range a.orch.Producers() {
			state := color.GreenString("enabled")
			if !d.Enabled {
				state = color.RedString("disabled")
			}
			fmt.Printf("%-14s %-13s %s\n", d.Name, d.Kind, state)
			fmt.Printf("  %s\n", d.Description)
			fmt.Printf("  capabilities: %s\n", strings.Join(d.Capabilities, ", "))
		}
		return nil
	},
}
