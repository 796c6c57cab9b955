// Package main provides the entry point for the cltvscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for cltvscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cltvscan",
		Short: "Timelock traffic analysis for payment routing networks",
		Long: `cltvscan simulates payment routing over a synthetic network and shows
how much a few surveillance nodes can learn from nothing but the timelock
expiries of the payments they forward.

Each simulated payment leaves an observation at every surveillance node on
its route. The analyzer turns the remaining timelock budget of each
observation into a ranked list of suspected recipients, and the correlation
step combines the views of all observers.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSimulateCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
