package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/cltvscan.yaml
var scenarioTemplate embed.FS

// scenarioFileName is the default scenario file name.
const scenarioFileName = ".cltvscan"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new cltvscan scenario file",
		Long: `Initialize creates a new .cltvscan scenario file in the current directory.

The generated file includes:
- Default settings for network size, payments and observers
- Commented examples for timelock parameter overrides
- Documentation for all available options

Examples:
  # Create .cltvscan in current directory
  cltvscan init

  # Create scenario file at a specific path
  cltvscan init -o scenario.yaml

  # Force overwrite existing file
  cltvscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", scenarioFileName,
		"Output file path for the scenario")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing scenario file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("scenario file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := scenarioTemplate.ReadFile("templates/cltvscan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read scenario template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write scenario file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created scenario file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure the run, such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Network size and topology")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Payment volume and observer count")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Timelock model parameters")

	return nil
}
