package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cltvscan/cltvscan/internal/config"
	"github.com/cltvscan/cltvscan/internal/database"
	"github.com/cltvscan/cltvscan/internal/log"
	"github.com/cltvscan/cltvscan/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Re-analyze observations from a stored session",
		Long: `Analyze loads the observations persisted by an earlier simulate run,
regenerates the network from the same seed and topology, and re-runs the
correlation. Use it to try different timelock parameters against the same
recorded traffic.

The network flags (or scenario file) must match the simulate run that
produced the session: the network is regenerated from the seed, not stored.

Examples:
  # Re-analyze the default session
  cltvscan analyze --seed 42 --nodes 80 --topology ring

  # Same session, different report format
  cltvscan analyze --seed 42 --nodes 80 --topology ring --json

  # List stored reports instead of re-analyzing
  cltvscan analyze --history`,
		Args: cobra.NoArgs,
		RunE: runAnalyzeCmd,
	}

	addRunFlags(cmd)
	cmd.Flags().Bool("history", false,
		"List stored reports instead of re-analyzing")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	history, err := cmd.Flags().GetBool("history")
	if err != nil {
		return err
	}

	ctx := context.Background()
	if history {
		return printHistory(ctx, cmd, cfg)
	}
	return runAnalysis(ctx, cfg, logger)
}

// openSession opens an existing session database without creating one.
func openSession(dbDir string) (*database.SessionDB, error) {
	db, err := database.Open(dbDir, database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session (run simulate first): %w", err)
	}
	return db, nil
}

// printHistory lists stored reports.
func printHistory(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	db, err := openSession(cfg.DBDir)
	if err != nil {
		return err
	}
	defer db.Close()

	history, err := db.ReportHistory(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored reports.")
		return nil
	}

	for _, meta := range history {
		fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s  height=%d  payments=%d\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.BlockHeight,
			meta.PaymentCount,
		)
	}
	return nil
}

// runAnalysis re-correlates the stored observations.
func runAnalysis(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := openSession(cfg.DBDir)
	if err != nil {
		return err
	}
	defer db.Close()

	observations, err := db.Observations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load observations: %w", err)
	}
	if len(observations) == 0 {
		return errors.New("no stored observations (run simulate first)")
	}

	network, _, _, err := buildNetwork(cfg, logger)
	if err != nil {
		return err
	}

	// Re-register the observers the stored session used. They are
	// recoverable from the observations themselves.
	op := newOperation(network, cfg, logger)
	seen := make(map[string]bool)
	for _, obs := range observations {
		if seen[obs.ObservedBy] {
			continue
		}
		seen[obs.ObservedBy] = true
		if err := op.RegisterObserver(obs.ObservedBy); err != nil {
			return fmt.Errorf("stored session does not match this network (check --seed, --nodes and --topology): %w", err)
		}
	}
	op.RecordBatch(observations...)

	logger.Info("re-analyzing stored session",
		"observations", len(observations),
		"observers", len(op.Observers()),
	)

	results := op.Run()
	rep := report.New(network, op.Observers(), op.Observations(), results)

	if err := outputReport(cfg, rep); err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := db.SaveReport(ctx, rep); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
	}

	return nil
}
