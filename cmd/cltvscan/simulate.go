package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cltvscan/cltvscan/internal/analyzer"
	"github.com/cltvscan/cltvscan/internal/config"
	"github.com/cltvscan/cltvscan/internal/database"
	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/log"
	"github.com/cltvscan/cltvscan/internal/report"
	"github.com/cltvscan/cltvscan/internal/simulation"
	"github.com/cltvscan/cltvscan/internal/surveil"
)

// defaultMinConnections is the attachment count for scale-free topologies.
// Three links per joining node produces clear hubs at the default sizes.
const defaultMinConnections = 3

// NewSimulateCmd creates the simulate command.
func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate payments and analyze them from the observers' view",
		Long: `Simulate builds a synthetic routing network, registers surveillance
nodes, routes random payments across the network, and then correlates the
observations those nodes collected into ranked recipient guesses.

Runs are reproducible: the same seed and configuration produce the same
network, the same payments, and the same report.

Examples:
  # Simulate with defaults (50 nodes, 100 payments, 2 observers)
  cltvscan simulate

  # A denser run on a ring topology
  cltvscan simulate --nodes 80 --payments 1000 --topology ring

  # Reproducible run with Markdown output to a file
  cltvscan simulate --seed 42 --markdown -o report.md

  # Use a scenario file
  cltvscan simulate -c scenario.yaml

Scenario file (.cltvscan) example:
  simulation:
    nodes: 80
    payments: 500
    observers: 3
    topology: ring
    seed: 42
  timelock:
    final_hop_delta: 40
    min_per_hop_delta: 14
    random_pad_max: 120
    max_hop_estimate: 5`,
		Args: cobra.NoArgs,
		RunE: runSimulateCmd,
	}

	addRunFlags(cmd)
	cmd.Flags().IntP("payments", "p", config.DefaultPaymentCount,
		"Number of payments to simulate")

	return cmd
}

// addRunFlags registers the flags shared by simulate and analyze.
func addRunFlags(cmd *cobra.Command) {
	// Network flags
	cmd.Flags().IntP("nodes", "n", config.DefaultNodeCount,
		"Number of nodes in the simulated network")
	cmd.Flags().Int("observers", config.DefaultObserverCount,
		"Number of surveillance nodes")
	cmd.Flags().StringP("topology", "t", config.TopologyScaleFree,
		`Network topology ("ring" or "scale-free")`)
	cmd.Flags().Uint64P("seed", "s", 1,
		"Random seed for reproducible runs")
	cmd.Flags().Uint32("block-height", config.DefaultBlockHeight,
		"Chain height the simulation runs at")

	// Scenario file
	cmd.Flags().StringP("config", "c", "",
		"Scenario file path (default: .cltvscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Directory for the session database (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Do not persist observations and reports")
}

// runSimulateCmd executes the simulate command.
func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("payments") {
		cfg.PaymentCount, err = cmd.Flags().GetInt("payments")
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runSimulation(ctx, cfg, logger)
}

// buildConfig creates a Config from an optional scenario file and the
// cobra command flags. Explicitly set flags win over the scenario file,
// which in turn wins over the defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configFilePath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configFilePath

	// Load scenario overrides first so changed flags can beat them.
	// If the user explicitly specified a scenario file, error if not found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		scenario, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario file %s: %w", configPath, err)
		}
		scenario.ApplyTo(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("scenario file not found: %s", cfg.ConfigFilePath)
	}

	if cmd.Flags().Changed("nodes") {
		cfg.NodeCount, err = cmd.Flags().GetInt("nodes")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("observers") {
		cfg.ObserverCount, err = cmd.Flags().GetInt("observers")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("topology") {
		cfg.Topology, err = cmd.Flags().GetString("topology")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, err = cmd.Flags().GetUint64("seed")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("block-height") {
		cfg.BlockHeight, err = cmd.Flags().GetUint32("block-height")
		if err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}
	cfg.SaveToDB = !noDB

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildNetwork generates the configured topology and returns the network,
// its node identifiers in creation order, and the generator (whose random
// state the caller may keep consuming, e.g. for observer selection).
func buildNetwork(cfg *config.Config, logger *slog.Logger) (*graph.Network, []string, *simulation.Generator, error) {
	network := graph.New(cfg.BlockHeight)
	gen := simulation.NewGenerator(cfg.Seed, simulation.WithGeneratorLogger(logger))

	var (
		ids []string
		err error
	)
	switch cfg.Topology {
	case config.TopologyRing:
		ids, err = gen.RingNetwork(network, cfg.NodeCount)
	case config.TopologyScaleFree:
		ids, err = gen.ScaleFreeNetwork(network, cfg.NodeCount, defaultMinConnections)
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownTopology, cfg.Topology)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate network: %w", err)
	}

	return network, ids, gen, nil
}

// newOperation wires a surveillance operation over the given network using
// the configured timelock parameters.
func newOperation(network *graph.Network, cfg *config.Config, logger *slog.Logger) *surveil.Operation {
	a := analyzer.New(network,
		analyzer.WithParams(cfg.Timelock),
		analyzer.WithLogger(logger),
	)
	return surveil.New(network,
		surveil.WithAnalyzer(a),
		surveil.WithLogger(logger),
	)
}

// runSimulation executes the simulation run.
func runSimulation(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting simulation",
		"nodes", cfg.NodeCount,
		"payments", cfg.PaymentCount,
		"observers", cfg.ObserverCount,
		"topology", cfg.Topology,
		"seed", cfg.Seed,
	)

	network, ids, gen, err := buildNetwork(cfg, logger)
	if err != nil {
		return err
	}

	op := newOperation(network, cfg, logger)
	for _, id := range gen.SelectObservers(ids, cfg.ObserverCount) {
		if err := op.RegisterObserver(id); err != nil {
			return fmt.Errorf("failed to register observer: %w", err)
		}
	}

	sim := simulation.NewSimulator(network, op, ids, cfg.Seed,
		simulation.WithSimulatorParams(cfg.Timelock),
		simulation.WithSimulatorLogger(logger),
	)
	observed, err := sim.SimulatePayments(cfg.PaymentCount)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("simulation complete",
		"payments", cfg.PaymentCount,
		"observed", observed,
		"observations", op.ObservationCount(),
	)

	if err := ctx.Err(); err != nil {
		return err
	}

	results := op.Run()
	rep := report.New(network, op.Observers(), op.Observations(), results)

	if err := outputReport(cfg, rep); err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := persistSession(ctx, cfg, op, rep, logger); err != nil {
			return err
		}
	}

	return nil
}

// outputReport outputs the report in the requested format.
func outputReport(cfg *config.Config, rep *report.Report) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(rep)
	return err
}

// persistSession saves the observations and the report to the session database.
func persistSession(ctx context.Context, cfg *config.Config, op *surveil.Operation, rep *report.Report, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.InsertObservations(ctx, op.Observations()); err != nil {
		return fmt.Errorf("failed to save observations: %w", err)
	}
	if err := db.SaveReport(ctx, rep); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	logger.Info("session saved", "dir", cfg.DBDir, "observations", op.ObservationCount())
	return nil
}
