package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/cltvscan/cltvscan/internal/timelock"
)

// Default configuration values.
// These values are chosen to produce networks small enough for quick
// experiments while still containing multi-hop routes worth analyzing.
const (
	// DefaultNodeCount of 50 yields a network with enough alternative
	// routes that the budget heuristic produces interesting rankings.
	DefaultNodeCount = 50

	// DefaultPaymentCount of 100 gives each observer a realistic sample
	// without making a run take noticeably long.
	DefaultPaymentCount = 100

	// DefaultObserverCount of 2 exercises cross-observer correlation.
	// A single observer still works but never correlates anything.
	DefaultObserverCount = 2

	// DefaultBlockHeight is roughly a 2021 Bitcoin mainnet height. The
	// absolute value only anchors expiry arithmetic; any height works.
	DefaultBlockHeight = 700_000

	// AppName is the application name used for XDG directory paths.
	AppName = "cltvscan"
)

// Supported network topologies for simulation.
const (
	// TopologyRing connects nodes in a cycle with random cross links.
	TopologyRing = "ring"

	// TopologyScaleFree attaches new nodes preferentially to
	// high-degree nodes, resembling the real payment network.
	TopologyScaleFree = "scale-free"
)

// Config holds all configuration options for a surveillance run.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// NodeCount is the number of nodes in the simulated network.
	NodeCount int

	// PaymentCount is the number of payments to simulate.
	PaymentCount int

	// ObserverCount is the number of surveillance nodes to register.
	// Must be smaller than NodeCount.
	ObserverCount int

	// Topology selects the generated network shape.
	// One of TopologyRing or TopologyScaleFree.
	Topology string

	// BlockHeight is the chain height the simulation runs at.
	BlockHeight uint32

	// Seed seeds the simulation's random source. Runs with the same
	// seed and configuration produce identical observations.
	Seed uint64

	// Timelock holds the timelock model parameters used by both the
	// simulator and the analyzer.
	Timelock timelock.Params

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the scenario file.
	// If empty, the tool searches for .cltvscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite session database.
	// When set, observations and reports are persisted for later analysis.
	// When empty, nothing is persisted.
	// Defaults to XDG data directory (~/.local/share/cltvscan on Linux).
	DBDir string

	// SaveToDB indicates whether to persist the session to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., node counts,
// timelock deltas). This also serves as documentation of what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		NodeCount:     DefaultNodeCount,
		PaymentCount:  DefaultPaymentCount,
		ObserverCount: DefaultObserverCount,
		Topology:      TopologyScaleFree,
		BlockHeight:   DefaultBlockHeight,
		Seed:          1,
		Timelock:      timelock.DefaultParams(),
	}
}

// XDGDataDir returns the XDG data directory for the tool.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/cltvscan
// On macOS: ~/Library/Application Support/cltvscan
// On Windows: %LOCALAPPDATA%\cltvscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the tool.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/cltvscan
// On macOS: ~/Library/Application Support/cltvscan
// On Windows: %APPDATA%\cltvscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any simulation begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// The generator needs at least two nodes, and surveillance is
	// pointless without at least one non-observer pair to route between
	if c.NodeCount < 3 {
		return ErrInvalidNodeCount
	}

	if c.PaymentCount <= 0 {
		return ErrInvalidPaymentCount
	}

	if c.ObserverCount <= 0 || c.ObserverCount >= c.NodeCount {
		return ErrInvalidObserverCount
	}

	if c.Topology != TopologyRing && c.Topology != TopologyScaleFree {
		return fmt.Errorf("%w: %q", ErrUnknownTopology, c.Topology)
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if err := c.Timelock.Validate(); err != nil {
		return err
	}

	return nil
}
