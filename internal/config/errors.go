package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrInvalidNodeCount is returned when the network is too small to
	// contain an observer, a sender and a recipient.
	ErrInvalidNodeCount = errors.New("invalid node count: need at least 3 nodes")

	// ErrInvalidPaymentCount is returned when no payments would be simulated.
	ErrInvalidPaymentCount = errors.New("invalid payment count: must be positive")

	// ErrInvalidObserverCount is returned when the observer count is not
	// positive or would consume the whole network.
	ErrInvalidObserverCount = errors.New("invalid observer count: must be positive and smaller than node count")

	// ErrUnknownTopology is returned when the topology name is not one of
	// the supported generators.
	ErrUnknownTopology = errors.New("unknown topology")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
