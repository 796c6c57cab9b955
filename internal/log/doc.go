// Package log provides logging for the surveillance tooling, built on
// top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic abbreviation of hash-shaped identifiers (payment
//     hashes, node public keys, channel IDs)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("observation recorded",
//	    "payment_hash", hash, // shortened to head..tail form
//	    "observer", observerID,
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
