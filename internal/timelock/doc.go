// Package timelock implements the pure timelock heuristics at the heart of
// CLTVScan: converting an observed HTLC expiry into an assessment of how
// much routing budget remains and how close the payment likely is to its
// final recipient.
//
// All functions in this package are deterministic, integer-only and free of
// side effects. Identical inputs always produce identical outputs, which is
// what makes the downstream analysis reproducible.
//
// Design decision: the heuristic constants (final-hop delta, per-hop
// minimum, padding range, hop cap) are consolidated into an injectable
// Params value rather than package-level constants. Tests and scenario
// files can then exercise the model under alternate parameterizations
// without touching global state.
package timelock
