// Package model defines the core data structures used throughout CLTVScan.
//
// This package contains the following main types:
//   - Node: A payment-routing node with its configured timelock delta
//   - Channel: A symmetric payment channel between two nodes
//   - Observation: An HTLC forward seen by a surveillance node
//   - CandidateRoute: A simple path consistent with a timelock budget
//   - RankedCandidate: A candidate route with its hypothesized recipient
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (graph, timelock, analyzer, simulation,
// report) need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
