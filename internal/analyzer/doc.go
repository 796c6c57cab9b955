// Package analyzer implements the timelock heuristic engine: scoring
// candidate routes, ranking hypothesized recipients for a single HTLC
// observation, and correlating observations across multiple surveillance
// nodes.
//
// The heuristics are intentionally approximate. Confidence scores are
// unnormalized and meaningful only for ranking candidates within a single
// analysis call; they are not probabilities and make no claim to provably
// correct deanonymization.
//
// Design decision: scoring independent candidate routes is embarrassingly
// parallel (each score reads only the shared, immutable graph), so Analyze
// fans the work out over an errgroup with index-addressed results, the same
// shape the batch scan path uses elsewhere in the codebase.
package analyzer
