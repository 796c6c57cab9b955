// Package graph implements the in-memory payment network graph: an
// undirected node/channel store with adjacency lookup and the
// budget-constrained route enumeration that drives timelock analysis.
//
// The graph is built once by a topology generator and is read-only for the
// lifetime of an analysis session. A RWMutex guards the build phase because
// generators and analyzers may overlap in a live setting; once a session
// starts, no core operation writes to the graph, so concurrent route
// enumeration and scoring need nothing beyond shared read access.
//
// Design decision: route enumeration uses an explicit stack with
// copy-on-branch paths instead of recursion over a shared visited set.
// Per-branch visited membership is exactly "already on the current path",
// so cycle detection is a path scan and no backtracking bookkeeping is
// needed. The enumeration semantics are identical; the state is just owned
// per branch instead of aliased across call frames.
package graph
