// Package surveil coordinates a surveillance session: the set of observer
// nodes the attacker controls, the append-only log of HTLC observations
// those nodes report, and the hand-off to the analysis engine.
//
// The observation log is the one legitimately mutable piece of session
// state. Appends go through a single mutex so that concurrent producers
// (live relays, the payment simulator) never interleave partial writes;
// correlation groups observations by payment hash and must see each record
// whole. Everything else the session touches is read-only.
package surveil
