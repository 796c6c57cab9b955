// Package simulation provides the external collaborators the analysis core
// is tested against: synthetic network topology generation and a payment
// simulator that walks the network end to end, producing the HTLC
// observations a surveillance operation would capture.
//
// Structural randomness (topology shape, sender/receiver choices, amounts,
// padding) is driven by a seeded PCG source so that runs are reproducible.
// Node identifiers are freshly generated secp256k1 keys, the same form a
// real node publishes, and are opaque to everything downstream.
package simulation
