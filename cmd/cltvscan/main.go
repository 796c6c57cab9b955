// Package main provides the entry point for the cltvscan CLI.
//
// cltvscan demonstrates a traffic-analysis attack on payment routing:
// surveillance nodes record the timelock expiries of forwarded payments
// and use the remaining timelock budget to rank likely recipients.
//
// Usage:
//
//	cltvscan simulate
//	cltvscan analyze
//
// See --help for all available options.
package main

// main is the entry point for cltvscan.
func main() {
	Execute()
}
