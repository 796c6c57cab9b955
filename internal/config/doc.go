// Package config provides configuration structures and utilities for the
// surveillance tooling. It defines the main options for network
// simulation, timelock model parameters, and report generation
// preferences, plus YAML scenario files for reproducible runs.
package config
