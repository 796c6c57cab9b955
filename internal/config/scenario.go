package config

import "github.com/cltvscan/cltvscan/internal/timelock"

// SimulationConfig holds scenario-file overrides for the simulated
// network and payment volume. Zero values leave the corresponding
// Config field untouched.
type SimulationConfig struct {
	// Nodes overrides the simulated network size.
	Nodes int `yaml:"nodes,omitempty"`

	// Payments overrides the number of simulated payments.
	Payments int `yaml:"payments,omitempty"`

	// Observers overrides the number of surveillance nodes.
	Observers int `yaml:"observers,omitempty"`

	// Topology overrides the network shape ("ring" or "scale-free").
	Topology string `yaml:"topology,omitempty"`

	// Seed overrides the random seed.
	Seed uint64 `yaml:"seed,omitempty"`

	// BlockHeight overrides the chain height the simulation runs at.
	BlockHeight uint32 `yaml:"blockHeight,omitempty"`
}

// File represents the structure of the .cltvscan scenario file.
type File struct {
	// Simulation holds network and payment volume overrides.
	Simulation SimulationConfig `yaml:"simulation,omitempty"`

	// Timelock holds timelock model parameter overrides. When absent,
	// the defaults (or CLI flags) stay in effect.
	Timelock *timelock.Params `yaml:"timelock,omitempty"`
}

// ApplyTo merges the scenario file into the given configuration.
// Only explicitly set (non-zero) values override existing fields, so a
// scenario file can adjust a single knob without restating defaults.
func (f *File) ApplyTo(c *Config) {
	if f.Simulation.Nodes != 0 {
		c.NodeCount = f.Simulation.Nodes
	}
	if f.Simulation.Payments != 0 {
		c.PaymentCount = f.Simulation.Payments
	}
	if f.Simulation.Observers != 0 {
		c.ObserverCount = f.Simulation.Observers
	}
	if f.Simulation.Topology != "" {
		c.Topology = f.Simulation.Topology
	}
	if f.Simulation.Seed != 0 {
		c.Seed = f.Simulation.Seed
	}
	if f.Simulation.BlockHeight != 0 {
		c.BlockHeight = f.Simulation.BlockHeight
	}
	if f.Timelock != nil {
		c.Timelock = *f.Timelock
	}
}
