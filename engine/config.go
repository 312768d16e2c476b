// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/vgreg/pcnn/cluster"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
)

// Config carries the recognized run options plus the build-time choices
// (device set, per-structure dispatch kinds) the engine resolves before
// running.
type Config struct {
	// Accelerators is the number of simulated accelerator devices to
	// register; the host device always exists and takes the highest id.
	Accelerators int

	// Devices selects the active device ids; empty means all registered
	// devices. Out-of-range ids are a build error.
	Devices []ptr.DeviceID

	// DeviceOverride pins specific layers to devices, replacing the
	// default round-robin assignment.
	DeviceOverride map[netw.ID]ptr.DeviceID

	// Iterations is the number of timesteps to run; 0 defers to the
	// modules' expected iterations, and if those are also 0, the engine
	// warns and runs until interrupted.
	Iterations int

	// WorkerThreads sizes the host worker pool; 0 runs parallel kernels
	// inline.
	WorkerThreads int

	// Multithreaded overlaps environment I/O with network compute on two
	// goroutines joined by the hand-off locks.
	Multithreaded bool

	Verbose bool

	// Learning gates every plastic instruction for the whole run.
	Learning bool

	// SuppressOutput skips the module output reporting (input feeding
	// still happens).
	SuppressOutput bool

	// EnvironmentRate k performs module I/O every kth timestep.
	EnvironmentRate int

	// RefreshRate caps the loop frequency in iterations per second; 0
	// runs unbounded.
	RefreshRate float64

	// Seed roots every device's RNG stream.
	Seed int64

	// ClusterKinds selects each structure's dispatch order by name;
	// unnamed structures default to Parallel.
	ClusterKinds map[string]cluster.Kind
}

// Defaults fills the zero-value Config with runnable settings.
func (c *Config) Defaults() {
	if c.EnvironmentRate < 1 {
		c.EnvironmentRate = 1
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}
