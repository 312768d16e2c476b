// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/state"
)

// Buffers gives modules access to the per-device I/O buffers without
// exposing device assignment: a module asks for the buffer holding a
// specific layer's regions.
type Buffers struct {
	st *state.State
}

// For returns the Buffer holding l's I/O regions.
func (b *Buffers) For(l *netw.Layer) *state.Buffer {
	return b.st.Buffer(b.st.Device(l))
}

// Module is an environment-side collaborator: a sensory source, a motor or
// display sink, or a supervisor providing expected outputs. The engine
// drives modules on the environment side of the hand-off locks, every
// environment-rate-th iteration.
type Module interface {
	// Name identifies the module in reports and error messages.
	Name() string

	// Layers returns the layers this module attaches to.
	Layers() []*netw.Layer

	// IOType returns this module's role for l: input, expected, output,
	// internal, or an OR of them.
	IOType(l *netw.Layer) netw.IOType

	// FeedInput writes fresh input (and expected values) into the
	// buffers for this module's input/expected layers.
	FeedInput(b *Buffers)

	// ReportOutput reads this module's output layers from the buffers.
	ReportOutput(b *Buffers)

	// Cycle advances the module's own state once per environment step.
	Cycle()

	// ExpectedIterations returns the iteration count this module wants,
	// or 0 for no preference. The engine takes the max across modules.
	ExpectedIterations() int

	// IsCoactive reports whether this module is simultaneously active
	// with other; two coactive input modules on the same layer are a
	// build error.
	IsCoactive(other Module) bool

	// Report returns this module's entry for the run report.
	Report() map[string]any
}
