// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr

import (
	"fmt"
	"sync"

	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/weight"
)

// AttrKernelArgs is what every neural model's attribute kernel receives:
// the owning Attributes, the layer, its output-ring view and register-bank
// and unit-array starting indices, the layer size, and whether plasticity
// is active this timestep (for models that fold weight change into the
// attribute kernel). The kernel must shift the layer's output ring, consume
// and zero the root input register, update per-neuron state, and write the
// new output into the newest word.
type AttrKernelArgs struct {
	Attrs     *Attributes
	Layer     *netw.Layer
	Out       RingView
	RegStart  int
	UnitStart int
	Size      int
	Plastic   bool
}

// SynapseArgs is what a connection's activator and updater kernels receive.
// The scheduling layer builds one value per connection at cluster-build
// time; everything here is a stable reference into State-owned storage.
type SynapseArgs struct {
	Conn    *netw.Connection
	Weights *weight.Matrix

	// Cons is the recv-major connectivity bitmap from the connection's
	// pattern; nil for convolutional connections, whose field geometry is
	// walked directly.
	Cons []bool

	// SrcRing/SrcView locate the source layer's output history -- the
	// mirror ring when the connection crosses devices.
	SrcRing *OutputRing
	SrcView RingView

	// SrcExtract reads one source unit's output at a delay, honoring the
	// source model's output encoding.
	SrcExtract func(unit, delay int) float32

	Dst      *Attributes
	DstLayer *netw.Layer

	// DstReg is the register of the dendritic node this connection feeds:
	// an input-bank register normally, a second-order gate buffer when the
	// node is marked second-order.
	DstReg []float32

	// Reward is the destination layer's single-slot reward accumulator,
	// used instead of DstReg by reward-opcode connections.
	Reward []float32

	Plastic bool
}

// Model bundles the function values one neural model registers: its output
// encoding, the per-neuron variables it needs, the attribute-update kernel
// (plus an optional distinct learning kernel), the activator/updater pair
// used for its incoming connections, a hook to initialize WeightMatrix
// auxiliary variables, and an optional output extractor overriding the
// ring's generic decoding.
type Model struct {
	Name string
	Kind netw.ModelKind

	// NeuronVars names the per-neuron float32 arrays to allocate for every
	// layer of this model (voltage, recovery, trace, ...).
	NeuronVars []string

	// AttrKernel runs the per-timestep state update; args *AttrKernelArgs.
	AttrKernel kernel.Kernel

	// LearnKernel is a distinct learning pass run with AttrKernel when
	// plasticity is on; kernel.Null if the model has none.
	LearnKernel kernel.Kernel

	// Activator accumulates a connection's contribution into its dendritic
	// register; args *SynapseArgs. Most models use attr.Activator().
	Activator kernel.Kernel

	// Updater adjusts a plastic connection's weights; kernel.Null for
	// models that never learn through separate weight updates.
	Updater kernel.Kernel

	// ProcessWeightMatrix registers auxiliary WeightMatrix variables
	// (trace, STDP/STP state) for a connection landing on a layer of this
	// model. May be nil.
	ProcessWeightMatrix func(m *weight.Matrix, c *netw.Connection)

	// InitAttrs seeds a freshly allocated Attributes instance's per-neuron
	// variables (resting potentials and the like). May be nil.
	InitAttrs func(a *Attributes)

	// Extract reads one output word at a delay as a float; nil uses the
	// OutputRing's generic decoding for the model's Kind.
	Extract func(r *OutputRing, v RingView, unit, delay int) float32

	// ClusterCompatible rejects cluster kinds the model cannot run under;
	// nil accepts all.
	ClusterCompatible func(kind string) bool
}

var (
	registryMu sync.Mutex
	registry   = map[string]Model{}
)

// Register adds m to the process-wide model registry, keyed by m.Name.
// Concrete models call this from an init() function.
func Register(m Model) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[m.Name] = m
}

// Lookup returns the registered Model for name.
func Lookup(name string) (Model, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	m, ok := registry[name]
	if !ok {
		return Model{}, fmt.Errorf("attr: no neural model registered under name %q", name)
	}
	return m, nil
}
