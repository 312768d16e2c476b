// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr

import (
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
)

// Layout locates one layer's regions within its Attributes instance's
// concatenated storage.
type Layout struct {
	Index     int      // position in Attributes.Layers
	UnitStart int      // first unit index in the per-neuron variable arrays
	RegStart  int      // first element of the layer's R_L registers in the register bank
	Out       RingView // region in the output ring
	Exp       RingView // single-word region in the expected-output buffer
	SOStart   int      // first element of the layer's second-order gate buffers
	SOCount   int      // number of second-order dendritic nodes in the layer
}

// Attributes owns all mutable per-neuron state for the layers of one
// (device, neural model) partition: the input register bank, the output
// ring with its delay history, the expected-output buffer, the second-order
// gate buffers, a per-layer reward accumulator, and the per-neuron variable
// arrays the concrete model registered.
type Attributes struct {
	Model  Model
	Device ptr.DeviceID

	Layers  []*netw.Layer
	layouts map[netw.ID]*Layout

	// Regs concatenates, per layer, R_L registers of |L| float32 each.
	Regs *ptr.Pointer[float32]

	// Out concatenates, per layer, W_L output words of |L| elements each.
	Out *OutputRing

	// Expected has the output layout with a single word per layer, written
	// by supervised modules through the expected transfer.
	Expected *OutputRing

	// Second concatenates each layer's second-order gate buffers, one |L|
	// block per second-order dendritic node.
	Second *ptr.Pointer[float32]

	// Reward holds one accumulator scalar per layer, fed by reward-opcode
	// connections.
	Reward *ptr.Pointer[float32]

	// Vars holds the per-neuron variable arrays the model registered, each
	// sized by the partition's total unit count.
	Vars map[string]*ptr.Pointer[float32]

	totalUnits int
}

// New allocates an Attributes instance for layers of the given model on
// device, laying out every region in the order layers are given. hasAccel
// selects pinned host allocation for the register bank when an accelerator
// is active; the output ring and the other regions are plain allocations.
func New(model Model, device ptr.DeviceID, layers []*netw.Layer, hasAccel bool) *Attributes {
	a := &Attributes{
		Model:   model,
		Device:  device,
		Layers:  layers,
		layouts: map[netw.ID]*Layout{},
		Vars:    map[string]*ptr.Pointer[float32]{},
	}
	regTotal, outTotal, expTotal, soTotal, units := 0, 0, 0, 0, 0
	for i, l := range layers {
		lay := &Layout{
			Index:     i,
			UnitStart: units,
			RegStart:  regTotal,
			Out:       RingView{Start: outTotal, Size: l.Len(), Words: l.OutputWords()},
			Exp:       RingView{Start: expTotal, Size: l.Len(), Words: 1},
			SOStart:   soTotal,
		}
		l.Root.Walk(func(n *netw.DendriticNode) {
			if n.SecondOrder {
				lay.SOCount++
			}
		})
		a.layouts[l.ID] = lay
		regTotal += l.NumRegisters * l.Len()
		outTotal += lay.Out.Len()
		expTotal += l.Len()
		soTotal += lay.SOCount * l.Len()
		units += l.Len()
	}
	a.totalUnits = units
	a.Regs = ptr.AllocPinned[float32](regTotal, device, hasAccel)
	a.Out = NewOutputRing(model.Kind, outTotal, device)
	a.Expected = NewOutputRing(model.Kind, expTotal, device)
	a.Second = ptr.Alloc[float32](soTotal, device)
	a.Reward = ptr.Alloc[float32](len(layers), device)
	for _, name := range model.NeuronVars {
		a.Vars[name] = ptr.Alloc[float32](units, device)
	}
	if model.InitAttrs != nil {
		model.InitAttrs(a)
	}
	return a
}

// Free releases every buffer this Attributes owns.
func (a *Attributes) Free() {
	a.Regs.Free()
	a.Out.Free()
	a.Expected.Free()
	a.Second.Free()
	a.Reward.Free()
	for _, v := range a.Vars {
		v.Free()
	}
}

// Layout returns the storage layout for l, which must belong to this
// Attributes instance.
func (a *Attributes) Layout(l *netw.Layer) *Layout {
	return a.layouts[l.ID]
}

// TotalUnits returns the summed unit count across this partition's layers.
func (a *Attributes) TotalUnits() int { return a.totalUnits }

// Register returns l's register regIdx as a |L|-length slice of the bank.
func (a *Attributes) Register(l *netw.Layer, regIdx int) []float32 {
	lay := a.layouts[l.ID]
	start := lay.RegStart + regIdx*l.Len()
	return a.Regs.Data()[start : start+l.Len()]
}

// RootRegister returns the register the layer's attribute kernel consumes.
func (a *Attributes) RootRegister(l *netw.Layer) []float32 {
	return a.Register(l, l.Root.RegIdx)
}

// SecondOrderBuf returns the gate buffer for l's second-order node soIdx.
func (a *Attributes) SecondOrderBuf(l *netw.Layer, soIdx int) []float32 {
	lay := a.layouts[l.ID]
	start := lay.SOStart + soIdx*l.Len()
	return a.Second.Data()[start : start+l.Len()]
}

// RewardSlice returns l's single-element reward accumulator.
func (a *Attributes) RewardSlice(l *netw.Layer) []float32 {
	lay := a.layouts[l.ID]
	return a.Reward.Data()[lay.Index : lay.Index+1]
}

// VarSlice returns the layer's region of the named per-neuron variable.
func (a *Attributes) VarSlice(l *netw.Layer, name string) []float32 {
	lay := a.layouts[l.ID]
	v := a.Vars[name]
	return v.Data()[lay.UnitStart : lay.UnitStart+l.Len()]
}

// Extract reads unit's output of l aged by delay, through the model's
// extractor when it defines one and the ring's generic decoding otherwise.
func (a *Attributes) Extract(l *netw.Layer, unit, delay int) float32 {
	v := a.layouts[l.ID].Out
	if a.Model.Extract != nil {
		return a.Model.Extract(a.Out, v, unit, delay)
	}
	return a.Out.Extract(v, unit, delay)
}
