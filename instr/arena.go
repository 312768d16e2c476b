// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instr implements the Instruction, the atomic scheduling unit of
// the engine, and the Arena that owns a cluster's instructions. Rather
// than raw back-pointers between instructions, every instruction carries an
// integer id within its owning Arena; dependencies are id pairs, and each
// instruction's completion Event lives in a parallel arena, created only
// when something actually depends on the instruction. This keeps the
// instruction graph cycle-free in ownership terms and trivially
// serializable.
package instr

import (
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
	"github.com/vgreg/pcnn/resmgr"
)

// ID is an instruction's index within its owning Arena.
type ID int

// Kind discriminates the instruction variants.
type Kind int32 //enums:enum

const (
	Set Kind = iota
	UniformNoise
	NormalNoise
	PoissonNoise
	SynapseActivate
	SynapseUpdate
	DendriticInternal
	InputTransfer
	OutputTransfer
	ExpectedTransfer
	StateUpdate
	InterDeviceTransfer
)

// Instruction is one scheduled unit of work: a kernel bound to a Stream,
// with dependencies satisfied through recorded Events. On activation it
// waits on every dependency, schedules its kernel, and records its own
// completion Event if anything depends on it.
type Instruction struct {
	ID   ID
	Kind Kind
	Name string

	// Layer/Conn identify what the instruction operates on; either may be
	// nil depending on Kind.
	Layer *netw.Layer
	Conn  *netw.Connection

	Stream *ptr.Stream

	kern kernel.Kernel
	args any

	plastic    bool
	setPlastic func(bool) // updates the args' plasticity flag, if it has one

	extDeps []*ptr.Event
}

// IsPlastic reports whether the engine may skip this instruction when
// learning is globally disabled.
func (in *Instruction) IsPlastic() bool { return in.plastic }

// AddExtDep adds a dependency Event recorded outside this instruction's
// Arena -- a cross-structure edge or an inter-device transfer.
func (in *Instruction) AddExtDep(ev *ptr.Event) {
	in.extDeps = append(in.extDeps, ev)
}

// Arena owns the instructions of one cluster node group. waits holds, per
// instruction, the ids it waits on; events is the parallel arena of
// completion Events.
type Arena struct {
	mgr    *resmgr.Manager
	instrs []*Instruction
	waits  [][]ID
	events []*ptr.Event
}

// NewArena creates an empty Arena drawing Events from mgr.
func NewArena(mgr *resmgr.Manager) *Arena {
	return &Arena{mgr: mgr}
}

// Add appends in and assigns its ID.
func (a *Arena) Add(in *Instruction) ID {
	in.ID = ID(len(a.instrs))
	a.instrs = append(a.instrs, in)
	a.waits = append(a.waits, nil)
	a.events = append(a.events, nil)
	return in.ID
}

// Get returns the instruction with the given id.
func (a *Arena) Get(id ID) *Instruction { return a.instrs[id] }

// Len returns the number of instructions in the arena.
func (a *Arena) Len() int { return len(a.instrs) }

// AddDep makes `to` wait for `from`'s completion, creating from's Event on
// first use.
func (a *Arena) AddDep(from, to ID) error {
	if _, err := a.EnsureEvent(from); err != nil {
		return err
	}
	a.waits[to] = append(a.waits[to], from)
	return nil
}

// EnsureEvent returns from's completion Event, creating it if this is the
// first dependent. Used directly for cross-arena dependencies.
func (a *Arena) EnsureEvent(from ID) (*ptr.Event, error) {
	if a.events[from] == nil {
		ev, err := a.mgr.NewEvent(a.instrs[from].Stream.Device().ID)
		if err != nil {
			return nil, err
		}
		a.events[from] = ev
	}
	return a.events[from], nil
}

// Event returns from's completion Event, or nil if nothing depends on it.
func (a *Arena) Event(from ID) *ptr.Event { return a.events[from] }

// ResetEvents clears every recorded Event at the start of a timestep, so
// the same Event values serialize the next timestep's activations too.
func (a *Arena) ResetEvents() {
	for _, ev := range a.events {
		if ev != nil {
			ev.Reset()
		}
	}
}

// SetLearning propagates the run's learning flag into every instruction's
// kernel args before a run starts.
func (a *Arena) SetLearning(learn bool) {
	for _, in := range a.instrs {
		if in.setPlastic != nil {
			in.setPlastic(learn)
		}
	}
}

// Activate submits instruction id: waits on its dependencies, schedules
// its kernel on its Stream, and records its completion Event if one was
// created. When learning is off a plastic instruction's kernel is skipped
// but its Event is still recorded, so dependents do not stall.
func (a *Arena) Activate(id ID, learning bool) {
	in := a.instrs[id]
	ev := a.events[id]
	if in.plastic && !learning {
		if ev != nil {
			in.Stream.RecordEvent(ev)
		}
		return
	}
	for _, from := range a.waits[id] {
		in.Stream.WaitFor(a.events[from])
	}
	for _, dep := range in.extDeps {
		in.Stream.WaitFor(dep)
	}
	in.kern.Schedule(in.Stream, in.args, a.mgr.Pool())
	if ev != nil {
		in.Stream.RecordEvent(ev)
	}
}
