// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

import (
	"github.com/vgreg/pcnn/conn"
	"github.com/vgreg/pcnn/erand"
)

// ID uniquely identifies a Layer within a Network, assigned by the builder.
type ID int

// Layer is a rectangular grid of neurons, immutable after network
// construction. It is owned by a Structure; its Ins/Outs are
// non-owning back-references to Connections owned by the Network.
type Layer struct {
	ID    ID
	Name  string
	Model string // neural-model tag, looked up via attr.Lookup at build time
	Kind  ModelKind

	Rows, Cols int

	Ins  []*Connection // incoming connections, in build order
	Outs []*Connection // outgoing connections, in build order

	Root *DendriticNode // root of this layer's dendritic aggregation tree

	MaxOutputDelay int // max delay read from this layer's output ring, set by Finalize
	NumRegisters   int // R_L: one more than the max register index used (set by AssignRegisters)

	// Noise, when non-nil, selects the noise variant used to initialize
	// this layer's root input register each timestep in place of a plain
	// broadcast. NoiseOverwrite is not read by the scheduler: noise replaces
	// the root register on layers without an input module and is added on
	// top of module input on input layers.
	Noise          *erand.RndParams
	NoiseOverwrite bool

	// InitValue is broadcast into the root register each timestep when the
	// layer has no input module and no Noise config. Usually zero.
	InitValue float32

	structure *Structure
}

// NewLayer creates a Layer of the given shape with an empty dendritic root
// (a plain-add leaf representing the layer's own external/module input).
func NewLayer(id ID, name, model string, kind ModelKind, rows, cols int) *Layer {
	return &Layer{
		ID: id, Name: name, Model: model, Kind: kind,
		Rows: rows, Cols: cols,
		Root: NewDendriticNode(name+".root", OpAdd),
	}
}

// Shape returns this Layer's extent as a conn.Shape, the only view of a
// Layer package conn's Pattern implementations are allowed to see.
func (l *Layer) Shape() conn.Shape { return conn.Shape{Rows: l.Rows, Cols: l.Cols} }

// Len returns the unit count, Rows*Cols.
func (l *Layer) Len() int { return l.Rows * l.Cols }

// Structure returns the owning Structure.
func (l *Layer) Structure() *Structure { return l.structure }

// AssignRegisters walks the dendritic tree and assigns each node a
// register index in input-register-bank order, so the layer needs one
// more register than the maximum index used. Also assigns second-order
// buffer slots.
func (l *Layer) AssignRegisters() {
	next := 0
	nextSO := 0
	l.Root.Walk(func(n *DendriticNode) {
		if n.SecondOrder {
			n.SOIdx = nextSO
			nextSO++
			return
		}
		n.RegIdx = next
		next++
	})
	l.NumRegisters = next
}

// OutputWords returns W_L, the output ring word count for this layer:
// 1 + floor(MaxOutputDelay / TimestepsPerOutput) for BIT models, whose
// words pack 32 timesteps each, and 1 + MaxOutputDelay for float/int
// models, whose words hold one timestep each.
func (l *Layer) OutputWords() int {
	if l.Kind != ModelBit {
		return 1 + l.MaxOutputDelay
	}
	return 1 + l.MaxOutputDelay/TimestepsPerOutput
}

// Structure is a collection of Layers scheduled together by one Cluster
// Layers are owned by their Structure.
type Structure struct {
	Name   string
	Layers []*Layer
}

// NewStructure creates an empty, named Structure.
func NewStructure(name string) *Structure { return &Structure{Name: name} }

// AddLayer appends l to s and sets its back-reference.
func (s *Structure) AddLayer(l *Layer) {
	l.structure = s
	s.Layers = append(s.Layers, l)
}
