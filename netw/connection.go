// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

import (
	"github.com/vgreg/pcnn/conn"
	"github.com/vgreg/pcnn/perr"
	"github.com/vgreg/pcnn/weight"
)

// Field carries a connection type's shape config:
// arborized field sizes/strides/offsets for ConvergentArbor/DivergentArbor/
// Convolutional, or subset ranges for Subset. Unused fields are left zero
// for other ConnType values.
type Field struct {
	Rows, Cols             int // FieldRows/FieldCols (arborized), or Rows/Cols (Subset)
	StrideRows, StrideCols int
	OffsetRows, OffsetCols int // also doubles as RowStart/ColStart for Subset
	Wrap                   bool
	PoolMax                bool // max-pool reduction instead of weighted sum
}

// Connection is a directed edge between two Layers. Connections
// are created by the builder and never mutated by the engine; State owns
// the weight.Matrix a Connection's (Type, From, To, Field) describe.
type Connection struct {
	Name string
	From *Layer
	To   *Layer

	Type ConnType
	Op   Opcode

	Delay     int // scalar delay in timesteps; per-weight delays may override (weight.Matrix.Delays)
	CapDelay  bool
	Plastic   bool
	MinWeight float32
	MaxWeight float32

	// WeightInit initializes this connection's weight.Matrix at state-build
	// time; nil leaves the matrix zeroed. ZeroDiag additionally zeroes the
	// diagonal, legal only for square Full or Subset connections.
	WeightInit weight.Config
	ZeroDiag   bool

	// DelayInit, when non-nil, derives per-weight delays from geometric
	// distance at state-build time, overriding the scalar Delay per weight.
	DelayInit *weight.DelayConfig

	Field Field

	SelfCon  bool // honored by Full/Rect patterns when From == To
	Node     *DendriticNode
	InterDev bool // set by state.Build when From/To live on different devices
}

// Pattern returns the conn.Pattern implementation for this Connection's
// Type, configured from Field. Convolutional reuses ConvergentArbor's
// pattern (exactly one shared kernel is a weight.Matrix concern, not a
// connectivity concern).
func (c *Connection) Pattern() conn.Pattern {
	switch c.Type {
	case Full:
		return &conn.Full{SelfCon: c.SelfCon}
	case OneToOne:
		return conn.NewOneToOne()
	case Subset:
		s := conn.NewSubset()
		s.RowStart, s.ColStart = c.Field.OffsetRows, c.Field.OffsetCols
		s.Rows, s.Cols = c.Field.Rows, c.Field.Cols
		return s
	case ConvergentArbor, Convolutional:
		r := fieldToRect(c.Field)
		r.SelfCon = c.SelfCon
		return r
	case DivergentArbor:
		r := fieldToRect(c.Field)
		r.SelfCon = c.SelfCon
		r.Recip = true
		return r
	}
	return nil
}

func fieldToRect(f Field) *conn.Rect {
	r := conn.NewRect()
	r.FieldRows, r.FieldCols = f.Rows, f.Cols
	r.StrideRows, r.StrideCols = f.StrideRows, f.StrideCols
	r.OffsetRows, r.OffsetCols = f.OffsetRows, f.OffsetCols
	r.Wrap = f.Wrap
	r.PoolMax = f.PoolMax
	return r
}

// WeightShape returns the (rows, cols, shared) a weight.Matrix for this
// Connection should allocate: Rows=To.Len(), Cols=From.Len() for an
// ordinary connection, or the single field's extent with shared=true for
// Convolutional, which always has exactly one shared kernel.
func (c *Connection) WeightShape() (rows, cols int, shared bool) {
	if c.Type == Convolutional {
		return c.Field.Rows, c.Field.Cols, true
	}
	return c.To.Len(), c.From.Len(), false
}

// Validate checks the build-time invariants: one-to-one shape mismatch,
// gap junctions between differently-shaped layers, and out-of-range delay
// without CapDelay.
func (c *Connection) Validate() error {
	if c.Type == OneToOne && (c.From.Rows != c.To.Rows || c.From.Cols != c.To.Cols) {
		return perr.Wrapf(perr.ErrInvalidTopology,
			"connection %s: one-to-one requires matching shapes, got %dx%d -> %dx%d",
			c.Name, c.From.Rows, c.From.Cols, c.To.Rows, c.To.Cols)
	}
	if c.Op == OpGap && (c.From.Rows != c.To.Rows || c.From.Cols != c.To.Cols) {
		return perr.Wrapf(perr.ErrInvalidTopology,
			"connection %s: gap junction requires identically-shaped layers", c.Name)
	}
	if c.Delay > MaxDelay && !c.CapDelay {
		return perr.Wrapf(perr.ErrDelayOutOfRange,
			"connection %s: delay %d exceeds %d and cap_delay is false", c.Name, c.Delay, MaxDelay)
	}
	if c.ZeroDiag {
		if c.Type != Full && c.Type != Subset {
			return perr.Wrapf(perr.ErrInvalidConfig,
				"connection %s: diagonal=false only valid for fully-connected or subset", c.Name)
		}
		if c.From.Len() != c.To.Len() {
			return perr.Wrapf(perr.ErrInvalidConfig,
				"connection %s: diagonal=false requires a square weight matrix", c.Name)
		}
	}
	if c.Type == Convolutional && c.Field.Rows <= 0 {
		return perr.Wrapf(perr.ErrInvalidConfig, "connection %s: convolutional requires a field size", c.Name)
	}
	return nil
}
