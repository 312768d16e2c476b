// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

//go:generate core generate -add-types

// ConnType is the one-of connection shape taxonomy.
type ConnType int32 //enums:enum

const (
	// Full is the fully-connected type: every recv unit reads every send unit.
	Full ConnType = iota
	// OneToOne pairs recv unit i with send unit i; from/to layers must match shape.
	OneToOne
	// Subset connects every recv unit to a fixed contiguous range of the send layer.
	Subset
	// ConvergentArbor is a receiver-centered rectangular field (may share weights for Convolutional).
	ConvergentArbor
	// DivergentArbor is the reciprocal of ConvergentArbor: a sender-centered field.
	DivergentArbor
	// Convolutional is ConvergentArbor constrained to exactly one shared kernel.
	Convolutional
)

// Opcode is how a Connection's activation combines into its destination
// dendritic register.
type Opcode int32 //enums:enum

const (
	OpAdd Opcode = iota
	OpSub
	OpMult
	OpDiv
	OpPool
	OpGap
	OpReward
)

// ModelKind tags the per-layer output word encoding.
type ModelKind int32 //enums:enum

const (
	// ModelBit packs 32 timesteps of spikes per output word (spiking models).
	ModelBit ModelKind = iota
	// ModelFloat stores one float32 per output word (rate-coded models).
	ModelFloat
	// ModelInt stores one int32 per output word.
	ModelInt
)

// IOType is the module-facing role of a Layer: input, expected, output,
// internal, or a bitwise OR of them.
type IOType int32

const (
	IOInternal IOType = 0
	IOInput    IOType = 1 << iota
	IOExpected
	IOOutput
)

// Has reports whether t includes flag f.
func (t IOType) Has(f IOType) bool { return t&f != 0 }

// TimestepsPerOutput is the fixed word width for BIT models: 32 packed
// spike bits per output ring word. The encoding is exposed in persisted
// state, so it is a commitment, not an implementation detail.
const TimestepsPerOutput = 32

// MaxDelay is the hard upper bound on a connection's scalar delay: 31,
// one less than the 32-bit output-history word size.
const MaxDelay = 31
