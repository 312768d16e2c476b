// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package weight implements WeightMatrix: dense per-connection
// weight storage, auxiliary same-shape variable layers registered by a
// neuron model (traces, STDP/STP state, per-weight delays), lazy
// transposition for row-contiguous kernel reads, and the weight-config
// tagged union that initializes a Matrix's values.
package weight

import "cogentcore.org/core/tensor"

// Matrix is the dense weight storage for one Connection: Rows (recv units)
// x Cols (send units), row-major, matching the conn.Pattern connectivity
// bitmap's [recvIdx*send.Len()+sendIdx] indexing. Convolutional connections
// (exactly one shared kernel) instead store a single Rows x Cols
// kernel shared by every receiving unit's field -- see Shared.
type Matrix struct {
	Rows, Cols int
	Values     *tensor.Float32

	// Shared is true for a Convolutional connection's one shared kernel
	// When true Values has shape
	// [FieldRows, FieldCols] rather than [Rows, Cols].
	Shared bool

	// Aux holds same-shape auxiliary variable layers registered by the
	// receiving neuron model at initialization (trace, eligibility,
	// short-term-plasticity, per-weight delay, ...), keyed by name.
	Aux map[string]*tensor.Float32

	// Delays holds per-weight integer delays, set by InitDelays when the
	// Connection has a DelayInit config; nil means every weight uses the
	// Connection's single scalar Delay.
	Delays []int32

	transposed *tensor.Float32 // lazily (re-)derived; invalidated by any Set*
}

// NewMatrix allocates a zeroed dense Rows x Cols weight matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		Rows: rows, Cols: cols,
		Values: tensor.NewFloat32([]int{rows, cols}),
		Aux:    map[string]*tensor.Float32{},
	}
}

// NewSharedMatrix allocates the single kernel of a Convolutional connection.
func NewSharedMatrix(fieldRows, fieldCols int) *Matrix {
	m := NewMatrix(fieldRows, fieldCols)
	m.Shared = true
	return m
}

// RegisterAux adds a same-shape auxiliary variable layer under name,
// invoked by a neuron model's weight-matrix hook at state-build time.
// Re-registering the same name is a no-op.
func (m *Matrix) RegisterAux(name string) *tensor.Float32 {
	if v, ok := m.Aux[name]; ok {
		return v
	}
	v := tensor.NewFloat32([]int{m.Values.Dim(0), m.Values.Dim(1)})
	m.Aux[name] = v
	return v
}

// At returns the weight at (row, col).
func (m *Matrix) At(row, col int) float32 {
	return m.Values.Value([]int{row, col})
}

// Set assigns the weight at (row, col) and invalidates the transposed cache.
func (m *Matrix) Set(row, col int, val float32) {
	m.Values.Set([]int{row, col}, val)
	m.transposed = nil
}

// SetAll assigns every weight to val.
func (m *Matrix) SetAll(val float32) {
	for i := range m.Values.Values {
		m.Values.Values[i] = val
	}
	m.transposed = nil
}

// Invalidate drops the transposed cache after direct writes through
// Values, the bulk-update path kernels use instead of per-element Set.
func (m *Matrix) Invalidate() {
	m.transposed = nil
}

// Clamp clips every weight into r; plastic connections stay clamped to
// their range after every update.
func (m *Matrix) Clamp(r Range) {
	for i, v := range m.Values.Values {
		m.Values.Values[i] = r.ClipVal(v)
	}
	m.transposed = nil
}

// Transposed returns a Cols x Rows view with axes swapped, re-derived on
// demand: lazily built and invalidated by any mutation, for kernels that
// want send-major row-contiguous reads. The ordinary kernel path reads
// Values directly; weight/matrix_test.go checks the two layouts agree.
func (m *Matrix) Transposed() *tensor.Float32 {
	if m.transposed != nil {
		return m.transposed
	}
	t := tensor.NewFloat32([]int{m.Cols, m.Rows})
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			t.Set([]int{c, r}, m.Values.Value([]int{r, c}))
		}
	}
	m.transposed = t
	return t
}

// DelayAt returns the delay for weight (row, col): the per-weight Delays
// value if present, else fallback (the Connection's scalar Delay).
func (m *Matrix) DelayAt(row, col, fallback int) int {
	if m.Delays == nil {
		return fallback
	}
	return int(m.Delays[row*m.Cols+col])
}
