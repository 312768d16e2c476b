// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectFullyConnected(t *testing.T) {
	n := NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", ModelFloat, 1, 2)
	b := n.AddLayer(s, "B", "rate", ModelFloat, 1, 2)
	c, err := n.Connect(a, b, Connection{Type: Full, Op: OpAdd, MaxWeight: 1}, nil)
	require.NoError(t, err)
	rows, cols, shared := c.WeightShape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.False(t, shared)
	require.NoError(t, n.Finalize())
}

func TestOneToOneMismatchRejected(t *testing.T) {
	n := NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", ModelFloat, 1, 2)
	b := n.AddLayer(s, "B", "rate", ModelFloat, 1, 3)
	_, err := n.Connect(a, b, Connection{Type: OneToOne, Op: OpAdd}, nil)
	assert.Error(t, err)
}

func TestDelayOutOfRangeRejected(t *testing.T) {
	n := NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "spk", ModelBit, 1, 1)
	_, err := n.Connect(a, a, Connection{Type: OneToOne, Op: OpAdd, Delay: 32}, nil)
	assert.Error(t, err)
	_, err = n.Connect(a, a, Connection{Type: OneToOne, Op: OpAdd, Delay: 32, CapDelay: true}, nil)
	assert.NoError(t, err)
}

func TestGapRequiresSameShape(t *testing.T) {
	n := NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", ModelFloat, 1, 2)
	b := n.AddLayer(s, "B", "rate", ModelFloat, 1, 3)
	_, err := n.Connect(a, b, Connection{Type: Full, Op: OpGap}, nil)
	assert.Error(t, err)
}

func TestConvolutionalSharedKernel(t *testing.T) {
	n := NewNetwork()
	s := n.AddStructure("S")
	in := n.AddLayer(s, "In", "rate", ModelFloat, 5, 5)
	out := n.AddLayer(s, "Out", "rate", ModelFloat, 3, 3)
	c, err := n.Connect(in, out, Connection{
		Type: Convolutional, Op: OpAdd, MaxWeight: 1,
		Field: Field{Rows: 3, Cols: 3, StrideRows: 1, StrideCols: 1},
	}, nil)
	require.NoError(t, err)
	rows, cols, shared := c.WeightShape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.True(t, shared)
}

func TestFinalizeComputesMaxOutputDelayAndRegisters(t *testing.T) {
	n := NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "spk", ModelBit, 1, 1)
	_, err := n.Connect(a, a, Connection{Type: OneToOne, Op: OpAdd, Delay: 5}, nil)
	require.NoError(t, err)
	require.NoError(t, n.Finalize())
	assert.Equal(t, 5, a.MaxOutputDelay)
	assert.Equal(t, 1+5/TimestepsPerOutput, a.OutputWords())
	assert.Equal(t, 1, a.NumRegisters) // single root register, add opcode
}
