// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package weight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgreg/pcnn/erand"
	"github.com/vgreg/pcnn/perr"
)

func TestFlatFraction(t *testing.T) {
	m := NewMatrix(2, 2)
	cfg := &Flat{Value: 1.0, Fraction: 0.5}
	require.NoError(t, Init(m, cfg, 1, erand.NewSysRand(1), -1))
	assert.EqualValues(t, 1.0, m.Values.Values[0])
	assert.EqualValues(t, 1.0, m.Values.Values[1])
	assert.EqualValues(t, 0.0, m.Values.Values[2])
	assert.EqualValues(t, 0.0, m.Values.Values[3])
}

func TestGaussianClamped(t *testing.T) {
	m := NewMatrix(4, 4)
	cfg := &Gaussian{Mean: 0, Std: 100, Fraction: 1}
	require.NoError(t, Init(m, cfg, 1.0, erand.NewSysRand(2), -1))
	for _, v := range m.Values.Values {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestSpecifiedCountMismatch(t *testing.T) {
	m := NewMatrix(2, 2)
	cfg := &Specified{Values: "1 2 3"}
	err := Init(m, cfg, 1, erand.NewSysRand(1), -1)
	assert.Error(t, err)
}

func TestSpecified(t *testing.T) {
	m := NewMatrix(2, 2)
	cfg := &Specified{Values: "0.5 0.25 1.0 0.0"}
	require.NoError(t, Init(m, cfg, 1, erand.NewSysRand(1), -1))
	assert.EqualValues(t, 0.5, m.At(0, 0))
	assert.EqualValues(t, 0.25, m.At(0, 1))
	assert.EqualValues(t, 1.0, m.At(1, 0))
	assert.EqualValues(t, 0.0, m.At(1, 1))
}

func TestSurroundRejectsNonSmallerWindow(t *testing.T) {
	m := NewSharedMatrix(3, 3)
	cfg := &Surround{Inner: &Flat{Value: 1, Fraction: 1}, Rows: 3, Cols: 1}
	err := Init(m, cfg, 1, erand.NewSysRand(1), -1)
	assert.ErrorIs(t, err, perr.ErrInvalidConfig)
}

func TestSurroundZeroesWindow(t *testing.T) {
	m := NewSharedMatrix(5, 5)
	cfg := &Surround{Inner: &Flat{Value: 1, Fraction: 1}, Rows: 3, Cols: 3}
	require.NoError(t, Init(m, cfg, 1, erand.NewSysRand(1), -1))
	for r := 1; r < 4; r++ {
		for c := 1; c < 4; c++ {
			assert.EqualValues(t, 0, m.At(r, c))
		}
	}
	assert.EqualValues(t, 1, m.At(0, 0))
}

func TestGaussianFieldPeaksAtCenter(t *testing.T) {
	m := NewSharedMatrix(3, 3)
	cfg := &GaussianField{Max: 1, Sigma: 0.5}
	require.NoError(t, Init(m, cfg, 1, erand.NewSysRand(1), -1))
	ctr := m.At(1, 1)
	assert.InDelta(t, 1.0, ctr, 1e-4)
	assert.Less(t, m.At(0, 0), ctr)
	assert.Less(t, m.At(0, 1), ctr)
	// corners are farther than edge midpoints
	assert.Less(t, m.At(0, 0), m.At(0, 1))
}

func TestTransposedMatchesPrimary(t *testing.T) {
	m := NewMatrix(2, 3)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, float32(r*10+c))
		}
	}
	tr := m.Transposed()
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			assert.Equal(t, m.At(r, c), tr.Value([]int{c, r}))
		}
	}
}

func TestClamp(t *testing.T) {
	m := NewMatrix(1, 3)
	m.Values.Values[0], m.Values.Values[1], m.Values.Values[2] = -1, 0.5, 5
	m.Clamp(Range{Min: 0, Max: 1})
	assert.EqualValues(t, 0, m.Values.Values[0])
	assert.EqualValues(t, 0.5, m.Values.Values[1])
	assert.EqualValues(t, 1, m.Values.Values[2])
}
