// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgreg/pcnn/netw"
)

func TestBitRingSpikeAging(t *testing.T) {
	r := NewOutputRing(netw.ModelBit, 2, 0)
	v := RingView{Start: 0, Size: 1, Words: 2}

	// spike at the first timestep, silence after
	r.Shift(v)
	r.SetSpike(v, 0, true)
	for d := 0; d < 10; d++ {
		r.Shift(v)
		r.SetSpike(v, 0, false)
	}
	// the spike is now aged by exactly 10 timesteps
	for d := 0; d <= 11; d++ {
		want := float32(0)
		if d == 10 {
			want = 1
		}
		assert.Equal(t, want, r.Extract(v, 0, d), "delay %d", d)
	}
}

func TestBitRingCarryAcrossWords(t *testing.T) {
	r := NewOutputRing(netw.ModelBit, 2, 0)
	v := RingView{Start: 0, Size: 1, Words: 2}

	r.Shift(v)
	r.SetSpike(v, 0, true)
	// age the spike past the newest word's 32 bits: it must carry into
	// word 0's low bit at exactly delay 32
	for i := 0; i < 32; i++ {
		r.Shift(v)
		r.SetSpike(v, 0, false)
	}
	assert.Equal(t, float32(1), r.Extract(v, 0, 32))
	assert.Equal(t, float32(0), r.Extract(v, 0, 31))
	assert.Equal(t, float32(0), r.Extract(v, 0, 33))
}

func TestFloatRingOldestAtWordZero(t *testing.T) {
	r := NewOutputRing(netw.ModelFloat, 3, 0)
	v := RingView{Start: 0, Size: 1, Words: 3}

	for step := 1; step <= 5; step++ {
		r.Shift(v)
		r.SetFloat(v, 0, float32(step))
	}
	f := r.Floats.Data()
	assert.Equal(t, float32(3), f[0]) // oldest
	assert.Equal(t, float32(4), f[1])
	assert.Equal(t, float32(5), f[2]) // newest
	assert.Equal(t, float32(5), r.Extract(v, 0, 0))
	assert.Equal(t, float32(3), r.Extract(v, 0, 2))
}

func TestAttributesLayout(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "m", netw.ModelFloat, 2, 2)
	b := n.AddLayer(s, "B", "m", netw.ModelFloat, 1, 3)
	_, err := n.Connect(a, b, netw.Connection{Type: netw.Full, Op: netw.OpAdd, MaxWeight: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, n.Finalize())

	at := New(Model{Name: "m", Kind: netw.ModelFloat, NeuronVars: []string{"v"}}, 0,
		[]*netw.Layer{a, b}, false)
	defer at.Free()

	assert.Equal(t, 7, at.TotalUnits())
	assert.Len(t, at.RootRegister(a), 4)
	assert.Len(t, at.RootRegister(b), 3)
	assert.Len(t, at.VarSlice(b, "v"), 3)
	assert.Equal(t, 1, at.Layout(b).Out.Words)
	assert.Equal(t, 4, at.Layout(b).Out.Start)
}
