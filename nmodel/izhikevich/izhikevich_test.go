// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package izhikevich

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgreg/pcnn/attr"
	"github.com/vgreg/pcnn/netw"
)

func build(t *testing.T) (*attr.Attributes, *netw.Layer, *attr.AttrKernelArgs) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	l := n.AddLayer(s, "L", "izhikevich", netw.ModelBit, 1, 1)
	require.NoError(t, n.Finalize())

	model, err := attr.Lookup("izhikevich")
	require.NoError(t, err)
	a := attr.New(model, 0, []*netw.Layer{l}, false)
	lay := a.Layout(l)
	args := &attr.AttrKernelArgs{
		Attrs: a, Layer: l, Out: lay.Out,
		RegStart: lay.RegStart, UnitStart: lay.UnitStart, Size: l.Len(),
	}
	return a, l, args
}

func TestRestingNeuronStaysSilent(t *testing.T) {
	a, l, args := build(t)
	defer a.Free()
	model := a.Model
	for step := 0; step < 100; step++ {
		model.AttrKernel.Run(args, nil)
		assert.Zero(t, a.Extract(l, 0, 0))
	}
	// the rest state settles near the subthreshold fixed point
	v := a.VarSlice(l, VoltageVar)[0]
	assert.Greater(t, v, float32(-80))
	assert.Less(t, v, float32(-50))
}

func TestDrivenNeuronSpikes(t *testing.T) {
	a, l, args := build(t)
	defer a.Free()
	model := a.Model
	spikes := 0
	for step := 0; step < 200; step++ {
		a.RootRegister(l)[0] = 10
		model.AttrKernel.Run(args, nil)
		spikes += int(a.Extract(l, 0, 0))
		v := a.VarSlice(l, VoltageVar)[0]
		require.False(t, math.IsNaN(float64(v)), "voltage diverged at step %d", step)
		require.Less(t, v, float32(spikeThresh))
	}
	assert.Greater(t, spikes, 0, "sustained current must elicit spikes")
	assert.Zero(t, a.RootRegister(l)[0], "kernel must clear the input register")
}
