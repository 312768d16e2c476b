// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgreg/pcnn/attr"
	"github.com/vgreg/pcnn/netw"
)

func TestRateKernelPassesInputThrough(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	l := n.AddLayer(s, "L", "rate", netw.ModelFloat, 1, 3)
	require.NoError(t, n.Finalize())

	model, err := attr.Lookup("rate")
	require.NoError(t, err)
	a := attr.New(model, 0, []*netw.Layer{l}, false)
	defer a.Free()

	root := a.RootRegister(l)
	copy(root, []float32{0.5, -1, 2})

	lay := a.Layout(l)
	args := &attr.AttrKernelArgs{
		Attrs: a, Layer: l, Out: lay.Out,
		RegStart: lay.RegStart, UnitStart: lay.UnitStart, Size: l.Len(),
	}
	model.AttrKernel.Run(args, nil)

	assert.Equal(t, float32(0.5), a.Extract(l, 0, 0))
	assert.Equal(t, float32(-1), a.Extract(l, 1, 0))
	assert.Equal(t, float32(2), a.Extract(l, 2, 0))
	assert.Equal(t, float32(2), a.VarSlice(l, ActVar)[2])
	for i, v := range root {
		assert.Zero(t, v, "register %d must be cleared", i)
	}
}
