// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgreg/pcnn/attr"
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
	"github.com/vgreg/pcnn/resmgr"
	"github.com/vgreg/pcnn/weight"
)

func init() {
	attr.Register(attr.Model{
		Name:       "state-test",
		Kind:       netw.ModelFloat,
		AttrKernel: kernel.Kernel{Name: "noop", Serial: func(any) {}},
		Activator:  attr.Activator(),
		Updater:    kernel.Null,
		ProcessWeightMatrix: func(m *weight.Matrix, c *netw.Connection) {
			m.RegisterAux("trace")
		},
	})
}

func devs(ids ...ptr.DeviceID) []ptr.DeviceID { return ids }

func twoLayerNet(t *testing.T) (*netw.Network, *netw.Layer, *netw.Layer, *netw.Connection) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "state-test", netw.ModelFloat, 1, 2)
	b := n.AddLayer(s, "B", "state-test", netw.ModelFloat, 1, 2)
	c, err := n.Connect(a, b, netw.Connection{
		Type: netw.Full, Op: netw.OpAdd, MaxWeight: 1,
		WeightInit: &weight.Specified{Values: "0.5 0.25 1.0 0.0"},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, n.Finalize())
	return n, a, b, c
}

func TestBuildSingleDevice(t *testing.T) {
	n, a, b, c := twoLayerNet(t)
	mgr := resmgr.New(0, 0, 1)
	defer mgr.Shutdown()
	host := resmgr.HostID(0)

	st, err := Build(n, devs(host), mgr, nil)
	require.NoError(t, err)
	assert.Equal(t, host, st.Device(a))
	assert.Equal(t, host, st.Device(b))
	assert.Same(t, st.Attrs(a), st.Attrs(b))
	assert.False(t, c.InterDev)

	m := st.Matrix(c)
	assert.EqualValues(t, 0.5, m.At(0, 0))
	assert.Contains(t, m.Aux, "trace")
	assert.NotNil(t, st.Cons(c))
}

func TestBuildInterDevice(t *testing.T) {
	n, a, b, c := twoLayerNet(t)
	mgr := resmgr.New(1, 0, 1)
	defer mgr.Shutdown()
	host := resmgr.HostID(1)

	// round-robin places A on the accelerator, B on the host
	st, err := Build(n, devs(0, host), mgr, nil)
	require.NoError(t, err)
	assert.True(t, c.InterDev)
	assert.NotNil(t, st.Mirror(a, host))
	assert.Nil(t, st.Mirror(b, 0))

	ring, view := st.SrcRing(c)
	assert.Same(t, st.Mirror(a, host), ring)
	assert.Equal(t, 0, view.Start)
}

func TestBuildBuffers(t *testing.T) {
	n, a, b, _ := twoLayerNet(t)
	mgr := resmgr.New(0, 0, 1)
	defer mgr.Shutdown()
	host := resmgr.HostID(0)
	st, err := Build(n, devs(host), mgr, nil)
	require.NoError(t, err)

	st.BuildBuffers(map[netw.ID]netw.IOType{
		a.ID: netw.IOInput,
		b.ID: netw.IOOutput | netw.IOExpected,
	})
	buf := st.Buffer(host)
	assert.True(t, buf.HasInput(a))
	assert.False(t, buf.HasInput(b))
	assert.True(t, buf.HasOutput(b))
	assert.True(t, buf.HasExpected(b))
	assert.Len(t, buf.InputSlice(a), 2)

	buf.SetDirty(a)
	assert.True(t, buf.TestAndClearDirty(a))
	assert.False(t, buf.TestAndClearDirty(a))
}

func TestBuildUnknownModelRejected(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	n.AddLayer(s, "A", "no-such-model", netw.ModelFloat, 1, 1)
	require.NoError(t, n.Finalize())
	mgr := resmgr.New(0, 0, 1)
	defer mgr.Shutdown()
	_, err := Build(n, devs(resmgr.HostID(0)), mgr, nil)
	assert.Error(t, err)
}
