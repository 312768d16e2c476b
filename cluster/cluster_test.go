// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgreg/pcnn/attr"
	"github.com/vgreg/pcnn/instr"
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	_ "github.com/vgreg/pcnn/nmodel/rate"
	"github.com/vgreg/pcnn/perr"
	"github.com/vgreg/pcnn/ptr"
	"github.com/vgreg/pcnn/resmgr"
	"github.com/vgreg/pcnn/state"
	"github.com/vgreg/pcnn/weight"
)

// pulse is the spiking test model: it records unit 0's aggregated input
// each timestep and emits exactly one spike, on its first invocation.
var pulseInputs []float32

func init() {
	attr.Register(attr.Model{
		Name: "pulse-test",
		Kind: netw.ModelBit,
		AttrKernel: kernel.Kernel{
			Name: "pulse-attr",
			Serial: func(in any) {
				args := in.(*attr.AttrKernelArgs)
				a, l := args.Attrs, args.Layer
				a.Out.Shift(args.Out)
				root := a.RootRegister(l)
				pulseInputs = append(pulseInputs, root[0])
				a.Out.SetSpike(args.Out, 0, len(pulseInputs) == 1)
				root[0] = 0
			},
		},
		LearnKernel: kernel.Null,
		Activator:   attr.Activator(),
		Updater:     kernel.Null,
	})
}

func hostOnly(t *testing.T) (*resmgr.Manager, []ptr.DeviceID) {
	t.Helper()
	mgr := resmgr.New(0, 0, 1)
	t.Cleanup(mgr.Shutdown)
	return mgr, []ptr.DeviceID{resmgr.HostID(0)}
}

func step(cs []*Cluster, learn bool) {
	for _, c := range cs {
		c.ResetEvents()
	}
	for _, c := range cs {
		c.LaunchPreInput(learn)
	}
	for _, c := range cs {
		c.LaunchInput(learn)
	}
	for _, c := range cs {
		c.WaitForInput()
	}
	for _, c := range cs {
		c.LaunchPostInput(learn)
	}
	for _, c := range cs {
		c.LaunchStateUpdate(learn)
	}
	if learn {
		for _, c := range cs {
			c.LaunchWeightUpdate(learn)
		}
	}
	for _, c := range cs {
		c.LaunchOutput(learn)
	}
	for _, c := range cs {
		c.WaitForOutput()
		c.WaitForState()
	}
}

// A single spiking neuron with a delayed self-connection: the one spike at
// t=0 arrives back on the input register at exactly t=5.
func TestDelayedSelfConnection(t *testing.T) {
	pulseInputs = nil
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	l := n.AddLayer(s, "L", "pulse-test", netw.ModelBit, 1, 1)
	_, err := n.Connect(l, l, netw.Connection{
		Type: netw.OneToOne, Op: netw.OpAdd, Delay: 5, MaxWeight: 1,
		SelfCon:    true,
		WeightInit: &weight.Flat{Value: 1, Fraction: 1},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, n.Finalize())

	mgr, devs := hostOnly(t)
	st, err := state.Build(n, devs, mgr, nil)
	require.NoError(t, err)
	st.BuildBuffers(nil)

	c, err := Build(st, s, Parallel)
	require.NoError(t, err)
	require.NoError(t, Link([]*Cluster{c}))

	for i := 0; i <= 10; i++ {
		step([]*Cluster{c}, false)
	}
	require.Len(t, pulseInputs, 11)
	for i, in := range pulseInputs {
		want := float32(0)
		if i == 5 {
			want = 1
		}
		assert.Equal(t, want, in, "input register at t=%d", i)
	}
}

// Fully-connected rate-coded feedforward step: B sees A's current-timestep
// output through the specified weights.
func TestFeedforwardFullyConnected(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 2)
	b := n.AddLayer(s, "B", "rate", netw.ModelFloat, 1, 2)
	_, err := n.Connect(a, b, netw.Connection{
		Type: netw.Full, Op: netw.OpAdd, MaxWeight: 2,
		WeightInit: &weight.Specified{Values: "0.5 1.0 0.25 0.0"},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, n.Finalize())

	mgr, devs := hostOnly(t)
	st, err := state.Build(n, devs, mgr, nil)
	require.NoError(t, err)
	st.BuildBuffers(map[netw.ID]netw.IOType{a.ID: netw.IOInput})

	c, err := Build(st, s, Feedforward)
	require.NoError(t, err)
	require.NoError(t, Link([]*Cluster{c}))

	buf := st.Buffer(devs[0])
	copy(buf.InputSlice(a), []float32{1, 2})
	buf.SetDirty(a)
	step([]*Cluster{c}, false)

	at := st.Attrs(b)
	assert.InDelta(t, 2.5, at.Extract(b, 0, 0), 1e-6)
	assert.InDelta(t, 0.25, at.Extract(b, 1, 0), 1e-6)
}

// Convolutional 3x3 kernel over a 5x5 all-ones image: every output unit
// sums the four edge cells of the kernel.
func TestConvolutionalField(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	img := n.AddLayer(s, "img", "rate", netw.ModelFloat, 5, 5)
	out := n.AddLayer(s, "out", "rate", netw.ModelFloat, 3, 3)
	_, err := n.Connect(img, out, netw.Connection{
		Type: netw.Convolutional, Op: netw.OpAdd, MaxWeight: 1,
		Field:      netw.Field{Rows: 3, Cols: 3, StrideRows: 1, StrideCols: 1},
		WeightInit: &weight.Specified{Values: "0 1 0 1 0 1 0 1 0"},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, n.Finalize())

	mgr, devs := hostOnly(t)
	st, err := state.Build(n, devs, mgr, nil)
	require.NoError(t, err)
	st.BuildBuffers(map[netw.ID]netw.IOType{img.ID: netw.IOInput})

	c, err := Build(st, s, Feedforward)
	require.NoError(t, err)
	require.NoError(t, Link([]*Cluster{c}))

	buf := st.Buffer(devs[0])
	in := buf.InputSlice(img)
	for i := range in {
		in[i] = 1
	}
	buf.SetDirty(img)
	step([]*Cluster{c}, false)

	at := st.Attrs(out)
	for u := 0; u < out.Len(); u++ {
		assert.InDelta(t, 4.0, at.Extract(out, u, 0), 1e-6, "unit %d", u)
	}
}

// Two consumers of one cross-device source share a single inter-device
// transfer, and the consumer reads the mirrored previous-timestep output.
func TestInterDeviceTransferDeduplicated(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 1)
	b := n.AddLayer(s, "B", "rate", netw.ModelFloat, 1, 1)
	c2 := n.AddLayer(s, "C", "rate", netw.ModelFloat, 1, 1)
	for _, to := range []*netw.Layer{b, c2} {
		_, err := n.Connect(a, to, netw.Connection{
			Type: netw.Full, Op: netw.OpAdd, MaxWeight: 1,
			WeightInit: &weight.Flat{Value: 1, Fraction: 1},
		}, nil)
		require.NoError(t, err)
	}
	require.NoError(t, n.Finalize())

	mgr := resmgr.New(1, 0, 1)
	t.Cleanup(mgr.Shutdown)
	host := resmgr.HostID(1)
	// A on the accelerator, B and C on the host
	st, err := state.Build(n, []ptr.DeviceID{0, host}, mgr,
		map[netw.ID]ptr.DeviceID{a.ID: 0, b.ID: host, c2.ID: host})
	require.NoError(t, err)
	st.BuildBuffers(map[netw.ID]netw.IOType{a.ID: netw.IOInput})

	cl, err := Build(st, s, Parallel)
	require.NoError(t, err)
	require.NoError(t, Link([]*Cluster{cl}))

	transfers := 0
	for id := 0; id < cl.Arena().Len(); id++ {
		if cl.Arena().Get(instr.ID(id)).Kind == instr.InterDeviceTransfer {
			transfers++
		}
	}
	assert.Equal(t, 1, transfers, "two consumers must share one transfer")

	buf := st.Buffer(0)
	buf.InputSlice(a)[0] = 3
	buf.SetDirty(a)
	step([]*Cluster{cl}, false)
	// parallel dispatch: B sees A's previous-timestep (zero) output first
	at := st.Attrs(b)
	assert.InDelta(t, 0.0, at.Extract(b, 0, 0), 1e-6)
	buf.InputSlice(a)[0] = 3
	step([]*Cluster{cl}, false)
	assert.InDelta(t, 3.0, at.Extract(b, 0, 0), 1e-6)
	assert.InDelta(t, 3.0, st.Attrs(c2).Extract(c2, 0, 0), 1e-6)
}

func TestFeedforwardCycleRejected(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 1)
	b := n.AddLayer(s, "B", "rate", netw.ModelFloat, 1, 1)
	for _, pair := range [][2]*netw.Layer{{a, b}, {b, a}} {
		_, err := n.Connect(pair[0], pair[1], netw.Connection{
			Type: netw.Full, Op: netw.OpAdd, MaxWeight: 1,
		}, nil)
		require.NoError(t, err)
	}
	require.NoError(t, n.Finalize())

	mgr, devs := hostOnly(t)
	st, err := state.Build(n, devs, mgr, nil)
	require.NoError(t, err)
	st.BuildBuffers(nil)

	_, err = Build(st, s, Feedforward)
	assert.ErrorIs(t, err, perr.ErrInvalidTopology)

	// the same graph is fine under parallel dispatch
	_, err = Build(st, s, Parallel)
	assert.NoError(t, err)
}

func TestSequentialChainsStateUpdates(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 1)
	b := n.AddLayer(s, "B", "rate", netw.ModelFloat, 1, 1)
	_, err := n.Connect(a, b, netw.Connection{
		Type: netw.Full, Op: netw.OpAdd, MaxWeight: 1,
		WeightInit: &weight.Flat{Value: 1, Fraction: 1},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, n.Finalize())

	mgr, devs := hostOnly(t)
	st, err := state.Build(n, devs, mgr, nil)
	require.NoError(t, err)
	st.BuildBuffers(map[netw.ID]netw.IOType{a.ID: netw.IOInput})

	c, err := Build(st, s, Sequential)
	require.NoError(t, err)
	require.NoError(t, Link([]*Cluster{c}))

	buf := st.Buffer(devs[0])
	buf.InputSlice(a)[0] = 1
	buf.SetDirty(a)
	step([]*Cluster{c}, false)
	// sequential still reads the previous timestep's word
	assert.InDelta(t, 0.0, st.Attrs(b).Extract(b, 0, 0), 1e-6)
	buf.InputSlice(a)[0] = 1
	step([]*Cluster{c}, false)
	assert.InDelta(t, 1.0, st.Attrs(b).Extract(b, 0, 0), 1e-6)
}
