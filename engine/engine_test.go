// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgreg/pcnn/cluster"
	"github.com/vgreg/pcnn/netw"
	_ "github.com/vgreg/pcnn/nmodel/izhikevich"
	_ "github.com/vgreg/pcnn/nmodel/rate"
	"github.com/vgreg/pcnn/perr"
	"github.com/vgreg/pcnn/weight"
)

// testModule drives one input layer with a fixed pattern and counts its
// I/O events.
type testModule struct {
	name     string
	layer    *netw.Layer
	io       netw.IOType
	pattern  []float32
	expected int
	coactive bool

	feeds, reports, cycles int
	lastOutput             []float32
	onFeed                 func(m *testModule)
}

func (m *testModule) Name() string                   { return m.name }
func (m *testModule) Layers() []*netw.Layer          { return []*netw.Layer{m.layer} }
func (m *testModule) IOType(*netw.Layer) netw.IOType { return m.io }
func (m *testModule) ExpectedIterations() int        { return m.expected }
func (m *testModule) IsCoactive(Module) bool         { return m.coactive }
func (m *testModule) Cycle()                         { m.cycles++ }
func (m *testModule) Report() map[string]any {
	return map[string]any{"feeds": m.feeds, "reports": m.reports}
}

func (m *testModule) FeedInput(b *Buffers) {
	m.feeds++
	if m.io.Has(netw.IOInput) {
		buf := b.For(m.layer)
		copy(buf.InputSlice(m.layer), m.pattern)
		buf.SetDirty(m.layer)
	}
	if m.onFeed != nil {
		m.onFeed(m)
	}
}

func (m *testModule) ReportOutput(b *Buffers) {
	m.reports++
	if m.io.Has(netw.IOOutput) {
		out := b.For(m.layer).OutputSlice(m.layer)
		m.lastOutput = append(m.lastOutput[:0], out...)
	}
}

// Fully-connected rate-coded feedforward network driven by a module: one
// step produces the weighted sums on the output layer.
func TestFeedforwardRateNetwork(t *testing.T) {
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

	in := &testModule{name: "in", layer: a, io: netw.IOInput, pattern: []float32{1, 2}}
	out := &testModule{name: "out", layer: b, io: netw.IOOutput}
	e, err := New(n, []Module{in, out}, Config{
		Iterations:   1,
		ClusterKinds: map[string]cluster.Kind{"S": cluster.Feedforward},
	})
	require.NoError(t, err)
	defer e.Shutdown()

	rep, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Iterations)
	assert.False(t, rep.Interrupted)
	require.Len(t, out.lastOutput, 2)
	assert.InDelta(t, 2.5, out.lastOutput[0], 1e-6)
	assert.InDelta(t, 0.25, out.lastOutput[1], 1e-6)
}

// Two structures, parallel feeding feedforward, with environment rate 2:
// module I/O happens on iterations 0,2,4,6,8 only.
func TestTwoStructurePipelineEnvironmentRate(t *testing.T) {
	n := netw.NewNetwork()
	s1 := n.AddStructure("S1")
	s2 := n.AddStructure("S2")
	a := n.AddLayer(s1, "A", "rate", netw.ModelFloat, 1, 2)
	b := n.AddLayer(s2, "B", "rate", netw.ModelFloat, 1, 2)
	_, err := n.Connect(a, b, netw.Connection{
		Type: netw.OneToOne, Op: netw.OpAdd, MaxWeight: 1,
		WeightInit: &weight.Flat{Value: 1, Fraction: 1},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, n.Finalize())

	in := &testModule{name: "in", layer: a, io: netw.IOInput, pattern: []float32{1, 1}}
	out := &testModule{name: "out", layer: b, io: netw.IOOutput}
	e, err := New(n, []Module{in, out}, Config{
		Iterations:      10,
		EnvironmentRate: 2,
		Multithreaded:   true,
		ClusterKinds: map[string]cluster.Kind{
			"S1": cluster.Parallel, "S2": cluster.Feedforward,
		},
	})
	require.NoError(t, err)
	defer e.Shutdown()

	rep, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, 10, rep.Iterations)
	assert.Equal(t, 5, in.feeds)
	assert.Equal(t, 5, out.reports)
	assert.Equal(t, 5, out.cycles)
	assert.Equal(t, 5, rep.Modules["in"]["feeds"])
}

// Unbounded run interrupted after 1000 timesteps: the report carries the
// effective iteration count and the interrupted flag.
func TestInterruptAfterThousandSteps(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 1)
	require.NoError(t, n.Finalize())

	var eng *Engine
	in := &testModule{name: "in", layer: a, io: netw.IOInput, pattern: []float32{1}}
	in.onFeed = func(m *testModule) {
		if m.feeds == 1000 {
			eng.Interrupt()
		}
	}
	e, err := New(n, []Module{in}, Config{Iterations: 0})
	require.NoError(t, err)
	defer e.Shutdown()
	eng = e

	rep, err := e.Run()
	require.NoError(t, err)
	assert.True(t, rep.Interrupted)
	assert.Equal(t, 1000, rep.Iterations)
	assert.Empty(t, rep.ErrorKind)
}

// With learning disabled no plastic weight changes; with it enabled the
// hebbian updater moves weights, staying inside the clamp range.
func TestLearningFlagGatesWeightUpdates(t *testing.T) {
	build := func() (*netw.Network, *netw.Layer, *netw.Connection) {
		n := netw.NewNetwork()
		s := n.AddStructure("S")
		a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 1)
		b := n.AddLayer(s, "B", "rate", netw.ModelFloat, 1, 1)
		c, err := n.Connect(a, b, netw.Connection{
			Type: netw.Full, Op: netw.OpAdd, MaxWeight: 1, Plastic: true,
			WeightInit: &weight.Flat{Value: 0.5, Fraction: 1},
		}, nil)
		require.NoError(t, err)
		require.NoError(t, n.Finalize())
		return n, a, c
	}

	n, a, c := build()
	in := &testModule{name: "in", layer: a, io: netw.IOInput, pattern: []float32{1}}
	e, err := New(n, []Module{in}, Config{Iterations: 5, Learning: false})
	require.NoError(t, err)
	w0 := e.St.Matrix(c).At(0, 0)
	_, err = e.Run()
	require.NoError(t, err)
	assert.Equal(t, w0, e.St.Matrix(c).At(0, 0), "weights must not move with learning off")
	e.Shutdown()

	n, a, c = build()
	in = &testModule{name: "in", layer: a, io: netw.IOInput, pattern: []float32{1}}
	e, err = New(n, []Module{in}, Config{Iterations: 5, Learning: true})
	require.NoError(t, err)
	_, err = e.Run()
	require.NoError(t, err)
	w := e.St.Matrix(c).At(0, 0)
	assert.Greater(t, w, float32(0.5))
	assert.LessOrEqual(t, w, float32(1.0))
	e.Shutdown()
}

func TestCoactiveInputConflictRejected(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 1)
	require.NoError(t, n.Finalize())

	m1 := &testModule{name: "m1", layer: a, io: netw.IOInput, coactive: true}
	m2 := &testModule{name: "m2", layer: a, io: netw.IOInput, coactive: true}
	_, err := New(n, []Module{m1, m2}, Config{})
	assert.ErrorIs(t, err, perr.ErrCoactiveInputConflict)
}

func TestDuplicateEngineRejected(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 1)
	require.NoError(t, n.Finalize())

	in := &testModule{name: "in", layer: a, io: netw.IOInput, pattern: []float32{1}}
	e, err := New(n, []Module{in}, Config{Iterations: 1})
	require.NoError(t, err)
	defer e.Shutdown()

	blocked := make(chan struct{})
	in.onFeed = func(m *testModule) {
		if m.feeds == 1 {
			_, err2 := e.Run()
			assert.ErrorIs(t, err2, perr.ErrDuplicateEngine)
			close(blocked)
		}
	}
	_, err = e.Run()
	require.NoError(t, err)
	<-blocked
}

// Expected iterations come from the modules when the config leaves the
// count at zero.
func TestModuleExpectedIterations(t *testing.T) {
	n := netw.NewNetwork()
	s := n.AddStructure("S")
	a := n.AddLayer(s, "A", "rate", netw.ModelFloat, 1, 1)
	require.NoError(t, n.Finalize())

	in := &testModule{name: "in", layer: a, io: netw.IOInput, pattern: []float32{1}, expected: 7}
	e, err := New(n, []Module{in}, Config{})
	require.NoError(t, err)
	defer e.Shutdown()
	rep, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, 7, rep.Iterations)
	assert.Equal(t, 7, in.feeds)
}
