// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"github.com/vgreg/pcnn/attr"
	"github.com/vgreg/pcnn/erand"
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
	"github.com/vgreg/pcnn/resmgr"
	"github.com/vgreg/pcnn/state"
)

// runLearn runs the attribute kernel and then, when plasticity is active
// this run, the model's distinct learning kernel over the same args.
func runLearn(attrK, learnK kernel.Kernel, in any, pool *resmgr.WorkerPool) {
	attrK.Run(in, pool)
	if in.(*attr.AttrKernelArgs).Plastic {
		learnK.Run(in, pool)
	}
}

func serial(name string, hostOnly bool, fn func()) kernel.Kernel {
	return kernel.Kernel{
		Name:     name,
		Serial:   func(any) { fn() },
		HostOnly: hostOnly,
	}
}

// clearLayer zeroes every register of l except the root, plus its
// second-order gate buffers and reward accumulator, readying the layer's
// aggregation state for a fresh timestep.
func clearLayer(a *attr.Attributes, l *netw.Layer) {
	l.Root.Walk(func(n *netw.DendriticNode) {
		if n.SecondOrder {
			buf := a.SecondOrderBuf(l, n.SOIdx)
			for i := range buf {
				buf[i] = 0
			}
			return
		}
		if n == l.Root {
			return
		}
		reg := a.Register(l, n.RegIdx)
		for i := range reg {
			reg[i] = 0
		}
	})
	a.RewardSlice(l)[0] = 0
}

// NewSet builds the broadcast-initialization instruction: value into l's
// root register, overwriting (and clearing the layer's other aggregation
// state) or adding.
func NewSet(st *state.State, s *ptr.Stream, l *netw.Layer, value float32, overwrite bool) *Instruction {
	a := st.Attrs(l)
	return &Instruction{
		Kind: Set, Name: "set:" + l.Name, Layer: l, Stream: s,
		kern: serial("set", false, func() {
			root := a.RootRegister(l)
			if overwrite {
				clearLayer(a, l)
				for i := range root {
					root[i] = value
				}
				return
			}
			for i := range root {
				root[i] += value
			}
		}),
	}
}

// NewNoise builds one of the noise-initialization instructions, with the
// Kind following the distribution. Samples draw from the layer's device RNG
// stream, so a fixed seed replays identically.
func NewNoise(st *state.State, s *ptr.Stream, l *netw.Layer, rp *erand.RndParams, overwrite bool) *Instruction {
	kind := UniformNoise
	switch rp.Dist {
	case erand.Gaussian:
		kind = NormalNoise
	case erand.Poisson:
		kind = PoissonNoise
	}
	a := st.Attrs(l)
	rnd := st.Mgr.Rand(st.Device(l))
	return &Instruction{
		Kind: kind, Name: "noise:" + l.Name, Layer: l, Stream: s,
		kern: serial("noise", false, func() {
			root := a.RootRegister(l)
			if overwrite {
				clearLayer(a, l)
			}
			for i := range root {
				v := float32(rp.Gen(-1, rnd))
				if overwrite {
					root[i] = v
				} else {
					root[i] += v
				}
			}
		}),
	}
}

// NewSynapseActivate builds the activator instruction for c: read source
// output at the connection's delay, reduce against the weights, combine
// into the destination dendritic register.
// current marks an activation that runs after its source's state update in
// the same timestep (feedforward propagation), reading the just-updated
// ring; otherwise the read happens before the source shifts, and the delay
// is adjusted so that delay d still observes the output from d timesteps
// ago (with delay 0 reading the previous timestep's word).
func NewSynapseActivate(st *state.State, s *ptr.Stream, c *netw.Connection, current bool) *Instruction {
	args := synapseArgs(st, c, current)
	in := &Instruction{
		Kind: SynapseActivate, Name: "activate:" + c.Name, Conn: c, Stream: s,
		kern: st.Activator(c), args: args,
		setPlastic: func(b bool) { args.Plastic = b && c.Plastic },
	}
	return in
}

// NewSynapseUpdate builds the weight-update instruction for a plastic c.
func NewSynapseUpdate(st *state.State, s *ptr.Stream, c *netw.Connection) *Instruction {
	// updaters run after the destination's state update, reading the
	// post-shift ring, so no delay adjustment applies
	args := synapseArgs(st, c, true)
	args.Plastic = true
	return &Instruction{
		Kind: SynapseUpdate, Name: "update:" + c.Name, Conn: c, Stream: s,
		kern: st.Updater(c), args: args, plastic: true,
	}
}

func synapseArgs(st *state.State, c *netw.Connection, current bool) *attr.SynapseArgs {
	srcModel := st.Model(c.From)
	ring, view := st.SrcRing(c)
	extract := func(unit, delay int) float32 {
		if !current && delay > 0 {
			delay--
		}
		if srcModel.Extract != nil {
			return srcModel.Extract(ring, view, unit, delay)
		}
		return ring.Extract(view, unit, delay)
	}
	dst := st.Attrs(c.To)
	args := &attr.SynapseArgs{
		Conn:       c,
		Weights:    st.Matrix(c),
		Cons:       st.Cons(c),
		SrcRing:    ring,
		SrcView:    view,
		SrcExtract: extract,
		Dst:        dst,
		DstLayer:   c.To,
		Reward:     dst.RewardSlice(c.To),
	}
	if c.Op == netw.OpReward {
		return args
	}
	if c.Node.SecondOrder {
		args.DstReg = dst.SecondOrderBuf(c.To, c.Node.SOIdx)
	} else {
		args.DstReg = dst.Register(c.To, c.Node.RegIdx)
	}
	return args
}

// NewDendriticInternal builds the combine instruction folding child's
// register into parent's via child's opcode. init copies instead of
// combining, initializing the parent from its first child.
func NewDendriticInternal(st *state.State, s *ptr.Stream, l *netw.Layer,
	parent, child *netw.DendriticNode, init bool) *Instruction {
	a := st.Attrs(l)
	return &Instruction{
		Kind: DendriticInternal, Name: "dendrite:" + child.Name, Layer: l, Stream: s,
		kern: serial("dendrite", false, func() {
			par := a.Register(l, parent.RegIdx)
			var ch []float32
			if child.SecondOrder {
				ch = a.SecondOrderBuf(l, child.SOIdx)
			} else {
				ch = a.Register(l, child.RegIdx)
			}
			combineRegs(par, ch, child.Op, init, child.SecondOrder)
		}),
	}
}

// combineRegs folds child into parent elementwise. A second-order child is
// a gate: it always multiplies, regardless of its opcode. The pool opcode
// takes the elementwise max.
func combineRegs(par, ch []float32, op netw.Opcode, init, gate bool) {
	if gate {
		for i := range par {
			par[i] *= ch[i]
		}
		return
	}
	if init {
		copy(par, ch)
		return
	}
	switch op {
	case netw.OpSub:
		for i := range par {
			par[i] -= ch[i]
		}
	case netw.OpMult:
		for i := range par {
			par[i] *= ch[i]
		}
	case netw.OpDiv:
		for i := range par {
			if ch[i] != 0 {
				par[i] /= ch[i]
			}
		}
	case netw.OpPool:
		for i := range par {
			if ch[i] > par[i] {
				par[i] = ch[i]
			}
		}
	default:
		for i := range par {
			par[i] += ch[i]
		}
	}
}

// NewInputTransfer builds the module-input consume instruction: the
// Buffer's input region overwrites l's root register and the layer's other
// aggregation state is cleared, so a module-driven layer needs no separate
// Set. Cross-memory, so host-only.
func NewInputTransfer(st *state.State, s *ptr.Stream, l *netw.Layer) *Instruction {
	a := st.Attrs(l)
	buf := st.Buffer(st.Device(l))
	return &Instruction{
		Kind: InputTransfer, Name: "input:" + l.Name, Layer: l, Stream: s,
		kern: serial("input-transfer", true, func() {
			clearLayer(a, l)
			copy(a.RootRegister(l), buf.InputSlice(l))
			buf.TestAndClearDirty(l)
		}),
	}
}

// NewOutputTransfer builds the module-output produce instruction: l's
// newest output word, decoded through its extractor, into the Buffer's
// output region.
func NewOutputTransfer(st *state.State, s *ptr.Stream, l *netw.Layer) *Instruction {
	a := st.Attrs(l)
	buf := st.Buffer(st.Device(l))
	return &Instruction{
		Kind: OutputTransfer, Name: "output:" + l.Name, Layer: l, Stream: s,
		kern: serial("output-transfer", true, func() {
			out := buf.OutputSlice(l)
			for i := range out {
				out[i] = a.Extract(l, i, 0)
			}
		}),
	}
}

// NewExpectedTransfer builds the supervised-target consume instruction:
// the Buffer's expected region into l's expected-output word.
func NewExpectedTransfer(st *state.State, s *ptr.Stream, l *netw.Layer) *Instruction {
	a := st.Attrs(l)
	buf := st.Buffer(st.Device(l))
	return &Instruction{
		Kind: ExpectedTransfer, Name: "expected:" + l.Name, Layer: l, Stream: s,
		kern: serial("expected-transfer", true, func() {
			a.Expected.WriteWord(a.Layout(l).Exp, buf.ExpectedSlice(l))
		}),
	}
}

// NewStateUpdate builds l's attribute-kernel instruction, chaining the
// model's distinct learning kernel when one exists (gated on the run's
// learning flag through the args' plasticity bit).
func NewStateUpdate(st *state.State, s *ptr.Stream, l *netw.Layer) *Instruction {
	a := st.Attrs(l)
	lay := a.Layout(l)
	args := &attr.AttrKernelArgs{
		Attrs:     a,
		Layer:     l,
		Out:       lay.Out,
		RegStart:  lay.RegStart,
		UnitStart: lay.UnitStart,
		Size:      l.Len(),
	}
	model := a.Model
	kern := model.AttrKernel
	if !model.LearnKernel.IsNull() {
		attrK, learnK := model.AttrKernel, model.LearnKernel
		kern = kernel.Kernel{
			Name:   attrK.Name + "+learn",
			Serial: func(in any) { runLearn(attrK, learnK, in, nil) },
			Parallel: func(in any, pool *resmgr.WorkerPool) {
				runLearn(attrK, learnK, in, pool)
			},
		}
	}
	return &Instruction{
		Kind: StateUpdate, Name: "state:" + l.Name, Layer: l, Stream: s,
		kern: kern, args: args,
		setPlastic: func(b bool) { args.Plastic = b },
	}
}

// NewInterDeviceTransfer builds the once-per-timestep copy of src's output
// history onto dstDev's mirror ring, shared by every consumer there.
func NewInterDeviceTransfer(st *state.State, s *ptr.Stream, src *netw.Layer, dstDev ptr.DeviceID) *Instruction {
	srcAttrs := st.Attrs(src)
	srcView := srcAttrs.Layout(src).Out
	mirror := st.Mirror(src, dstDev)
	mirrorView := st.MirrorView(src)
	return &Instruction{
		Kind: InterDeviceTransfer, Name: "mirror:" + src.Name, Layer: src, Stream: s,
		kern: serial("inter-device-transfer", true, func() {
			mirror.CopyFrom(mirrorView, srcAttrs.Out, srcView)
		}),
	}
}
