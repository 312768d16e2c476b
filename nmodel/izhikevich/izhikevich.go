// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package izhikevich registers the "izhikevich" neural model: a two-
// variable spiking unit with bit-packed output, Euler-integrated with two
// half-steps on the voltage equation for stability, using the regular-
// spiking parameter set. Weight updates use a per-weight presynaptic trace
// (registered as an auxiliary matrix layer) potentiated on postsynaptic
// spikes.
package izhikevich

import (
	"github.com/vgreg/pcnn/attr"
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/resmgr"
	"github.com/vgreg/pcnn/weight"
)

// Per-neuron variable names.
const (
	VoltageVar  = "voltage"
	RecoveryVar = "recovery"
)

// Regular-spiking parameters.
const (
	paramA = 0.02
	paramB = 0.2
	paramC = -65.0
	paramD = 8.0

	spikeThresh = 30.0
	restVoltage = paramC
)

// TraceAux is the auxiliary weight-matrix layer holding the presynaptic
// trace the updater accumulates.
const TraceAux = "trace"

const (
	traceDecay = 0.9
	learnRate  = 0.004
)

func init() {
	attr.Register(attr.Model{
		Name:        "izhikevich",
		Kind:        netw.ModelBit,
		NeuronVars:  []string{VoltageVar, RecoveryVar},
		AttrKernel:  attrKernel(),
		LearnKernel: kernel.Null,
		Activator:   attr.Activator(),
		Updater:     traceUpdater(),
		InitAttrs: func(a *attr.Attributes) {
			v := a.Vars[VoltageVar].Data()
			u := a.Vars[RecoveryVar].Data()
			for i := range v {
				v[i] = restVoltage
				u[i] = paramB * restVoltage
			}
		},
		ProcessWeightMatrix: func(m *weight.Matrix, c *netw.Connection) {
			if c.Plastic {
				m.RegisterAux(TraceAux)
			}
		},
	})
}

func attrKernel() kernel.Kernel {
	return kernel.Kernel{
		Name: "izhikevich-attr",
		Serial: func(in any) {
			args := in.(*attr.AttrKernelArgs)
			args.Attrs.Out.Shift(args.Out)
			for i := 0; i < args.Size; i++ {
				updateUnit(args, i)
			}
		},
		Parallel: func(in any, pool *resmgr.WorkerPool) {
			args := in.(*attr.AttrKernelArgs)
			args.Attrs.Out.Shift(args.Out)
			pool.ParallelFor(args.Size, func(i int) {
				updateUnit(args, i)
			})
		},
	}
}

func updateUnit(args *attr.AttrKernelArgs, i int) {
	a, l := args.Attrs, args.Layer
	root := a.RootRegister(l)
	volt := a.VarSlice(l, VoltageVar)
	rec := a.VarSlice(l, RecoveryVar)

	cur := root[i]
	v, u := volt[i], rec[i]
	// two half-steps on the fast voltage equation
	v += 0.5 * (0.04*v*v + 5*v + 140 - u + cur)
	v += 0.5 * (0.04*v*v + 5*v + 140 - u + cur)
	u += paramA * (paramB*v - u)

	spike := v >= spikeThresh
	if spike {
		v = paramC
		u += paramD
	}
	volt[i], rec[i] = v, u
	a.Out.SetSpike(args.Out, i, spike)
	root[i] = 0
}

// traceUpdater decays each weight's presynaptic trace, adds the current
// presynaptic spike, and potentiates the weight on a postsynaptic spike in
// proportion to the trace, clamped into the connection's range.
func traceUpdater() kernel.Kernel {
	serial := func(in any) {
		a := in.(*attr.SynapseArgs)
		updateRange(a, 0, a.DstLayer.Len())
	}
	return kernel.Kernel{
		Name:   "izhikevich-update",
		Serial: serial,
		Parallel: func(in any, pool *resmgr.WorkerPool) {
			a := in.(*attr.SynapseArgs)
			pool.ParallelFor(a.DstLayer.Len(), func(ri int) {
				updateRange(a, ri, ri+1)
			})
		},
	}
}

func updateRange(a *attr.SynapseArgs, lo, hi int) {
	trace := a.Weights.Aux[TraceAux]
	if trace == nil {
		return
	}
	nsend := a.Conn.From.Len()
	rng := weight.Range{Min: a.Conn.MinWeight, Max: a.Conn.MaxWeight}
	dstView := a.Dst.Layout(a.DstLayer).Out
	vals := a.Weights.Values.Values
	for ri := lo; ri < hi; ri++ {
		post := a.Dst.Out.Extract(dstView, ri, 0)
		for si := 0; si < nsend; si++ {
			idx := ri*nsend + si
			if !a.Cons[idx] {
				continue
			}
			pre := a.SrcExtract(si, a.Weights.DelayAt(ri, si, a.Conn.Delay))
			tr := trace.Values[idx]*traceDecay + pre
			trace.Values[idx] = tr
			if post != 0 {
				vals[idx] = rng.ClipVal(vals[idx] + learnRate*tr)
			}
		}
	}
	a.Weights.Invalidate()
}
