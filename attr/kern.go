// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr

import (
	"github.com/vgreg/pcnn/edge"
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/resmgr"
	"github.com/vgreg/pcnn/weight"
)

// Activator returns the generic activator kernel shared by the built-in
// models: for each receiving unit it reduces the connected source outputs
// (read at the connection's delay through SrcExtract) against the weights,
// then combines the result into the destination register via the
// connection's opcode. The parallel variant fans receiving units across the
// worker pool; each unit writes only its own register slot, so no two jobs
// contend.
func Activator() kernel.Kernel {
	return kernel.Kernel{
		Name:   "synapse-activate",
		Serial: activateSerial,
		Parallel: func(args any, pool *resmgr.WorkerPool) {
			a := args.(*SynapseArgs)
			if a.Conn.Op == netw.OpReward {
				// single accumulator slot; no per-unit partition to exploit
				activateSerial(args)
				return
			}
			pool.ParallelFor(a.DstLayer.Len(), func(ri int) {
				combine(a, ri, accumulate(a, ri))
			})
		},
	}
}

func activateSerial(args any) {
	a := args.(*SynapseArgs)
	n := a.DstLayer.Len()
	if a.Conn.Op == netw.OpReward {
		total := float32(0)
		for ri := 0; ri < n; ri++ {
			total += accumulate(a, ri)
		}
		a.Reward[0] += total
		return
	}
	for ri := 0; ri < n; ri++ {
		combine(a, ri, accumulate(a, ri))
	}
}

// accumulate reduces the sources feeding receiving unit ri: a weighted sum
// normally, a max over the field for pooling connections.
func accumulate(a *SynapseArgs, ri int) float32 {
	if a.Conn.Type == netw.Convolutional {
		return accumulateConv(a, ri)
	}
	nsend := a.Conn.From.Len()
	pool := a.Conn.Op == netw.OpPool || a.Conn.Field.PoolMax
	acc := float32(0)
	first := true
	for si := 0; si < nsend; si++ {
		if !a.Cons[ri*nsend+si] {
			continue
		}
		d := a.Weights.DelayAt(ri, si, a.Conn.Delay)
		val := a.SrcExtract(si, d)
		if pool {
			if first || val > acc {
				acc = val
			}
			first = false
			continue
		}
		acc += val * a.Weights.At(ri, si)
	}
	return acc
}

// accumulateConv walks the shared kernel's field geometry directly: the
// receiving unit's field origin moves by stride, and every in-field source
// is weighted by the single shared kernel.
func accumulateConv(a *SynapseArgs, ri int) float32 {
	f := a.Conn.Field
	sRows, sCols := a.Conn.From.Rows, a.Conn.From.Cols
	uCols := a.Conn.To.Cols
	ur, uc := ri/uCols, ri%uCols
	pool := a.Conn.Op == netw.OpPool || f.PoolMax
	acc := float32(0)
	first := true
	for dr := 0; dr < f.Rows; dr++ {
		sr, clipr := edge.Edge(f.OffsetRows+ur*f.StrideRows+dr, sRows, f.Wrap)
		if clipr {
			continue
		}
		for dc := 0; dc < f.Cols; dc++ {
			sc, clipc := edge.Edge(f.OffsetCols+uc*f.StrideCols+dc, sCols, f.Wrap)
			if clipc {
				continue
			}
			si := sr*sCols + sc
			d := a.Weights.DelayAt(dr, dc, a.Conn.Delay)
			val := a.SrcExtract(si, d)
			if pool {
				if first || val > acc {
					acc = val
				}
				first = false
				continue
			}
			acc += val * a.Weights.At(dr, dc)
		}
	}
	return acc
}

// combine folds acc into the destination register slot via the opcode. Gap
// junctions (validated same-shape at build time) accumulate additively like
// ordinary connections; pooling keeps the larger of the slot and the field
// max.
func combine(a *SynapseArgs, ri int, acc float32) {
	switch a.Conn.Op {
	case netw.OpSub:
		a.DstReg[ri] -= acc
	case netw.OpMult:
		a.DstReg[ri] *= acc
	case netw.OpDiv:
		if acc != 0 {
			a.DstReg[ri] /= acc
		}
	case netw.OpPool:
		if acc > a.DstReg[ri] {
			a.DstReg[ri] = acc
		}
	default: // OpAdd, OpGap
		a.DstReg[ri] += acc
	}
}

// HebbianUpdater returns the default weight updater: dw = lr * src * dst,
// reading the source at the connection's delay and the destination's newest
// output, clamped into the connection's weight range. Models with richer
// plasticity (trace or timing based) register their own updater and keep
// their state in WeightMatrix auxiliary layers.
func HebbianUpdater(lr float32) kernel.Kernel {
	serial := func(args any) {
		a := args.(*SynapseArgs)
		updateRange(a, 0, a.DstLayer.Len(), lr)
	}
	return kernel.Kernel{
		Name:   "synapse-update-hebb",
		Serial: serial,
		Parallel: func(args any, pool *resmgr.WorkerPool) {
			a := args.(*SynapseArgs)
			pool.ParallelFor(a.DstLayer.Len(), func(ri int) {
				updateRange(a, ri, ri+1, lr)
			})
		},
	}
}

func updateRange(a *SynapseArgs, lo, hi int, lr float32) {
	if a.Conn.Type == netw.Convolutional {
		// the shared kernel has no per-receiver rows to partition; let the
		// first range cover it once
		if lo != 0 {
			return
		}
		updateConv(a, lr)
		return
	}
	nsend := a.Conn.From.Len()
	rng := weight.Range{Min: a.Conn.MinWeight, Max: a.Conn.MaxWeight}
	dstView := a.Dst.Layout(a.DstLayer).Out
	vals := a.Weights.Values.Values
	for ri := lo; ri < hi; ri++ {
		post := a.Dst.Out.Extract(dstView, ri, 0)
		if post == 0 {
			continue
		}
		for si := 0; si < nsend; si++ {
			idx := ri*nsend + si
			if !a.Cons[idx] {
				continue
			}
			d := a.Weights.DelayAt(ri, si, a.Conn.Delay)
			pre := a.SrcExtract(si, d)
			if pre == 0 {
				continue
			}
			vals[idx] = rng.ClipVal(vals[idx] + lr*pre*post)
		}
	}
	a.Weights.Invalidate()
}

func updateConv(a *SynapseArgs, lr float32) {
	f := a.Conn.Field
	sRows, sCols := a.Conn.From.Rows, a.Conn.From.Cols
	uCols := a.Conn.To.Cols
	rng := weight.Range{Min: a.Conn.MinWeight, Max: a.Conn.MaxWeight}
	dstView := a.Dst.Layout(a.DstLayer).Out
	for ri := 0; ri < a.DstLayer.Len(); ri++ {
		post := a.Dst.Out.Extract(dstView, ri, 0)
		if post == 0 {
			continue
		}
		ur, uc := ri/uCols, ri%uCols
		for dr := 0; dr < f.Rows; dr++ {
			sr, clipr := edge.Edge(f.OffsetRows+ur*f.StrideRows+dr, sRows, f.Wrap)
			if clipr {
				continue
			}
			for dc := 0; dc < f.Cols; dc++ {
				sc, clipc := edge.Edge(f.OffsetCols+uc*f.StrideCols+dc, sCols, f.Wrap)
				if clipc {
					continue
				}
				pre := a.SrcExtract(sr*sCols+sc, a.Weights.DelayAt(dr, dc, a.Conn.Delay))
				if pre == 0 {
					continue
				}
				idx := dr*f.Cols + dc
				vals := a.Weights.Values.Values
				vals[idx] = rng.ClipVal(vals[idx] + lr*pre*post)
			}
		}
	}
	a.Weights.Invalidate()
}
