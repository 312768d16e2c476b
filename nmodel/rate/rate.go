// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rate registers the "rate" neural model: a float-output
// rate-coded unit whose activation is the aggregated dendritic input,
// passed through unchanged (no clamp is applied). Importing the package (usually for
// side effect) makes the model available to state building under the name
// "rate".
package rate

import (
	"github.com/vgreg/pcnn/attr"
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/resmgr"
)

// ActVar is the per-neuron activation variable name.
const ActVar = "act"

func init() {
	attr.Register(attr.Model{
		Name:        "rate",
		Kind:        netw.ModelFloat,
		NeuronVars:  []string{ActVar},
		AttrKernel:  attrKernel(),
		LearnKernel: kernel.Null,
		Activator:   attr.Activator(),
		Updater:     attr.HebbianUpdater(0.01),
	})
}

func attrKernel() kernel.Kernel {
	return kernel.Kernel{
		Name: "rate-attr",
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

// updateUnit consumes unit i's aggregated input, stores it as the
// activation, writes the newest output word, and zeroes the register.
func updateUnit(args *attr.AttrKernelArgs, i int) {
	a, l := args.Attrs, args.Layer
	root := a.RootRegister(l)
	act := a.VarSlice(l, ActVar)
	v := root[i]
	act[i] = v
	a.Out.SetFloat(args.Out, i, v)
	root[i] = 0
}
