// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements the Kernel abstraction: a value
// carrying both a host-serial and a host-parallel (worker-pool) function
// sharing one argument value, dispatched onto whichever Stream an
// Instruction binds it to. A pure host build (this module) omits the
// accelerator implementation of the same contract -- an accelerator build
// would add a third function field, selected by the Stream's device, and
// branch in Run.
package kernel

import (
	"github.com/vgreg/pcnn/ptr"
	"github.com/vgreg/pcnn/resmgr"
)

// Fn is a kernel implementation: a single argument value shared between the
// serial and parallel variants of the same logical operation.
type Fn func(args any)

// Kernel is a polymorphic operation: the same logical step, runnable either
// serially on one goroutine or fanned across a resmgr.WorkerPool.
type Kernel struct {
	Name string

	// Serial runs the entire operation on the calling goroutine.
	Serial Fn

	// Parallel runs the operation using pool, when pool has workers; if nil,
	// Run and Schedule always use Serial.
	Parallel func(args any, pool *resmgr.WorkerPool)

	// HostOnly kernels (e.g. cross-device pointer transfer)
	// always schedule as serial work regardless of the Stream's device.
	HostOnly bool

	null bool
}

// Null is the distinguished kernel that panics if scheduled, used as the
// zero value for "no kernel assigned yet" slots.
var Null = Kernel{Name: "null", null: true}

// Run executes the Kernel immediately on the calling goroutine (or, if pool
// is non-nil and the Kernel has a Parallel implementation, fans it across
// the pool before returning).
func (k Kernel) Run(args any, pool *resmgr.WorkerPool) {
	if k.null {
		panic("kernel: Run called on the null kernel")
	}
	if pool != nil && pool.NumWorkers() > 0 && k.Parallel != nil {
		k.Parallel(args, pool)
		return
	}
	k.Serial(args)
}

// Schedule submits the Kernel's work onto s's queue. A HostOnly kernel
// always runs as serial work, even when s is bound to an accelerator
// device; otherwise Run's own serial/parallel dispatch applies once the
// Stream is ready to execute it.
func (k Kernel) Schedule(s *ptr.Stream, args any, pool *resmgr.WorkerPool) {
	if k.null {
		panic("kernel: Schedule called on the null kernel")
	}
	if k.HostOnly {
		s.Schedule(func() { k.Serial(args) })
		return
	}
	s.Schedule(func() { k.Run(args, pool) })
}

// IsNull reports whether k is the distinguished null kernel.
func (k Kernel) IsNull() bool { return k.null }
