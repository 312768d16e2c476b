// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resmgr

import (
	"sync"
	"sync/atomic"

	"github.com/vgreg/pcnn/perr"
)

// Runtime holds the state that is genuinely process-scoped, modeled as an
// explicit value rather than free-function globals: the single-engine-at-a-
// time invariant and the atomic interrupt flag. It is a package
// singleton, matched 1:1 to the process, in contrast to Manager which an
// Engine owns privately.
var globalRuntime = &Runtime{}

// Global returns the process-wide Runtime singleton.
func Global() *Runtime { return globalRuntime }

// Runtime holds the state that is genuinely process-scoped.
type Runtime struct {
	mu      sync.Mutex
	running bool

	interrupted  atomic.Bool
	guiInterrupt atomic.Bool
}

// Acquire marks an Engine as running, or returns perr.ErrDuplicateEngine if
// one already is; only one Engine may be running at a time.
func (r *Runtime) Acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return perr.Wrapf(perr.ErrDuplicateEngine, "resmgr: an engine is already running")
	}
	r.running = true
	r.interrupted.Store(false)
	r.guiInterrupt.Store(false)
	return nil
}

// Release clears the running flag, allowing a subsequent Engine to Acquire.
func (r *Runtime) Release() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
}

// Interrupt sets the process-wide interrupt flag. Double-signalling is a
// no-op.
func (r *Runtime) Interrupt() { r.interrupted.Store(true) }

// InterruptFromGUI sets both the ordinary interrupt flag and a separate GUI
// flag, so the main thread (not the engine) tears down the GUI afterwards.
func (r *Runtime) InterruptFromGUI() {
	r.guiInterrupt.Store(true)
	r.Interrupt()
}

// Interrupted reports whether Interrupt has been called since the last Acquire.
func (r *Runtime) Interrupted() bool { return r.interrupted.Load() }

// GUIInterrupted reports whether the interrupt originated from a GUI control.
func (r *Runtime) GUIInterrupted() bool { return r.guiInterrupt.Load() }
