// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine composes state, clusters, modules, and buffers into the
// runnable simulation: the build sequence that partitions a network across
// devices and schedules it, and the main loop that advances it in discrete
// timesteps, either single-threaded or with environment I/O overlapped on
// a second goroutine through a pair of hand-off locks.
package engine

import (
	"sync"
	"sync/atomic"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/mpi"
	"github.com/vgreg/pcnn/cluster"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/perr"
	"github.com/vgreg/pcnn/ptr"
	"github.com/vgreg/pcnn/resmgr"
	"github.com/vgreg/pcnn/state"
	"github.com/vgreg/pcnn/stepper"
)

// Engine owns the clusters, modules, and buffers of one built network and
// runs its main loop. Exactly one Engine can be running at a time,
// enforced through the process-wide runtime.
type Engine struct {
	Net      *netw.Network
	Cfg      Config
	Mgr      *resmgr.Manager
	St       *state.State
	Clusters []*cluster.Cluster
	Modules  []Module

	// Ctl is the run-control stepper a front end can use to pause, step,
	// or stop the loop between iterations.
	Ctl *stepper.Stepper

	bufs     *Buffers
	comm     *mpi.Comm
	stopping atomic.Bool

	errMu   sync.Mutex
	errKind string
}

// New builds an Engine: resolve the active devices, allocate state across
// them, validate the modules, build the buffers, build one cluster per
// structure, and link the cross-structure and inter-device dependencies.
func New(net *netw.Network, modules []Module, cfg Config) (*Engine, error) {
	cfg.Defaults()
	mgr := resmgr.New(cfg.Accelerators, cfg.WorkerThreads, cfg.Seed)
	devices := cfg.Devices
	if len(devices) == 0 {
		for _, d := range mgr.Devices() {
			devices = append(devices, d.ID)
		}
	}
	st, err := state.Build(net, devices, mgr, cfg.DeviceOverride)
	if err != nil {
		mgr.Shutdown()
		return nil, err
	}
	if err := checkCoactive(modules); err != nil {
		mgr.Shutdown()
		return nil, err
	}
	io := map[netw.ID]netw.IOType{}
	for _, m := range modules {
		for _, l := range m.Layers() {
			io[l.ID] |= m.IOType(l)
		}
	}
	st.BuildBuffers(io)

	e := &Engine{
		Net: net, Cfg: cfg, Mgr: mgr, St: st, Modules: modules,
		Ctl:  stepper.New(),
		bufs: &Buffers{st: st},
	}
	for _, s := range net.Structures {
		kind := cfg.ClusterKinds[s.Name]
		c, err := cluster.Build(st, s, kind)
		if err != nil {
			mgr.Shutdown()
			return nil, err
		}
		e.Clusters = append(e.Clusters, c)
	}
	if err := cluster.Link(e.Clusters); err != nil {
		mgr.Shutdown()
		return nil, err
	}
	e.comm = errors.Log1(mpi.NewComm(nil))
	return e, nil
}

// checkCoactive rejects two simultaneously-active input modules targeting
// the same layer.
func checkCoactive(modules []Module) error {
	for i, m1 := range modules {
		for _, l := range m1.Layers() {
			if !m1.IOType(l).Has(netw.IOInput) {
				continue
			}
			for _, m2 := range modules[i+1:] {
				if !covers(m2, l) || !m2.IOType(l).Has(netw.IOInput) {
					continue
				}
				if m1.IsCoactive(m2) || m2.IsCoactive(m1) {
					return perr.Wrapf(perr.ErrCoactiveInputConflict,
						"engine: input modules %s and %s are both active on layer %s",
						m1.Name(), m2.Name(), l.Name)
				}
			}
		}
	}
	return nil
}

func covers(m Module, l *netw.Layer) bool {
	for _, ml := range m.Layers() {
		if ml == l {
			return true
		}
	}
	return false
}

// Interrupt requests the running loop to stop after the current
// iteration. Safe from any goroutine; a second call is a no-op.
func (e *Engine) Interrupt() { resmgr.Global().Interrupt() }

// InterruptFromGUI is Interrupt plus the separate flag telling the main
// thread (not the engine) to tear the GUI down afterwards.
func (e *Engine) InterruptFromGUI() { resmgr.Global().InterruptFromGUI() }

// Shutdown frees all tracked allocations and stops the worker pool and
// device streams. The Engine cannot run again afterwards.
func (e *Engine) Shutdown() { e.Mgr.Shutdown() }

func (e *Engine) noteError(r any) {
	e.errMu.Lock()
	if e.errKind == "" {
		e.errKind = kindOf(r)
	}
	e.errMu.Unlock()
	resmgr.Global().Interrupt()
}

func kindOf(r any) string {
	err, ok := r.(error)
	if !ok {
		return "panic"
	}
	for _, k := range []error{
		perr.ErrInvalidConfig, perr.ErrInvalidTopology, perr.ErrInvalidDevice,
		perr.ErrResourceExhausted, perr.ErrIncompatibleModel,
		perr.ErrDelayOutOfRange, perr.ErrCoactiveInputConflict, perr.ErrDuplicateEngine,
	} {
		if perr.Is(err, k) {
			return k.Error()
		}
	}
	return "panic"
}

// peakMemory snapshots the per-device tracked allocation totals.
func (e *Engine) peakMemory() map[ptr.DeviceID]int {
	out := map[ptr.DeviceID]int{}
	for _, d := range e.St.Devices() {
		out[d] = e.Mgr.PeakBytes(d)
	}
	return out
}
