// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resmgr

import (
	"sync"

	"github.com/vgreg/pcnn/erand"
	"github.com/vgreg/pcnn/perr"
	"github.com/vgreg/pcnn/ptr"
)

// Manager is the resource registry an Engine constructs and threads
// through: devices, default streams, events, tracked allocations, the
// worker pool, and per-device RNG streams. Tests can run multiple Managers
// concurrently without stepping on process-global state; the single-
// engine-at-a-time invariant itself lives in Runtime, which is genuinely
// process-wide -- see runtime.go.
type Manager struct {
	mu      sync.Mutex
	devices []ptr.Device
	streams map[ptr.DeviceID]*ptr.Stream
	events  []*ptr.Event
	allocs  []func() // Free closures for managed allocations, for bulk-free at teardown

	pool  *WorkerPool
	rngs  map[ptr.DeviceID]erand.Rand
	bytes map[ptr.DeviceID]int
}

// HostID is the id reserved for the host device -- always the highest id
// among the active set.
func HostID(numAccelerators int) ptr.DeviceID { return ptr.DeviceID(numAccelerators) }

// New builds a Manager with numAccelerators simulated accelerator devices
// (ids 0..numAccelerators-1) plus the host device (the highest id), a
// worker pool of workerThreads goroutines, and one RNG stream per device:
// accelerator i rooted at seed+i+1, the host at seed.
func New(numAccelerators, workerThreads int, seed int64) *Manager {
	m := &Manager{
		streams: map[ptr.DeviceID]*ptr.Stream{},
		rngs:    map[ptr.DeviceID]erand.Rand{},
		bytes:   map[ptr.DeviceID]int{},
	}
	for i := 0; i < numAccelerators; i++ {
		d := ptr.Device{ID: ptr.DeviceID(i), Host: false, Name: "accel"}
		m.devices = append(m.devices, d)
		m.streams[d.ID] = ptr.NewStream(d)
		m.rngs[d.ID] = erand.NewSysRand(seed + int64(i) + 1)
	}
	host := ptr.Device{ID: HostID(numAccelerators), Host: true, Name: "host"}
	m.devices = append(m.devices, host)
	m.streams[host.ID] = ptr.NewStream(host)
	m.rngs[host.ID] = erand.NewSysRand(seed)
	m.pool = NewWorkerPool(workerThreads)
	return m
}

// Devices returns the active device list, host last.
func (m *Manager) Devices() []ptr.Device { return m.devices }

// Device looks up a Device by id.
func (m *Manager) Device(id ptr.DeviceID) (ptr.Device, error) {
	for _, d := range m.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return ptr.Device{}, perr.Wrapf(perr.ErrInvalidDevice, "resmgr: device id %d out of range", id)
}

// DefaultStream returns the default Stream bound to device id.
func (m *Manager) DefaultStream(id ptr.DeviceID) (*ptr.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.streams[id]
	if !ok {
		return nil, perr.Wrapf(perr.ErrInvalidDevice, "resmgr: device id %d out of range", id)
	}
	return s, nil
}

// NewInterDeviceStream creates a fresh Stream bound to dst, used for
// InterDeviceTransfer instructions so they don't contend with dst's
// ordinary compute stream.
func (m *Manager) NewInterDeviceStream(dst ptr.DeviceID) (*ptr.Stream, error) {
	d, err := m.Device(dst)
	if err != nil {
		return nil, err
	}
	return ptr.NewStream(d), nil
}

// NewEvent creates an Event bound to device id and tracks it for
// diagnostics.
func (m *Manager) NewEvent(id ptr.DeviceID) (*ptr.Event, error) {
	if _, err := m.Device(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	e := ptr.NewEvent(id)
	m.events = append(m.events, e)
	m.mu.Unlock()
	return e, nil
}

// Rand returns the RNG stream for device id.
func (m *Manager) Rand(id ptr.DeviceID) erand.Rand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rngs[id]
}

// Pool returns the shared worker pool used for parallel host kernels.
func (m *Manager) Pool() *WorkerPool { return m.pool }

// TrackAlloc registers free as a closure to invoke at Shutdown, so
// allocations made through the Manager are bulk-freed at teardown
// regardless of which component made them.
func (m *Manager) TrackAlloc(free func()) {
	m.mu.Lock()
	m.allocs = append(m.allocs, free)
	m.mu.Unlock()
}

// NoteBytes adds n to the tracked allocation total for device id, reported
// as the per-device peak in the run report.
func (m *Manager) NoteBytes(id ptr.DeviceID, n int) {
	m.mu.Lock()
	m.bytes[id] += n
	m.mu.Unlock()
}

// PeakBytes returns the tracked allocation total for device id.
func (m *Manager) PeakBytes(id ptr.DeviceID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bytes[id]
}

// Shutdown frees every tracked allocation and stops the worker pool and any
// device Streams' draining goroutines.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	allocs := m.allocs
	m.allocs = nil
	m.mu.Unlock()
	for i := len(allocs) - 1; i >= 0; i-- {
		allocs[i]()
	}
	m.pool.Close()
	for _, d := range m.devices {
		if !d.Host {
			m.streams[d.ID].Close()
		}
	}
}
