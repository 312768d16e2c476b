// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptr

import "sync"

// Event is a barrier object bound to a device: it is recorded by one Stream
// and can be waited on by any number of others. On the host it is modeled as
// a monotonic generation counter plus a condition variable.
type Event struct {
	mu       sync.Mutex
	cond     *sync.Cond
	device   DeviceID
	recorded bool
	gen      uint64
}

// NewEvent creates an Event bound to device. Events are created through the
// ResourceManager in normal use so that they can be tracked and recycled.
func NewEvent(device DeviceID) *Event {
	e := &Event{device: device}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Device returns the device this Event is bound to.
func (e *Event) Device() DeviceID { return e.device }

// Record marks the Event as satisfied for the current generation and wakes
// any waiters. Safe to call from any goroutine.
func (e *Event) Record() {
	e.mu.Lock()
	e.recorded = true
	e.gen++
	e.cond.Broadcast()
	e.mu.Unlock()
}

// Reset clears the recorded flag, e.g. at the start of a new timestep, so
// the same Event value can be reused without reallocation.
func (e *Event) Reset() {
	e.mu.Lock()
	e.recorded = false
	e.mu.Unlock()
}

// Wait blocks the calling goroutine until Record has been called since the
// last Reset. Returns immediately if already recorded.
func (e *Event) Wait() {
	e.mu.Lock()
	for !e.recorded {
		e.cond.Wait()
	}
	e.mu.Unlock()
}

// IsRecorded reports whether Record has been called since the last Reset,
// without blocking.
func (e *Event) IsRecorded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recorded
}
