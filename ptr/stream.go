// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptr

// streamQueueDepth bounds the number of in-flight work items a device
// Stream will buffer before Schedule blocks the caller. Generous enough that
// no single timestep's worth of Instructions on one Cluster should fill it.
const streamQueueDepth = 4096

// Stream is an ordered command queue bound to a Device. A host Stream runs
// every scheduled function inline, on the caller's goroutine, the moment
// it is submitted, so it is synchronous within its scheduling thread.
// A device Stream hands work to a dedicated goroutine that drains it in
// submission order, simulating the asynchronous queue of a real accelerator.
type Stream struct {
	device Device
	queue  chan func()
}

// NewStream creates a Stream bound to device and, for non-host devices,
// starts its draining goroutine.
func NewStream(device Device) *Stream {
	s := &Stream{device: device}
	if !device.Host {
		s.queue = make(chan func(), streamQueueDepth)
		go s.run()
	}
	return s
}

func (s *Stream) run() {
	for fn := range s.queue {
		fn()
	}
}

// Device returns the device this Stream is bound to.
func (s *Stream) Device() Device { return s.device }

// IsHost reports whether this Stream executes inline.
func (s *Stream) IsHost() bool { return s.device.Host }

// Schedule submits fn for execution on this Stream. On a host Stream it
// runs fn immediately; on a device Stream it is queued and returns at once.
func (s *Stream) Schedule(fn func()) {
	if s.device.Host {
		fn()
		return
	}
	s.queue <- fn
}

// WaitFor schedules a wait on e as the next item in this Stream's queue, so
// everything submitted afterwards runs only once e has been recorded.
func (s *Stream) WaitFor(e *Event) {
	s.Schedule(func() { e.Wait() })
}

// RecordEvent schedules recording e once every item submitted before this
// call has completed.
func (s *Stream) RecordEvent(e *Event) {
	s.Schedule(func() { e.Record() })
}

// Synchronize blocks the calling goroutine until every item submitted to
// this Stream so far has completed. A no-op on a host Stream, since
// Schedule already ran inline.
func (s *Stream) Synchronize() {
	if s.device.Host {
		return
	}
	done := make(chan struct{})
	s.queue <- func() { close(done) }
	<-done
}

// Close shuts down a device Stream's draining goroutine. Must not be called
// while other goroutines may still Schedule work on it.
func (s *Stream) Close() {
	if !s.device.Host {
		close(s.queue)
	}
}
