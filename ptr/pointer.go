// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptr

import (
	"fmt"

	"github.com/vgreg/pcnn/perr"
)

// Pointer is a typed wrapper around a backing slice plus the bookkeeping the
// rest of the engine needs to treat host and device memory uniformly: which
// device it lives on, whether this Pointer owns (and so must free) the
// backing store, and whether the host allocation was pinned.
//
// Two Pointer[T] values can only ever disagree on device, not on element
// layout, so there is no separate unit-size bookkeeping.
type Pointer[T any] struct {
	data   []T
	device DeviceID
	owner  bool
	pinned bool
	freed  bool
}

// Alloc allocates n elements on the given device and returns an owning
// Pointer. Device-resident allocation is simulated with ordinary Go memory
// (see package doc) -- only host/device bookkeeping differs.
func Alloc[T any](n int, device DeviceID) *Pointer[T] {
	if n < 0 {
		panic("ptr: negative allocation size")
	}
	return &Pointer[T]{
		data:   make([]T, n),
		device: device,
		owner:  true,
	}
}

// AllocPinned allocates pinned host memory, available only when at least one
// accelerator device is present; otherwise it silently falls back to a plain
// allocation.
func AllocPinned[T any](n int, device DeviceID, hasAccelerator bool) *Pointer[T] {
	p := Alloc[T](n, device)
	p.pinned = hasAccelerator
	return p
}

// Wrap creates a non-owning Pointer around an existing slice. Freeing it is a
// no-op, matching the owner-flag semantics of Free.
func Wrap[T any](data []T, device DeviceID) *Pointer[T] {
	return &Pointer[T]{data: data, device: device, owner: false}
}

// Free releases the backing store if this Pointer owns it. Idempotent: a
// second call is a no-op.
func (p *Pointer[T]) Free() {
	if p.freed {
		return
	}
	p.freed = true
	if p.owner {
		p.data = nil
	}
}

// Size returns the number of elements.
func (p *Pointer[T]) Size() int { return len(p.data) }

// Device returns the device this Pointer's memory lives on.
func (p *Pointer[T]) Device() DeviceID { return p.device }

// Owner reports whether this Pointer owns its backing store.
func (p *Pointer[T]) Owner() bool { return p.owner }

// Pinned reports whether the host backing store was pinned at allocation.
func (p *Pointer[T]) Pinned() bool { return p.pinned }

// Data returns the backing slice directly. Callers on the same device may
// read/write through it; cross-device access must go through Transfer.
func (p *Pointer[T]) Data() []T { return p.data }

// Slice returns a non-owning view over [start, end).
func (p *Pointer[T]) Slice(start, end int) *Pointer[T] {
	if start < 0 || end > len(p.data) || start > end {
		panic(fmt.Sprintf("ptr: slice [%d:%d) out of range for len %d", start, end, len(p.data)))
	}
	return &Pointer[T]{data: p.data[start:end], device: p.device, owner: false}
}

// Fill broadcasts val across every element.
func (p *Pointer[T]) Fill(val T) {
	for i := range p.data {
		p.data[i] = val
	}
}

// FillOn schedules the broadcast onto s, running asynchronously on a
// device Stream and inline on a host Stream.
func (p *Pointer[T]) FillOn(s *Stream, val T) {
	s.Schedule(func() { p.Fill(val) })
}

// CopyFrom copies from src into p; both must have identical size.
func (p *Pointer[T]) CopyFrom(src *Pointer[T]) error {
	if src.Size() != p.Size() {
		return perr.Wrapf(perr.ErrInvalidConfig, "ptr: copy size mismatch dst=%d src=%d", p.Size(), src.Size())
	}
	copy(p.data, src.data)
	return nil
}

// Transfer copies this Pointer's contents to a new Pointer on dstDevice. If
// claim is true, the returned Pointer owns its memory (the usual case); if
// false, it is a non-owning alias, used when the destination buffer slot is
// itself owned by some larger allocation (e.g. a State-owned Attributes
// bank).
func (p *Pointer[T]) Transfer(dstDevice DeviceID, claim bool) *Pointer[T] {
	out := &Pointer[T]{
		data:   make([]T, len(p.data)),
		device: dstDevice,
		owner:  claim,
	}
	copy(out.data, p.data)
	return out
}
