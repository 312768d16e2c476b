// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
)

// Buffer is one device's environment-facing I/O region: a contiguous input
// slab for layers that receive external input, an expected slab for layers
// supervised modules target, an output slab for layers that emit, and a
// dirty flag per input layer. Modules write the input/expected slabs and
// read the output slab on the environment side of the hand-off locks; the
// network side consumes and produces them through the transfer
// instructions, so no additional synchronization is carried here.
type Buffer struct {
	Device ptr.DeviceID

	Input    *ptr.Pointer[float32]
	Expected *ptr.Pointer[float32]
	Output   *ptr.Pointer[float32]

	inStart  map[netw.ID]int
	expStart map[netw.ID]int
	outStart map[netw.ID]int
	sizes    map[netw.ID]int
	dirty    map[netw.ID]bool
}

// BuildBuffers allocates one Buffer per active device from the module I/O
// roles: layers flagged input or expected contribute to the input/expected
// slabs of their own device; layers flagged output contribute to the output
// slab. Host slabs are pinned when an accelerator is active. Replaces any
// Buffers from an earlier call, so a module or device-assignment change can
// rebuild them.
func (st *State) BuildBuffers(io map[netw.ID]netw.IOType) {
	hasAccel := st.HasAccelerator()
	type slab struct{ in, exp, out int }
	tally := map[ptr.DeviceID]*slab{}
	for _, d := range st.devices {
		tally[d] = &slab{}
		st.buffers[d] = &Buffer{
			Device:   d,
			inStart:  map[netw.ID]int{},
			expStart: map[netw.ID]int{},
			outStart: map[netw.ID]int{},
			sizes:    map[netw.ID]int{},
			dirty:    map[netw.ID]bool{},
		}
	}
	for _, s := range st.Net.Structures {
		for _, l := range s.Layers {
			t := io[l.ID]
			dev := st.layerDev[l.ID]
			b, sl := st.buffers[dev], tally[dev]
			b.sizes[l.ID] = l.Len()
			if t.Has(netw.IOInput) {
				b.inStart[l.ID] = sl.in
				sl.in += l.Len()
			}
			if t.Has(netw.IOExpected) {
				b.expStart[l.ID] = sl.exp
				sl.exp += l.Len()
			}
			if t.Has(netw.IOOutput) {
				b.outStart[l.ID] = sl.out
				sl.out += l.Len()
			}
		}
	}
	for _, d := range st.devices {
		b, sl := st.buffers[d], tally[d]
		b.Input = ptr.AllocPinned[float32](sl.in, d, hasAccel)
		b.Expected = ptr.AllocPinned[float32](sl.exp, d, hasAccel)
		b.Output = ptr.AllocPinned[float32](sl.out, d, hasAccel)
		st.Mgr.NoteBytes(d, 4*(sl.in+sl.exp+sl.out))
		st.Mgr.TrackAlloc(b.Input.Free)
		st.Mgr.TrackAlloc(b.Expected.Free)
		st.Mgr.TrackAlloc(b.Output.Free)
	}
}

// HasInput reports whether l has an input region in this Buffer.
func (b *Buffer) HasInput(l *netw.Layer) bool {
	_, ok := b.inStart[l.ID]
	return ok
}

// HasExpected reports whether l has an expected region in this Buffer.
func (b *Buffer) HasExpected(l *netw.Layer) bool {
	_, ok := b.expStart[l.ID]
	return ok
}

// HasOutput reports whether l has an output region in this Buffer.
func (b *Buffer) HasOutput(l *netw.Layer) bool {
	_, ok := b.outStart[l.ID]
	return ok
}

// InputSlice returns l's region of the input slab.
func (b *Buffer) InputSlice(l *netw.Layer) []float32 {
	s := b.inStart[l.ID]
	return b.Input.Data()[s : s+b.sizes[l.ID]]
}

// ExpectedSlice returns l's region of the expected slab.
func (b *Buffer) ExpectedSlice(l *netw.Layer) []float32 {
	s := b.expStart[l.ID]
	return b.Expected.Data()[s : s+b.sizes[l.ID]]
}

// OutputSlice returns l's region of the output slab.
func (b *Buffer) OutputSlice(l *netw.Layer) []float32 {
	s := b.outStart[l.ID]
	return b.Output.Data()[s : s+b.sizes[l.ID]]
}

// SetDirty marks l's input region as freshly written by a module. The
// input transfer copies the region every timestep whether or not the flag
// is set, and clears the flag.
func (b *Buffer) SetDirty(l *netw.Layer) { b.dirty[l.ID] = true }

// TestAndClearDirty reports and clears l's dirty flag.
func (b *Buffer) TestAndClearDirty(l *netw.Layer) bool {
	d := b.dirty[l.ID]
	b.dirty[l.ID] = false
	return d
}
