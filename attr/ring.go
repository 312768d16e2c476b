// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr

import (
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
)

// RingView locates one layer's region within an OutputRing: Start is the
// first element, Size the unit count |L|, Words the history word count W_L.
// Element (word w, unit n) lives at Start + w*Size + n. Word 0 holds the
// oldest value; word Words-1 holds the newest.
type RingView struct {
	Start int
	Size  int
	Words int
}

// Len returns the element count of the viewed region.
func (v RingView) Len() int { return v.Size * v.Words }

// OutputRing is the delay-history storage for all layers of one Attributes
// instance, concatenated. The element type follows the neural model's output
// encoding: packed 32-bit spike words for spiking models, one float32 or
// int32 per word otherwise. Exactly one of Bits/Floats/Ints is non-nil.
type OutputRing struct {
	Kind   netw.ModelKind
	Bits   *ptr.Pointer[uint32]
	Floats *ptr.Pointer[float32]
	Ints   *ptr.Pointer[int32]
}

// NewOutputRing allocates a zeroed ring of total elements for kind on device.
func NewOutputRing(kind netw.ModelKind, total int, device ptr.DeviceID) *OutputRing {
	r := &OutputRing{Kind: kind}
	switch kind {
	case netw.ModelBit:
		r.Bits = ptr.Alloc[uint32](total, device)
	case netw.ModelInt:
		r.Ints = ptr.Alloc[int32](total, device)
	default:
		r.Floats = ptr.Alloc[float32](total, device)
	}
	return r
}

// Free releases the ring's backing store.
func (r *OutputRing) Free() {
	switch {
	case r.Bits != nil:
		r.Bits.Free()
	case r.Ints != nil:
		r.Ints.Free()
	case r.Floats != nil:
		r.Floats.Free()
	}
}

// Shift ages the viewed layer's history by one timestep. For float/int
// encodings word w takes word w+1's value, leaving the newest word (about to
// be written) duplicated at Words-1. For the bit encoding every word shifts
// left by one and the outgoing high bit of the next-more-recent word carries
// into the older word's low bit; the newest word's low bit is left clear for
// the incoming spike.
func (r *OutputRing) Shift(v RingView) {
	switch r.Kind {
	case netw.ModelBit:
		bits := r.Bits.Data()
		for n := 0; n < v.Size; n++ {
			for w := 0; w < v.Words-1; w++ {
				i := v.Start + w*v.Size + n
				next := v.Start + (w+1)*v.Size + n
				bits[i] = bits[i]<<1 | bits[next]>>31
			}
			newest := v.Start + (v.Words-1)*v.Size + n
			bits[newest] <<= 1
		}
	case netw.ModelInt:
		ints := r.Ints.Data()
		for w := 0; w < v.Words-1; w++ {
			copy(ints[v.Start+w*v.Size:v.Start+(w+1)*v.Size],
				ints[v.Start+(w+1)*v.Size:v.Start+(w+2)*v.Size])
		}
	default:
		f := r.Floats.Data()
		for w := 0; w < v.Words-1; w++ {
			copy(f[v.Start+w*v.Size:v.Start+(w+1)*v.Size],
				f[v.Start+(w+1)*v.Size:v.Start+(w+2)*v.Size])
		}
	}
}

// SetSpike places a spike (or not) for unit in the newest word's low bit.
// Must be called after Shift within the same attribute-kernel invocation.
func (r *OutputRing) SetSpike(v RingView, unit int, spike bool) {
	i := v.Start + (v.Words-1)*v.Size + unit
	bits := r.Bits.Data()
	bits[i] &^= 1
	if spike {
		bits[i] |= 1
	}
}

// SetFloat writes unit's newest output word.
func (r *OutputRing) SetFloat(v RingView, unit int, val float32) {
	r.Floats.Data()[v.Start+(v.Words-1)*v.Size+unit] = val
}

// SetInt writes unit's newest output word.
func (r *OutputRing) SetInt(v RingView, unit int, val int32) {
	r.Ints.Data()[v.Start+(v.Words-1)*v.Size+unit] = val
}

// Extract reads unit's output aged by delay timesteps as a float: the word
// at index Words-1-delay/32 with bit delay%32 for the bit encoding, or the
// word at Words-1-delay for float/int encodings (each word spans one
// timestep there).
func (r *OutputRing) Extract(v RingView, unit, delay int) float32 {
	switch r.Kind {
	case netw.ModelBit:
		w := v.Words - 1 - delay/netw.TimestepsPerOutput
		word := r.Bits.Data()[v.Start+w*v.Size+unit]
		if word>>(uint(delay)%netw.TimestepsPerOutput)&1 != 0 {
			return 1
		}
		return 0
	case netw.ModelInt:
		return float32(r.Ints.Data()[v.Start+(v.Words-1-delay)*v.Size+unit])
	default:
		return r.Floats.Data()[v.Start+(v.Words-1-delay)*v.Size+unit]
	}
}

// WriteWord overwrites the newest word of the viewed layer from a float
// slice, thresholding at 0.5 for the bit encoding. Used by the expected
// transfer to move module-written floats into model-encoded storage.
func (r *OutputRing) WriteWord(v RingView, vals []float32) {
	for n := 0; n < v.Size; n++ {
		switch r.Kind {
		case netw.ModelBit:
			r.SetSpike(v, n, vals[n] > 0.5)
		case netw.ModelInt:
			r.SetInt(v, n, int32(vals[n]))
		default:
			r.SetFloat(v, n, vals[n])
		}
	}
}

// CopyFrom copies srcView's region of src into dstView's region of r, used
// to mirror an inter-device source layer's history onto the consuming
// device. The rings must share Kind and the views must have equal lengths.
func (r *OutputRing) CopyFrom(dstView RingView, src *OutputRing, srcView RingView) {
	switch r.Kind {
	case netw.ModelBit:
		copy(r.Bits.Data()[dstView.Start:dstView.Start+dstView.Len()],
			src.Bits.Data()[srcView.Start:srcView.Start+srcView.Len()])
	case netw.ModelInt:
		copy(r.Ints.Data()[dstView.Start:dstView.Start+dstView.Len()],
			src.Ints.Data()[srcView.Start:srcView.Start+srcView.Len()])
	default:
		copy(r.Floats.Data()[dstView.Start:dstView.Start+dstView.Len()],
			src.Floats.Data()[srcView.Start:srcView.Start+srcView.Len()])
	}
}
