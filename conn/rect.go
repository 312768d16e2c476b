// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

import "github.com/vgreg/pcnn/edge"

// Rect implements the arborized-field geometry shared by the
// convergent-arborized, divergent-arborized, and convolutional Connection
// types: each receiving unit's corresponding sending-layer position moves in
// proportion to the receiving unit's own position (scaled by Stride),
// offset by Offset, and reads a FieldRows x FieldCols field around that
// position. Divergent is the same geometry with send/recv swapped (Recip).
type Rect struct {
	// rows, cols of the field each receiving unit reads from the sending layer
	FieldRows, FieldCols int
	// starting offset in the sending layer for the field's lower-left corner
	OffsetRows, OffsetCols int
	// stride applied to receiving-unit position to find the corresponding
	// sending-layer position
	StrideRows, StrideCols int
	// if true, a field that would run off the sending layer's edge wraps
	// around rather than being clipped
	Wrap bool
	// if true, and connecting a layer to itself, make a self-connection
	SelfCon bool
	// Recip swaps the roles of send and recv, producing the divergent
	// counterpart of the same field geometry (divergent-arborized)
	Recip bool
	// PoolMax switches the activator's reduction from a weighted sum to a
	// max-pool over the field (OpPool); Rect itself still
	// just reports connectivity -- the mode is carried on netw.Connection's
	// Field and consumed by attr's generic activator.
	PoolMax bool
}

func NewRect() *Rect {
	r := &Rect{}
	r.Defaults()
	return r
}

func (cr *Rect) Defaults() {
	cr.Wrap = true
	cr.FieldRows, cr.FieldCols = 2, 2
	cr.StrideRows, cr.StrideCols = 1, 1
}

func (cr *Rect) Name() string { return "Rect" }

// OutRows/OutCols report the output (receiving) extent a field of this
// shape produces when swept with Stride and no wrap over a sending layer of
// the given shape -- used by netw to size a convolutional/convergent
// connection's destination layer independent of the Pattern call itself.
func (cr *Rect) OutRows(sendRows int) int {
	return (sendRows-cr.FieldRows)/cr.StrideRows + 1
}

func (cr *Rect) OutCols(sendCols int) int {
	return (sendCols-cr.FieldCols)/cr.StrideCols + 1
}

func (cr *Rect) Connect(send, recv Shape, same bool) (sendn, recvn []int32, cons []bool) {
	if cr.Recip {
		return cr.connect(recv, send, same, true)
	}
	return cr.connect(send, recv, same, false)
}

// connect builds the bitmap for field-layer fl against unit-layer ul; swap
// reports whether the caller asked for the reciprocal (divergent) geometry,
// in which case the resulting cons/sendn/recvn must be transposed back into
// send/recv order before returning.
func (cr *Rect) connect(fieldLayer, unitLayer Shape, same, swap bool) (sendnOut, recvnOut []int32, consOut []bool) {
	fRows, fCols := fieldLayer.Rows, fieldLayer.Cols
	uRows, uCols := unitLayer.Rows, unitLayer.Cols
	fn, un := make([]int32, fieldLayer.Len()), make([]int32, unitLayer.Len())
	cons := make([]bool, unitLayer.Len()*fieldLayer.Len())

	for ur := 0; ur < uRows; ur++ {
		for uc := 0; uc < uCols; uc++ {
			ui := ur*uCols + uc
			fr0 := cr.OffsetRows + ur*cr.StrideRows
			fc0 := cr.OffsetCols + uc*cr.StrideCols
			for dr := 0; dr < cr.FieldRows; dr++ {
				fr, clipr := edge.Edge(fr0+dr, fRows, cr.Wrap)
				if clipr {
					continue
				}
				for dc := 0; dc < cr.FieldCols; dc++ {
					fc, clipc := edge.Edge(fc0+dc, fCols, cr.Wrap)
					if clipc {
						continue
					}
					fi := fr*fCols + fc
					if !cr.SelfCon && same && ui == fi {
						continue
					}
					cons[ui*fieldLayer.Len()+fi] = true
					un[ui]++
					fn[fi]++
				}
			}
		}
	}

	if !swap {
		// fieldLayer == send, unitLayer == recv: cons is already recv x send
		return fn, un, cons
	}
	// fieldLayer == recv, unitLayer == send (Recip/divergent): transpose
	// cons from unit(send) x field(recv) to recv x send.
	out := make([]bool, len(cons))
	nSend, nRecv := unitLayer.Len(), fieldLayer.Len()
	for si := 0; si < nSend; si++ {
		for ri := 0; ri < nRecv; ri++ {
			if cons[si*nRecv+ri] {
				out[ri*nSend+si] = true
			}
		}
	}
	return un, fn, out
}
