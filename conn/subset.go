// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

// Subset implements the subset-of-layer Connection type: every
// receiving unit connects to a fixed contiguous range [RowStart,RowStart+Rows)
// x [ColStart,ColStart+Cols) of the sending layer, the type-specific "subset
// ranges" shape config of the Connection.
type Subset struct {
	RowStart, ColStart int
	Rows, Cols         int
}

func NewSubset() *Subset { return &Subset{} }

func (s *Subset) Name() string { return "Subset" }

func (s *Subset) Connect(send, recv Shape, same bool) (sendn, recvn []int32, cons []bool) {
	sendn, recvn, cons = NewCons(send, recv)
	rows, cols := s.Rows, s.Cols
	if rows <= 0 {
		rows = send.Rows - s.RowStart
	}
	if cols <= 0 {
		cols = send.Cols - s.ColStart
	}
	n := 0
	for r := s.RowStart; r < s.RowStart+rows && r < send.Rows; r++ {
		for c := s.ColStart; c < s.ColStart+cols && c < send.Cols; c++ {
			si := r*send.Cols + c
			for ri := 0; ri < recv.Len(); ri++ {
				cons[ri*send.Len()+si] = true
			}
			sendn[si] = int32(recv.Len())
			n++
		}
	}
	for ri := range recvn {
		recvn[ri] = int32(n)
	}
	return
}
