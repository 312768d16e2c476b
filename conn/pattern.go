// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

// Shape is the rows x columns extent of one layer, the only thing a
// Pattern is allowed to know about a layer.
type Shape struct {
	Rows, Cols int
}

// Len returns the total unit count, Rows*Cols.
func (s Shape) Len() int { return s.Rows * s.Cols }

// Pattern defines a pattern of connectivity between two layers. The
// connectivity is a dense row-major bitmap indexed [recvIdx*send.Len() +
// sendIdx], matching the row-major layout netw.Connection uses to size its
// weight.Matrix. A receiver-based organization is assumed.
type Pattern interface {
	// Name returns the pattern's type name.
	Name() string

	// Connect connects layers with the given shapes, returning the
	// connectivity bitmap plus per-unit fan-in (recvn, length recv.Len())
	// and fan-out (sendn, length send.Len()) counts. same is true when
	// send and recv are the same Layer (a self-connection), which some
	// patterns treat specially (e.g. excluding the diagonal).
	Connect(send, recv Shape, same bool) (sendn, recvn []int32, cons []bool)
}

// NewCons allocates the sendn/recvn/cons triple for a send/recv shape pair.
func NewCons(send, recv Shape) (sendn, recvn []int32, cons []bool) {
	return make([]int32, send.Len()), make([]int32, recv.Len()), make([]bool, recv.Len()*send.Len())
}

// ConsString renders the connectivity bitmap as a recv x send grid of 1/0,
// one line per receiving unit -- used by tests and build-time diagnostics.
func ConsString(send, recv Shape, cons []bool) string {
	nsend, nrecv := send.Len(), recv.Len()
	b := make([]byte, 0, nrecv*(nsend*2+1))
	for ri := 0; ri < nrecv; ri++ {
		for si := 0; si < nsend; si++ {
			if cons[ri*nsend+si] {
				b = append(b, '1', ' ')
			} else {
				b = append(b, '0', ' ')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
