// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

// Full implements the fully-connected pattern: every receiving
// unit connects to every sending unit.
type Full struct {
	// if true, and connecting a layer to itself, also make a self-connection
	// from a unit to itself (the diagonal); otherwise the diagonal is excluded.
	SelfCon bool
}

func NewFull() *Full { return &Full{} }

func (fp *Full) Name() string { return "Full" }

func (fp *Full) Connect(send, recv Shape, same bool) (sendn, recvn []int32, cons []bool) {
	sendn, recvn, cons = NewCons(send, recv)
	for i := range cons {
		cons[i] = true
	}
	nsend, nrecv := send.Len(), recv.Len()
	if same && !fp.SelfCon {
		for i := 0; i < nsend; i++ { // nsend == nrecv
			cons[i*nsend+i] = false
		}
		nsend--
		nrecv--
	}
	for i := range recvn {
		recvn[i] = int32(nsend)
	}
	for i := range sendn {
		sendn[i] = int32(nrecv)
	}
	return
}
