// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

// OneToOne implements the point-to-point one-to-one pattern.
// netw.Connection.Validate rejects a one-to-one Connection whose from/to
// layers differ in rows or columns before this Pattern ever runs; Connect
// itself stays general enough to offset a smaller one-to-one block within
// two differently-sized layers.
type OneToOne struct {
	// number of connections to make (0 for the entire recv layer)
	NCons int
	// starting unit index for sending connections
	SendStart int
	// starting unit index for recv connections
	RecvStart int
}

func NewOneToOne() *OneToOne { return &OneToOne{} }

func (ot *OneToOne) Name() string { return "OneToOne" }

func (ot *OneToOne) Connect(send, recv Shape, same bool) (sendn, recvn []int32, cons []bool) {
	sendn, recvn, cons = NewCons(send, recv)
	nsend, nrecv := send.Len(), recv.Len()
	ncon := nrecv
	if ot.NCons > 0 {
		ncon = min(ot.NCons, nrecv)
	}
	for i := 0; i < ncon; i++ {
		ri := ot.RecvStart + i
		si := ot.SendStart + i
		if ri >= nrecv || si >= nsend {
			break
		}
		cons[ri*nsend+si] = true
		recvn[ri] = 1
		sendn[si] = 1
	}
	return
}
