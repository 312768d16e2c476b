// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFull(t *testing.T) {
	send := Shape{Rows: 1, Cols: 2}
	recv := Shape{Rows: 1, Cols: 2}
	fp := NewFull()
	sendn, recvn, cons := fp.Connect(send, recv, false)
	assert.Equal(t, []int32{2, 2}, sendn)
	assert.Equal(t, []int32{2, 2}, recvn)
	for _, c := range cons {
		assert.True(t, c)
	}
}

func TestFullSelf(t *testing.T) {
	sh := Shape{Rows: 1, Cols: 3}
	fp := NewFull()
	_, _, cons := fp.Connect(sh, sh, true)
	for i := 0; i < 3; i++ {
		assert.False(t, cons[i*3+i], "diagonal must be excluded by default")
	}
}

func TestOneToOne(t *testing.T) {
	sh := Shape{Rows: 1, Cols: 4}
	ot := NewOneToOne()
	sendn, recvn, cons := ot.Connect(sh, sh, false)
	for i := 0; i < 4; i++ {
		assert.True(t, cons[i*4+i])
		assert.EqualValues(t, 1, sendn[i])
		assert.EqualValues(t, 1, recvn[i])
	}
}

// TestRectConvergent checks a 5x5 input with a 3x3
// field, stride 1, no wrap, producing a 3x3 output (each unit sees a 3x3
// window).
func TestRectConvergent(t *testing.T) {
	send := Shape{Rows: 5, Cols: 5}
	r := NewRect()
	r.FieldRows, r.FieldCols = 3, 3
	r.StrideRows, r.StrideCols = 1, 1
	r.Wrap = false
	recv := Shape{Rows: r.OutRows(send.Rows), Cols: r.OutCols(send.Cols)}
	assert.Equal(t, 3, recv.Rows)
	assert.Equal(t, 3, recv.Cols)
	_, recvn, cons := r.Connect(send, recv, false)
	for _, n := range recvn {
		assert.EqualValues(t, 9, n)
	}
	// center output unit (1,1) should read send field rows/cols [1,4)
	ui := 1*recv.Cols + 1
	for fr := 1; fr < 4; fr++ {
		for fc := 1; fc < 4; fc++ {
			fi := fr*send.Cols + fc
			assert.True(t, cons[ui*send.Len()+fi])
		}
	}
}

func TestSubset(t *testing.T) {
	send := Shape{Rows: 4, Cols: 4}
	recv := Shape{Rows: 1, Cols: 1}
	s := NewSubset()
	s.RowStart, s.ColStart = 1, 1
	s.Rows, s.Cols = 2, 2
	sendn, _, cons := s.Connect(send, recv, false)
	n := 0
	for _, c := range cons {
		if c {
			n++
		}
	}
	assert.Equal(t, 4, n)
	assert.EqualValues(t, 1, sendn[1*send.Cols+1])
}
