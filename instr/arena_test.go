// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/resmgr"
)

func TestArenaDependencyOrder(t *testing.T) {
	mgr := resmgr.New(0, 0, 1)
	defer mgr.Shutdown()
	host, err := mgr.DefaultStream(resmgr.HostID(0))
	require.NoError(t, err)

	a := NewArena(mgr)
	var order []string
	mk := func(name string) *Instruction {
		return &Instruction{
			Name: name, Stream: host,
			kern: kernel.Kernel{Name: name, Serial: func(any) { order = append(order, name) }},
		}
	}
	first := a.Add(mk("first"))
	second := a.Add(mk("second"))
	require.NoError(t, a.AddDep(first, second))
	assert.NotNil(t, a.Event(first))
	assert.Nil(t, a.Event(second))

	a.Activate(first, true)
	a.Activate(second, true)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.True(t, a.Event(first).IsRecorded())

	a.ResetEvents()
	assert.False(t, a.Event(first).IsRecorded())
}

func TestArenaPlasticSkipStillRecords(t *testing.T) {
	mgr := resmgr.New(0, 0, 1)
	defer mgr.Shutdown()
	host, err := mgr.DefaultStream(resmgr.HostID(0))
	require.NoError(t, err)

	a := NewArena(mgr)
	ran := false
	upd := a.Add(&Instruction{
		Name: "upd", Stream: host, plastic: true,
		kern: kernel.Kernel{Name: "upd", Serial: func(any) { ran = true }},
	})
	after := a.Add(&Instruction{
		Name: "after", Stream: host,
		kern: kernel.Kernel{Name: "after", Serial: func(any) {}},
	})
	require.NoError(t, a.AddDep(upd, after))

	a.Activate(upd, false)
	a.Activate(after, false)
	assert.False(t, ran, "plastic instruction must not run with learning off")
	assert.True(t, a.Event(upd).IsRecorded())
}
