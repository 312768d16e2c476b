// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vgreg/pcnn/ptr"
	"github.com/vgreg/pcnn/resmgr"
)

func TestRunPrefersParallelWhenPoolPresent(t *testing.T) {
	var ran string
	k := Kernel{
		Name:     "add",
		Serial:   func(args any) { ran = "serial" },
		Parallel: func(args any, pool *resmgr.WorkerPool) { ran = "parallel" },
	}
	pool := resmgr.NewWorkerPool(2)
	defer pool.Close()
	k.Run(1, pool)
	assert.Equal(t, "parallel", ran)
	k.Run(1, nil)
	assert.Equal(t, "serial", ran)
}

func TestNullPanics(t *testing.T) {
	assert.Panics(t, func() { Null.Run(nil, nil) })
}

func TestHostOnlyAlwaysSerial(t *testing.T) {
	var ran string
	k := Kernel{
		HostOnly: true,
		Serial:   func(args any) { ran = "serial" },
		Parallel: func(args any, pool *resmgr.WorkerPool) { ran = "parallel" },
	}
	s := ptr.NewStream(ptr.Device{ID: 0, Host: true})
	k.Schedule(s, nil, resmgr.NewWorkerPool(2))
	assert.Equal(t, "serial", ran)
}
