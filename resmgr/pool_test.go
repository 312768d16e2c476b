// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resmgr

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelForCoversRange(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()
	var hits [100]int32
	p.ParallelFor(len(hits), func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i, h := range hits {
		assert.EqualValues(t, 1, h, "index %d", i)
	}
}

func TestParallelForInlineWithoutWorkers(t *testing.T) {
	p := NewWorkerPool(0)
	count := 0
	p.ParallelFor(10, func(int) { count++ })
	assert.Equal(t, 10, count)
}

// Concurrent ParallelFor calls from separate goroutines (the way distinct
// device streams drive kernels) must not share wait state: each call
// returns only once its own range is done.
func TestParallelForConcurrentCallers(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()
	var total atomic.Int32
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rep := 0; rep < 20; rep++ {
				var own atomic.Int32
				p.ParallelFor(50, func(int) {
					own.Add(1)
					total.Add(1)
				})
				assert.EqualValues(t, 50, own.Load())
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 8*20*50, total.Load())
}
