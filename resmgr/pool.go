// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resmgr

import "sync"

// WorkerPool is the worker thread pool the Manager hands out for parallel
// host kernels. Submit fans work out across NumWorkers goroutines;
// WaitForCompletion is one of the engine's few suspension points.
type WorkerPool struct {
	numWorkers int
	wg         sync.WaitGroup
	jobs       chan func()
	done       chan struct{}
}

// NewWorkerPool starts a pool of n worker goroutines. n <= 0 means "run
// submitted work inline on the calling goroutine" -- a single-threaded host
// build still satisfies the Kernel contract without spinning up workers it
// won't use.
func NewWorkerPool(n int) *WorkerPool {
	p := &WorkerPool{numWorkers: n, done: make(chan struct{})}
	if n <= 0 {
		return p
	}
	p.jobs = make(chan func(), 4096)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	for {
		select {
		case fn, ok := <-p.jobs:
			if !ok {
				return
			}
			fn()
		case <-p.done:
			return
		}
	}
}

// NumWorkers returns the configured worker count (0 for inline execution).
func (p *WorkerPool) NumWorkers() int { return p.numWorkers }

// Submit schedules fn for execution on the pool (or runs it inline if the
// pool has no workers) and tracks it for WaitForCompletion.
func (p *WorkerPool) Submit(fn func()) {
	if p.numWorkers <= 0 {
		fn()
		return
	}
	p.wg.Add(1)
	p.jobs <- func() {
		fn()
		p.wg.Done()
	}
}

// ParallelFor runs fn(i) for each i in [0,n) across the pool, blocking
// until every call has completed. Each call carries its own WaitGroup, so
// kernels scheduled on different device streams can fan out concurrently
// without sharing wait state. With no workers it runs the loop inline on
// the calling goroutine.
func (p *WorkerPool) ParallelFor(n int, fn func(i int)) {
	if p.numWorkers <= 0 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		idx := i
		p.jobs <- func() {
			fn(idx)
			wg.Done()
		}
	}
	wg.Wait()
}

// WaitForCompletion blocks until every Submit call issued so far has run.
// ParallelFor waits on its own local group and is not tracked here.
func (p *WorkerPool) WaitForCompletion() {
	if p.numWorkers <= 0 {
		return
	}
	p.wg.Wait()
}

// Close stops the pool's workers. Must not be called while other
// goroutines may still Submit.
func (p *WorkerPool) Close() {
	if p.numWorkers <= 0 {
		return
	}
	close(p.done)
}
