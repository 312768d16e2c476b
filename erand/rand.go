// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package erand

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the pluggable source of randomness used throughout weight
// initialization and noise generation. Thr selects an independent,
// non-contending stream for parallel host kernels (one per worker thread);
// -1 uses the single shared stream. A fixed seed plus a fixed thread count
// replays identically. Stream thr is always seeded from the root seed plus
// 1+thr, but changing the thread count changes which draws land on which
// stream, so results need not match.
type Rand interface {
	Int63n(n int64, thr int) int64
	Float32(thr int) float32
	Float64(thr int) float64
	NormFloat64(thr int) float64
	ExpFloat64(thr int) float64
}

// SysRand is the default Rand, backed by one *rand.Rand per thread index
// plus a shared stream for thr == -1, all deterministically derived from a
// single root seed.
type SysRand struct {
	mu      sync.Mutex
	seed    int64
	shared  *rand.Rand
	threads []*rand.Rand
}

// NewSysRand creates a SysRand rooted at seed.
func NewSysRand(seed int64) *SysRand {
	return &SysRand{seed: seed, shared: rand.New(rand.NewSource(seed))}
}

func (r *SysRand) threadSrc(thr int) *rand.Rand {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.threads) <= thr {
		i := int64(len(r.threads))
		r.threads = append(r.threads, rand.New(rand.NewSource(r.seed+1+i)))
	}
	return r.threads[thr]
}

func (r *SysRand) src(thr int) *rand.Rand {
	if thr < 0 {
		return nil // caller locks and uses r.shared directly
	}
	return r.threadSrc(thr)
}

// Int63n returns a random int64 in [0, n) using thread thr's stream.
func (r *SysRand) Int63n(n int64, thr int) int64 {
	if thr < 0 {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.shared.Int63n(n)
	}
	return r.src(thr).Int63n(n)
}

// Float32 returns a random float32 in [0,1) using thread thr's stream.
func (r *SysRand) Float32(thr int) float32 {
	if thr < 0 {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.shared.Float32()
	}
	return r.src(thr).Float32()
}

// Float64 returns a random float64 in [0,1) using thread thr's stream.
func (r *SysRand) Float64(thr int) float64 {
	if thr < 0 {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.shared.Float64()
	}
	return r.src(thr).Float64()
}

// NormFloat64 returns a standard-normal sample using thread thr's stream.
func (r *SysRand) NormFloat64(thr int) float64 {
	if thr < 0 {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.shared.NormFloat64()
	}
	return r.src(thr).NormFloat64()
}

// ExpFloat64 returns a standard-exponential sample using thread thr's stream.
func (r *SysRand) ExpFloat64(thr int) float64 {
	if thr < 0 {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.shared.ExpFloat64()
	}
	return r.src(thr).ExpFloat64()
}

var (
	globalMu sync.Mutex
	global   *SysRand
)

// NewGlobalRand returns the process-wide default Rand, lazily seeded from
// the current time on first use.
func NewGlobalRand() Rand {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = NewSysRand(time.Now().UnixNano())
	}
	return global
}

// SeedGlobal reseeds the process-wide default Rand, e.g. for reproducible
// test runs.
func SeedGlobal(seed int64) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = NewSysRand(seed)
}
