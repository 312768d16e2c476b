// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// handOff is a strict two-party hand-off lock between the environment and
// network threads. Ownership alternates: each side blocks until the other
// releases to it, then releases back when done with the shared buffer. On
// construction the environment owns the lock, so its first Wait returns
// immediately.
type handOff struct {
	toNet chan struct{}
	toEnv chan struct{}
}

func newHandOff() *handOff {
	h := &handOff{
		toNet: make(chan struct{}, 1),
		toEnv: make(chan struct{}, 1),
	}
	h.toEnv <- struct{}{}
	return h
}

func (h *handOff) netWait()    { <-h.toNet }
func (h *handOff) netRelease() { h.toEnv <- struct{}{} }
func (h *handOff) envWait()    { <-h.toEnv }
func (h *handOff) envRelease() { h.toNet <- struct{}{} }
