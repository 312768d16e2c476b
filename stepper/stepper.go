// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepper

import "sync"

// RunState is the run-control state an engine's iteration loop consults at
// each step point.
type RunState int32 //enums:enum

const (
	// Stopped: the loop should exit at the next step point. No state is
	// preserved; restarting requires a fresh engine run.
	Stopped RunState = iota
	// Paused: the loop blocks at the next step point until the state
	// changes to Running, Stepping, or Stopped.
	Paused
	// Stepping: the loop runs, decrementing the remaining step budget at
	// each step point and pausing when it reaches zero.
	Stepping
	// Running: the loop runs freely; step points only check for a Stop.
	Running
)

// PauseNotifier is invoked (with the Stepper's lock held) when a Stepping
// budget runs out and the loop pauses, so a front end can refresh itself.
type PauseNotifier func()

// Stepper coordinates a front end's run/pause/step/stop control with an
// iteration loop. The loop calls StepPoint once per iteration; the front
// end calls Start/Pause/Step/Stop from another goroutine. While paused, the
// loop blocks inside StepPoint with all of its state intact, so continuing
// needs no re-initialization.
type Stepper struct {
	mu      sync.Mutex
	change  *sync.Cond
	state   RunState
	perStep int
	remain  int
	onPause PauseNotifier
}

// New returns a Stepper in the Stopped state.
func New() *Stepper {
	st := &Stepper{state: Stopped, perStep: 1}
	st.change = sync.NewCond(&st.mu)
	return st
}

// OnPause registers fn to be called when a step budget runs out. Optional;
// polling State is the alternative.
func (st *Stepper) OnPause(fn PauseNotifier) {
	st.mu.Lock()
	st.onPause = fn
	st.mu.Unlock()
}

// State returns the current run state.
func (st *Stepper) State() RunState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Active reports whether the loop is Running or Stepping.
func (st *Stepper) Active() bool {
	s := st.State()
	return s == Running || s == Stepping
}

// Start enters the Running state and wakes a paused loop.
func (st *Stepper) Start() { st.enter(Running) }

// Pause makes the loop block at its next step point.
func (st *Stepper) Pause() { st.enter(Paused) }

// Stop makes the loop exit at its next step point.
func (st *Stepper) Stop() { st.enter(Stopped) }

// Step enters the Stepping state with a budget of n iterations, after
// which the loop pauses again.
func (st *Stepper) Step(n int) {
	st.mu.Lock()
	if n > 0 {
		st.perStep = n
		st.remain = n
	}
	st.state = Stepping
	st.change.Broadcast()
	st.mu.Unlock()
}

func (st *Stepper) enter(s RunState) {
	st.mu.Lock()
	st.state = s
	st.change.Broadcast()
	st.mu.Unlock()
}

// StepPoint is called by the loop once per iteration. It returns true when
// the loop should exit (Stopped); otherwise it returns false, first
// blocking for as long as the state is Paused and counting down the
// Stepping budget.
func (st *Stepper) StepPoint() (stop bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.state == Stepping {
		st.remain--
		if st.remain <= 0 {
			st.state = Paused
			st.remain = st.perStep
			if st.onPause != nil {
				st.onPause()
			}
		}
	}
	for {
		switch st.state {
		case Stopped:
			return true
		case Running, Stepping:
			return false
		default:
			st.change.Wait()
		}
	}
}
