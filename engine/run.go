// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"fmt"
	"log"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/mpi"
	"github.com/vgreg/pcnn/resmgr"
	"github.com/vgreg/pcnn/timer"
)

// Run executes the main loop and returns the structured report. Only one
// Engine can run at a time; a concurrent Run returns the duplicate-engine
// error. An interrupt (signal, GUI, or kernel error) ends the run after
// the current iteration and marks the report interrupted.
func (e *Engine) Run() (*Report, error) {
	if err := resmgr.Global().Acquire(); err != nil {
		return nil, err
	}
	defer resmgr.Global().Release()

	iters := e.resolveIterations()
	for _, c := range e.Clusters {
		c.SetLearning(e.Cfg.Learning)
	}
	e.stopping.Store(false)
	e.errMu.Lock()
	e.errKind = ""
	e.errMu.Unlock()
	e.Ctl.Start()

	e.barrier()
	var wall timer.Time
	wall.Start()
	start := time.Now()

	var ran int
	if e.Cfg.Multithreaded {
		ran = e.runPipelined(iters, start)
	} else {
		ran = e.runSingle(iters, start)
	}

	e.Mgr.Pool().WaitForCompletion()
	for _, d := range e.St.Devices() {
		if s := errors.Log1(e.Mgr.DefaultStream(d)); s != nil {
			s.Synchronize()
		}
	}
	e.barrier()
	elapsed := wall.Stop()

	rep := &Report{
		Iterations:  ran,
		WallSeconds: elapsed.Seconds(),
		PeakMemory:  e.peakMemory(),
		Args:        e.Cfg,
		Interrupted: resmgr.Global().Interrupted(),
		Modules:     map[string]map[string]any{},
	}
	if rep.WallSeconds > 0 {
		rep.RefreshRate = float64(ran) / rep.WallSeconds
	}
	e.errMu.Lock()
	rep.ErrorKind = e.errKind
	e.errMu.Unlock()
	for _, m := range e.Modules {
		rep.Modules[m.Name()] = m.Report()
	}
	if e.Cfg.Verbose {
		fmt.Printf("ran %d iterations in %.3fs (%.1f/s)\n", ran, rep.WallSeconds, rep.RefreshRate)
	}
	return rep, nil
}

// barrier synchronizes all ranks at the run boundaries; in a single-
// process run there is nothing to synchronize.
func (e *Engine) barrier() {
	if e.comm == nil || mpi.WorldSize() <= 1 {
		return
	}
	e.comm.Barrier()
}

// resolveIterations takes the max of the configured count and every
// module's expectation, warning once when the result is zero.
func (e *Engine) resolveIterations() int {
	iters := e.Cfg.Iterations
	for _, m := range e.Modules {
		if exp := m.ExpectedIterations(); exp > iters {
			iters = exp
		}
	}
	if iters == 0 {
		log.Printf("engine: iteration count unspecified; running until interrupted")
	}
	return iters
}

// runSingle performs both halves of each iteration on the calling
// goroutine: environment input, network compute, environment output.
func (e *Engine) runSingle(iters int, start time.Time) int {
	envRate := e.Cfg.EnvironmentRate
	i := 0
	for ; iters == 0 || i < iters; i++ {
		if resmgr.Global().Interrupted() || e.Ctl.StepPoint() {
			break
		}
		envIO := i%envRate == 0
		if !e.guard(func() {
			for _, c := range e.Clusters {
				c.ResetEvents()
			}
			for _, c := range e.Clusters {
				c.LaunchPreInput(e.Cfg.Learning)
			}
			if envIO {
				for _, m := range e.Modules {
					m.FeedInput(e.bufs)
				}
			}
			e.feedAndCompute()
			if envIO {
				if !e.Cfg.SuppressOutput {
					for _, m := range e.Modules {
						m.ReportOutput(e.bufs)
					}
				}
				for _, m := range e.Modules {
					m.Cycle()
				}
			}
			for _, c := range e.Clusters {
				c.WaitForState()
			}
		}) {
			i++
			break
		}
		e.pace(i, start)
	}
	return i
}

// feedAndCompute runs the input-to-output phases shared by both loop modes.
func (e *Engine) feedAndCompute() {
	learn := e.Cfg.Learning
	for _, c := range e.Clusters {
		c.LaunchInput(learn)
	}
	for _, c := range e.Clusters {
		c.WaitForInput()
	}
	for _, c := range e.Clusters {
		c.LaunchPostInput(learn)
	}
	for _, c := range e.Clusters {
		c.LaunchStateUpdate(learn)
	}
	if learn {
		for _, c := range e.Clusters {
			c.LaunchWeightUpdate(learn)
		}
	}
	for _, c := range e.Clusters {
		c.LaunchOutput(learn)
	}
	for _, c := range e.Clusters {
		c.WaitForOutput()
	}
}

// runPipelined overlaps environment I/O with network compute: the
// environment goroutine writes input and reads output on its side of the
// sensory and motor hand-offs while this goroutine advances the network.
func (e *Engine) runPipelined(iters int, start time.Time) int {
	sensory, motor := newHandOff(), newHandOff()
	term := make(chan struct{})
	go e.envLoop(iters, sensory, motor, term)

	learn := e.Cfg.Learning
	i := 0
	for ; iters == 0 || i < iters; i++ {
		if resmgr.Global().Interrupted() || e.Ctl.StepPoint() {
			break
		}
		if !e.guard(func() {
			for _, c := range e.Clusters {
				c.ResetEvents()
			}
			for _, c := range e.Clusters {
				c.LaunchPreInput(learn)
			}
			sensory.netWait()
			for _, c := range e.Clusters {
				c.LaunchInput(learn)
			}
			for _, c := range e.Clusters {
				c.WaitForInput()
			}
			sensory.netRelease()
			for _, c := range e.Clusters {
				c.LaunchPostInput(learn)
			}
			for _, c := range e.Clusters {
				c.LaunchStateUpdate(learn)
			}
			if learn {
				for _, c := range e.Clusters {
					c.LaunchWeightUpdate(learn)
				}
			}
			motor.netWait()
			for _, c := range e.Clusters {
				c.LaunchOutput(learn)
			}
			for _, c := range e.Clusters {
				c.WaitForOutput()
			}
			motor.netRelease()
			for _, c := range e.Clusters {
				c.WaitForState()
			}
		}) {
			i++
			break
		}
		e.pace(i, start)
	}

	// wake the environment wherever it waits so it can observe the stop
	e.stopping.Store(true)
	select {
	case sensory.toEnv <- struct{}{}:
	default:
	}
	select {
	case motor.toEnv <- struct{}{}:
	default:
	}
	<-term
	return i
}

// envLoop is the environment thread: modules write the input buffer under
// the sensory lock and read the output buffer under the motor lock, every
// environment-rate-th iteration, in lockstep with the network thread.
func (e *Engine) envLoop(iters int, sensory, motor *handOff, term chan struct{}) {
	defer close(term)
	defer func() {
		if r := recover(); r != nil {
			e.noteError(r)
			// pass both locks on the way out so the network thread is
			// never left blocked on a hand-off
			select {
			case sensory.toNet <- struct{}{}:
			default:
			}
			select {
			case motor.toNet <- struct{}{}:
			default:
			}
		}
	}()
	envRate := e.Cfg.EnvironmentRate
	for i := 0; iters == 0 || i < iters; i++ {
		sensory.envWait()
		if e.stopping.Load() {
			return
		}
		if i%envRate == 0 {
			for _, m := range e.Modules {
				m.FeedInput(e.bufs)
			}
		}
		sensory.envRelease()
		motor.envWait()
		if e.stopping.Load() {
			return
		}
		if i%envRate == 0 {
			if !e.Cfg.SuppressOutput {
				for _, m := range e.Modules {
					m.ReportOutput(e.bufs)
				}
			}
			for _, m := range e.Modules {
				m.Cycle()
			}
		}
		motor.envRelease()
	}
}

// guard runs one iteration's work, converting a kernel panic into the
// interrupt path. Returns false when the iteration aborted.
func (e *Engine) guard(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.noteError(r)
			ok = false
		}
	}()
	fn()
	return true
}

// pace sleeps until iteration i+1's deadline when a refresh-rate cap is
// set; zero runs unbounded.
func (e *Engine) pace(i int, start time.Time) {
	rate := e.Cfg.RefreshRate
	if rate <= 0 {
		return
	}
	deadline := start.Add(time.Duration(float64(i+1) / rate * float64(time.Second)))
	if d := time.Until(deadline); d > 0 {
		time.Sleep(d)
	}
}
