// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stepper provides run/pause/step/stop control for a simulation
// loop. The loop calls StepPoint once per iteration; a front end (GUI or
// test) changes the run state from another goroutine. While paused the
// loop blocks inside StepPoint with all internal state exactly as it was,
// so continuing requires no explicit save or re-initialization; only a
// full Stop abandons the run.
package stepper
