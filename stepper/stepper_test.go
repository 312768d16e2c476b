// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunThenStop(t *testing.T) {
	st := New()
	assert.Equal(t, Stopped, st.State())
	assert.True(t, st.StepPoint(), "a stopped stepper exits immediately")

	st.Start()
	assert.True(t, st.Active())
	for i := 0; i < 5; i++ {
		assert.False(t, st.StepPoint())
	}
	st.Stop()
	assert.True(t, st.StepPoint())
}

func TestSteppingBudgetPauses(t *testing.T) {
	st := New()
	paused := 0
	st.OnPause(func() { paused++ })
	st.Step(3)

	done := make(chan bool, 1)
	go func() {
		steps := 0
		for {
			if st.StepPoint() {
				done <- true
				return
			}
			steps++
		}
	}()
	// the loop pauses after its 3-step budget; Stop releases it
	for st.State() != Paused {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 1, paused)
	st.Stop()
	assert.True(t, <-done)
}
