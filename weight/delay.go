// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package weight

import (
	"math"

	"github.com/vgreg/pcnn/perr"
)

// DelayConfig parameterizes the per-weight delay-initialization step:
// delay = BaseDelay + geometric_distance(recv, send) / Velocity, optionally
// capped at the 31-timestep bound of the output-history word.
type DelayConfig struct {
	BaseDelay int
	Velocity  float32
	CapDelay  bool
}

// Dist2D is a 2D coordinate used to compute the geometric distance between
// a receiving unit and the sending unit it reads from.
type Dist2D struct{ Row, Col float32 }

func geomDistance(a, b Dist2D) float32 {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	return float32(math.Sqrt(float64(dr*dr + dc*dc)))
}

// InitDelays sets m.Delays from recvPos/sendPos (one entry per recv/send
// unit, matching m.Rows/m.Cols) according to cfg. Returns
// perr.ErrDelayOutOfRange if a computed delay exceeds 31 and CapDelay is
// false.
func InitDelays(m *Matrix, recvPos, sendPos []Dist2D, cfg DelayConfig) error {
	if len(recvPos) != m.Rows || len(sendPos) != m.Cols {
		return perr.Wrapf(perr.ErrInvalidConfig, "weight: delay position count mismatch recv=%d/%d send=%d/%d",
			len(recvPos), m.Rows, len(sendPos), m.Cols)
	}
	delays := make([]int32, m.Rows*m.Cols)
	vel := cfg.Velocity
	if vel <= 0 {
		vel = 1
	}
	const maxDelay = 31
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			dist := geomDistance(recvPos[r], sendPos[c])
			delay := cfg.BaseDelay + int(dist/vel)
			if delay > maxDelay {
				if !cfg.CapDelay {
					return perr.Wrapf(perr.ErrDelayOutOfRange,
						"weight: delay %d at (%d,%d) exceeds %d and cap_delay is false", delay, r, c, maxDelay)
				}
				delay = maxDelay
			}
			delays[r*m.Cols+c] = int32(delay)
		}
	}
	m.Delays = delays
	return nil
}
