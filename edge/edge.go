// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package edge provides coordinate wrapping/clipping helpers used by the
// arborized-field connection geometry in package conn.
package edge

import "cogentcore.org/core/math32"

// Edge returns the coordinate value based on either wrapping or clipping at
// the edge, and if not wrapping, whether it should be clipped (ignored).
func Edge(ci, max int, wrap bool) (int, bool) {
	if ci < 0 {
		if wrap {
			return (max + ci) % max, false
		}
		return 0, true
	}
	if ci >= max {
		if wrap {
			return (ci - max) % max, false
		}
		return max - 1, true
	}
	return ci, false
}

// WrapMinDist returns the wrapped coordinate value closest to ctr -- i.e.,
// if going out beyond max is closer, returns that coordinate, else if going
// below 0 is closer, returns that coordinate, else returns ci unchanged.
func WrapMinDist(ci, max, ctr float32) float32 {
	nwd := math32.Abs(ci - ctr)
	if math32.Abs((ci+max)-ctr) < nwd {
		return ci + max
	}
	if math32.Abs((ci-max)-ctr) < nwd {
		return ci - max
	}
	return ci
}
