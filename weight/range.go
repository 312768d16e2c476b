// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package weight

// Range represents a clamping range for weight values, [Min, Max].
type Range struct {
	Min float32
	Max float32
}

// InRange reports whether val falls within [Min, Max] inclusive.
func (r *Range) InRange(val float32) bool {
	return val >= r.Min && val <= r.Max
}

// ClipVal clips val to lie within [Min, Max].
func (r *Range) ClipVal(val float32) float32 {
	if val < r.Min {
		return r.Min
	}
	if val > r.Max {
		return r.Max
	}
	return val
}
