// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package efuns has misc functions, such as Gaussian, used by connection
// geometry and weight initialization, with no more natural home.
package efuns

import "cogentcore.org/core/math32"

// GaussVecDistNoNorm returns the gaussian of the distance between two 2D
// vectors using the given sigma, without normalizing area under the curve
// (max value is 1 at dist = 0).
func GaussVecDistNoNorm(a, b math32.Vector2, sigma float32) float32 {
	dsq := a.DistToSquared(b)
	return math32.FastExp((-0.5 * dsq) / (sigma * sigma))
}

// Gauss1DNoNorm returns the gaussian of a given x value, without
// normalizing (max value is 1 at x = 0).
func Gauss1DNoNorm(x, sig float32) float32 {
	x /= sig
	return math32.FastExp(-0.5 * x * x)
}
