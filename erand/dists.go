// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package erand

import "math"

// This file holds the concrete distribution generators referenced by
// RndParams.Gen and by the weight-config initializers in package weight.
// Thr follows the package convention: -1 uses the shared stream, >= 0
// selects an independent per-thread stream.

// GaussianGen returns a sample from Normal(mean, std).
func GaussianGen(mean, std float64, thr int, rnd Rand) float64 {
	return mean + std*rnd.NormFloat64(thr)
}

// LogNormalGen returns a sample from a log-normal distribution whose
// underlying normal has the given mean and std.
func LogNormalGen(mean, std float64, thr int, rnd Rand) float64 {
	return math.Exp(GaussianGen(mean, std, thr, rnd))
}

// PoissonGen returns a sample from Poisson(lambda) using Knuth's algorithm.
// Adequate for lambda in the range typically used for input noise and is not
// intended for very large lambda.
func PoissonGen(lambda float64, thr int, rnd Rand) float64 {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rnd.Float64(thr)
		if p <= l {
			break
		}
	}
	return float64(k - 1)
}

// BinomialGen returns the number of successes in n independent trials of
// probability p. n is passed as a float64 to match RndParams.Par's type and
// truncated to an int.
func BinomialGen(n, p float64, thr int, rnd Rand) float64 {
	trials := int(n)
	count := 0
	for i := 0; i < trials; i++ {
		if rnd.Float64(thr) < p {
			count++
		}
	}
	return float64(count)
}

// GammaGen returns a sample from Gamma(shape=k, scale=theta) via the
// Marsaglia-Tsang method, valid for k >= 1; for k < 1 it boosts the shape by
// one and corrects via a uniform power transform.
func GammaGen(k, theta float64, thr int, rnd Rand) float64 {
	if k < 1 {
		u := rnd.Float64(thr)
		return GammaGen(k+1, theta, thr, rnd) * math.Pow(u, 1/k)
	}
	d := k - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rnd.NormFloat64(thr)
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rnd.Float64(thr)
		if u < 1-0.0331*x*x*x*x {
			return d * v * theta
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v * theta
		}
	}
}

// BetaGen returns a sample from Beta(alpha, beta) via the two-Gamma-variate
// construction.
func BetaGen(alpha, beta float64, thr int, rnd Rand) float64 {
	x := GammaGen(alpha, 1, thr, rnd)
	y := GammaGen(beta, 1, thr, rnd)
	if x+y == 0 {
		return 0
	}
	return x / (x + y)
}

// PowerLawGen draws from a bounded power-law distribution on (0, max] with
// the given exponent, via inverse-CDF sampling. An exponent of exactly 1
// is treated as 1.0001.
func PowerLawGen(exponent, max float64, thr int, rnd Rand) float64 {
	if max <= 0 {
		return 0
	}
	const xmin = 1e-6
	u := rnd.Float64(thr)
	if exponent == 1 {
		exponent = 1.0001
	}
	a := 1 - exponent
	v := math.Pow(xmin, a) + u*(math.Pow(max, a)-math.Pow(xmin, a))
	x := math.Pow(v, 1/a)
	if x < 0 {
		x = 0
	}
	if x > max {
		x = max
	}
	return x
}
