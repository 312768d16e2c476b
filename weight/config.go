// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package weight

import (
	"cogentcore.org/core/math32"
	"github.com/vgreg/pcnn/efuns"
	"github.com/vgreg/pcnn/erand"
	"github.com/vgreg/pcnn/perr"
)

// Config is the weight-initialization tagged union. Exactly one variant
// below is used per Connection; Init dispatches on the concrete type.
type Config interface {
	// apply fills m's Values (m.Rows x m.Cols, or the single shared kernel
	// for a Convolutional connection) according to the variant's rule.
	// rnd/thr select the per-device/per-thread RNG stream (erand
	// convention: thr == -1 for the shared stream).
	apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error
}

// Flat sets a uniform value across Fraction of the weights; the remainder
// stay at zero.
type Flat struct {
	Value    float32
	Fraction float32
}

// UniformRandom draws each weight uniformly from [0, Max].
type UniformRandom struct {
	Max      float32
	Fraction float32
}

// Gaussian draws each weight from Normal(Mean, Std), clamped to [0, maxWeight].
type Gaussian struct {
	Mean, Std float32
	Fraction  float32
}

// LogNormal draws each weight from a log-normal distribution parameterized
// by the underlying normal's Mean/Std, clamped to [0, maxWeight].
type LogNormal struct {
	Mean, Std float32
	Fraction  float32
}

// PowerLaw draws each weight from a bounded power-law distribution via
// inverse-CDF sampling, clamped to maxWeight.
type PowerLaw struct {
	Exponent float32
	Fraction float32
}

// Specified sets weights from an explicit row-major text of values; the
// count must exactly match m's element count.
type Specified struct {
	Values string
}

// GaussianField sets each weight from a gaussian falloff of its distance
// to the field center: Max at the center, decaying with Sigma expressed as
// a fraction of the field radius. Meant for convergent-arborized and
// convolutional kernels where nearer sources should weigh more.
type GaussianField struct {
	Max   float32
	Sigma float32
}

// Surround initializes as Inner, then zeroes a centered Rows x Cols window.
// Only valid for convergent-arborized/convolutional connections; Cols/Rows
// must each be smaller than the connection's field size, square or not.
type Surround struct {
	Inner      Config
	Rows, Cols int
}

// ZeroDiagonal, applied after any Config, zeroes the diagonal
// of a square matrix; only valid for square fully-connected or subset
// connections.
func ZeroDiagonal(m *Matrix) error {
	if m.Rows != m.Cols {
		return perr.Wrapf(perr.ErrInvalidConfig, "weight: diagonal=false only valid for square matrices, got %dx%d", m.Rows, m.Cols)
	}
	for i := 0; i < m.Rows; i++ {
		m.Set(i, i, 0)
	}
	return nil
}

func checkFraction(f float32) error {
	if f < 0 || f > 1 {
		return perr.Wrapf(perr.ErrInvalidConfig, "weight: fraction %v out of [0,1]", f)
	}
	return nil
}

func (c *Flat) apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error {
	if err := checkFraction(c.Fraction); err != nil {
		return err
	}
	return fractionalFill(m, c.Fraction, rnd, thr, func() float32 { return c.Value })
}

func (c *UniformRandom) apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error {
	if err := checkFraction(c.Fraction); err != nil {
		return err
	}
	return fractionalFill(m, c.Fraction, rnd, thr, func() float32 {
		return float32(rnd.Float64(thr)) * c.Max
	})
}

func (c *Gaussian) apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error {
	if err := checkFraction(c.Fraction); err != nil {
		return err
	}
	return fractionalFill(m, c.Fraction, rnd, thr, func() float32 {
		v := float32(erand.GaussianGen(float64(c.Mean), float64(c.Std), thr, rnd))
		return clampNonNeg(v, maxWeight)
	})
}

func (c *LogNormal) apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error {
	if err := checkFraction(c.Fraction); err != nil {
		return err
	}
	return fractionalFill(m, c.Fraction, rnd, thr, func() float32 {
		v := float32(erand.LogNormalGen(float64(c.Mean), float64(c.Std), thr, rnd))
		return clampNonNeg(v, maxWeight)
	})
}

func (c *PowerLaw) apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error {
	if err := checkFraction(c.Fraction); err != nil {
		return err
	}
	return fractionalFill(m, c.Fraction, rnd, thr, func() float32 {
		v := float32(erand.PowerLawGen(float64(c.Exponent), float64(maxWeight), thr, rnd))
		return clampNonNeg(v, maxWeight)
	})
}

func (c *Specified) apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error {
	vals, err := parseFloats(c.Values)
	if err != nil {
		return err
	}
	n := len(m.Values.Values)
	if len(vals) != n {
		return perr.Wrapf(perr.ErrInvalidConfig, "weight: specified count %d != matrix size %d", len(vals), n)
	}
	copy(m.Values.Values, vals)
	m.transposed = nil
	return nil
}

func (c *GaussianField) apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error {
	rows := m.Values.Dim(0)
	cols := m.Values.Dim(1)
	radius := float32(rows) / 2
	if cols > rows {
		radius = float32(cols) / 2
	}
	sig := c.Sigma * radius
	if sig <= 0 {
		return perr.Wrapf(perr.ErrInvalidConfig, "weight: gaussian field sigma %v must be positive", c.Sigma)
	}
	ctr := math32.Vec2(float32(cols-1)/2, float32(rows-1)/2)
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			pos := math32.Vec2(float32(col), float32(r))
			w := c.Max * efuns.GaussVecDistNoNorm(pos, ctr, sig)
			m.Set(r, col, clampNonNeg(w, maxWeight))
		}
	}
	return nil
}

func (c *Surround) apply(m *Matrix, maxWeight float32, rnd erand.Rand, thr int) error {
	fieldRows, fieldCols := m.Rows, m.Cols
	if m.Shared {
		fieldRows, fieldCols = m.Values.Dim(0), m.Values.Dim(1)
	}
	if c.Rows >= fieldRows || c.Cols >= fieldCols {
		return perr.Wrapf(perr.ErrInvalidConfig,
			"weight: surround window %dx%d must be smaller than field %dx%d", c.Rows, c.Cols, fieldRows, fieldCols)
	}
	if err := Init(m, c.Inner, maxWeight, rnd, thr); err != nil {
		return err
	}
	r0 := (fieldRows - c.Rows) / 2
	c0 := (fieldCols - c.Cols) / 2
	for r := r0; r < r0+c.Rows; r++ {
		for col := c0; col < c0+c.Cols; col++ {
			m.Set(r, col, 0)
		}
	}
	return nil
}

// Init dispatches cfg.apply, the single entry point package state uses when
// building a Connection's WeightMatrix.
func Init(m *Matrix, cfg Config, maxWeight float32, rnd erand.Rand, thr int) error {
	return cfg.apply(m, maxWeight, rnd, thr)
}

func clampNonNeg(v, max float32) float32 {
	if v < 0 {
		v = 0
	}
	if v > max {
		v = max
	}
	return v
}

// fractionalFill sets Fraction of m's elements (row-major order, from the
// start) to gen(), leaving the remainder at zero -- the fraction contract
// shared by every non-Specified/Surround variant.
func fractionalFill(m *Matrix, fraction float32, rnd erand.Rand, thr int, gen func() float32) error {
	n := len(m.Values.Values)
	set := int(float32(n)*fraction + 0.5)
	for i := 0; i < set; i++ {
		m.Values.Values[i] = gen()
	}
	m.transposed = nil
	return nil
}
