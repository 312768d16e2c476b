// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package erand provides randomization functionality built on top of
// standard math/rand random number generation functions.
//
// erand.Rand is the interface used by everything in this package; methods
// take a thr thread arg selecting an independent per-thread stream (-1 for
// the shared one), so parallel kernels draw without contending and a fixed
// seed replays identically. erand.SysRand implements the interface over
// deterministically-derived math/rand sources.
//
// RndParams specifies parameterized random generation according to various
// distributions, used for initializing random weights and generating
// random noise in neurons; the *Gen functions in dists.go are the
// underlying per-distribution generators.
package erand
