// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package attr implements Attributes: the per-(device, neural-model) owner
// of a layer partition's input register bank, output delay-history ring,
// expected-output buffer, second-order gate buffers, and per-neuron
// variables, plus the string-keyed registry concrete neural models add
// themselves to at init time. A model's kernels are plain function values
// looked up once at engine-build time, keeping runtime polymorphism out of
// the hot paths.
package attr
