// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package conn computes the connectivity pattern and per-weight geometry for
the engine's Connection types: fully-connected, one-to-one,
subset-of-layer, convergent-arborized, divergent-arborized, and
convolutional (convolutional reuses the convergent-arborized field geometry
with a single shared kernel, enforced by package netw).

A Pattern only knows the shapes of the two layers involved -- it returns a
dense connection bitmap (cons) plus per-unit fan-in/fan-out counts
(recvn/sendn), fully independent of any WeightMatrix or neuron-model
concern. Package netw uses a Pattern's output to size and index a
connection's weight.Matrix. Keeping connectivity generation fully separate
from weight storage and setup means a pattern never needs rewriting when
the memory layout of weights changes.

All Pattern types have a New<Name> constructor that returns an instance
initialized with default values.
*/
package conn
