// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netw is the static network description: Layer, Connection, and
// DendriticNode. These are the immutable, builder-produced description of a
// network that package state partitions across devices and package
// cluster turns into scheduled Instructions. Nothing in this package ever
// mutates a Layer or Connection after the builder (an external collaborator
// to the engine) finishes constructing the network -- engine-side state
// lives in package attr and package weight instead.
package netw
