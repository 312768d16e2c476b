// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resmgr implements the ResourceManager: device discovery,
// default/inter-device Streams, Event creation, a worker thread pool for
// parallel host kernels, and the managed-allocation bookkeeping needed for
// bulk-free at shutdown, and one erand.Rand stream per device. It also
// holds the truly process-wide Runtime state: the single-engine-at-a-time
// lock and the atomic interrupt flag.
package resmgr
