// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package pcnn is a spiking and rate-coded neural-network simulation engine.
A caller describes a network -- layers of neurons organized into
structures, arborized and dense connections between them, per-layer neuron
models, per-connection learning rules -- and the engine advances it in
discrete timesteps, driving input modules, computing synaptic currents,
updating neuron state, optionally updating weights, and delivering output
to motor or display modules.

This top level has no functional code -- everything is organized into the
following packages, leaves first:

* ptr: the uniform buffer (Pointer), ordered command queue (Stream), and
barrier (Event) abstractions every other layer sits on. A pure host build;
accelerator devices are simulated as asynchronous stream goroutines.

* resmgr: the resource manager owning devices, default streams, events,
tracked allocations, the worker pool for parallel host kernels, per-device
RNG streams, and the process-wide Runtime (single-engine lock, atomic
interrupt flag).

* kernel: a polymorphic operation carrying a serial and a worker-pool
parallel implementation of the same logical step, dispatched onto a Stream.

* conn: connectivity patterns between two layer shapes -- full, one-to-one,
subset, and the arborized rectangular fields -- returning a general bitmap
representation that higher layers consume.

* netw: the static network description (Structure, Layer, Connection,
DendriticNode), immutable once built.

* weight: dense per-connection weight matrices with auxiliary variable
layers, the weight-initialization config variants, per-weight delays, and
lazy transposition.

* attr: per-(device, neural-model) state -- input register banks, the
bit-packed/float/int output delay rings, expected-output and second-order
buffers, per-neuron variables -- plus the neural-model registry and the
generic activator/updater kernels.

* state: ownership of all Attributes and WeightMatrices, device
assignment, inter-device mirror rings, and the environment-facing Buffers.

* instr: the atomic scheduling unit (Instruction) and the arena that links
instructions by integer-id dependencies backed by a parallel event arena.

* cluster: per-structure scheduling of one node per layer under parallel,
sequential, or feedforward dispatch, plus cross-structure and inter-device
dependency linking.

* engine: the top-level build sequence and the main loop, single-threaded
or with environment I/O overlapped through a pair of hand-off locks.

* nmodel: reference neuron models (izhikevich spiking, rate-coded) that
register themselves by name at init time.

* erand, stepper, timer, edge, efuns, perr: supporting utilities for
randomness, run control, timing, field-edge handling, gaussians, and the
error-kind taxonomy.
*/
package pcnn
