// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ptr provides the uniform buffer (Pointer), asynchronous
// command-stream (Stream), and barrier (Event) abstractions that sit
// beneath every other layer of the engine. A Pointer never knows whether it
// lives in plain host memory or on an accelerator; callers route all
// cross-memory operations through a Stream bound to a Device, and that
// Stream decides whether the work runs inline (host) or is queued to an
// asynchronous worker (accelerator).
//
// This module ships only the host implementation of Device/Stream/Event --
// a pure host build; accelerator support slots in as a second
// implementation of the same contracts rather than build-time flags. Device
// ids below the host id are modeled as simulated async devices (their
// Stream runs a dedicated goroutine) so that multi-device scheduling,
// inter-device transfer, and the ResourceManager's device registry are all
// exercisable without real accelerator bindings.
package ptr

import "fmt"

// DeviceID identifies a device known to the ResourceManager. Per the design,
// the host device always has the highest id among the active set.
type DeviceID int

// Device describes one compute device: the host, or a simulated accelerator.
type Device struct {
	ID   DeviceID
	Host bool
	Name string
}

func (d Device) String() string {
	if d.Host {
		return fmt.Sprintf("host(%d)", d.ID)
	}
	return fmt.Sprintf("device(%d:%s)", d.ID, d.Name)
}
