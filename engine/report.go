// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "github.com/vgreg/pcnn/ptr"

// Report is the structured result of a run. Nothing is written to stdout
// unless the run was verbose; callers inspect or serialize the Report
// instead.
type Report struct {
	// Iterations actually executed, which can differ from the requested
	// count when interrupted.
	Iterations int

	// WallSeconds is total wall-clock time of the run.
	WallSeconds float64

	// RefreshRate is the achieved loop frequency, iterations per second.
	RefreshRate float64

	// PeakMemory is bytes of tracked allocations per device.
	PeakMemory map[ptr.DeviceID]int

	// Args echoes the configuration the run was started with.
	Args Config

	// Interrupted is set when the run ended through the interrupt path,
	// including kernel errors; ErrorKind then names the error kind, or is
	// empty for a plain interrupt.
	Interrupted bool
	ErrorKind   string

	// Modules holds each module's own report entry, keyed by module name.
	Modules map[string]map[string]any
}
