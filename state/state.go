// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package state owns all mutable engine state for a built network: the
// Attributes instance for every (device, neural-model) partition, the
// WeightMatrix for every connection, the mirror rings that carry an
// inter-device source layer's output history onto consuming devices, and
// the environment-facing Buffers. It assigns layers to devices, answers
// every per-layer and per-connection lookup the scheduling layer needs, and
// frees everything at teardown.
package state

import (
	"github.com/vgreg/pcnn/attr"
	"github.com/vgreg/pcnn/kernel"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/perr"
	"github.com/vgreg/pcnn/ptr"
	"github.com/vgreg/pcnn/resmgr"
	"github.com/vgreg/pcnn/weight"
)

// Key identifies one Attributes partition.
type Key struct {
	Device ptr.DeviceID
	Model  string
}

type mirrorKey struct {
	Layer  netw.ID
	Device ptr.DeviceID
}

// State holds the engine's mutable state, partitioned across devices.
type State struct {
	Net *netw.Network
	Mgr *resmgr.Manager

	devices  []ptr.DeviceID
	layerDev map[netw.ID]ptr.DeviceID

	attrs   map[Key]*attr.Attributes
	byLayer map[netw.ID]*attr.Attributes

	matrices map[*netw.Connection]*weight.Matrix
	cons     map[*netw.Connection][]bool

	mirrors map[mirrorKey]*attr.OutputRing

	buffers map[ptr.DeviceID]*Buffer
}

// Build partitions net's layers across the active devices (round-robin in
// layer order unless override pins a layer), constructs an Attributes
// instance per non-empty (device, model) partition, and builds every
// connection's WeightMatrix, invoking the receiving model's weight-matrix
// hook. Buffers are built separately once module I/O roles are known, via
// BuildBuffers.
func Build(net *netw.Network, devices []ptr.DeviceID, mgr *resmgr.Manager,
	override map[netw.ID]ptr.DeviceID) (*State, error) {
	if len(devices) == 0 {
		return nil, perr.Wrapf(perr.ErrInvalidConfig, "state: no active devices")
	}
	for _, d := range devices {
		if _, err := mgr.Device(d); err != nil {
			return nil, err
		}
	}
	st := &State{
		Net: net, Mgr: mgr,
		devices:  devices,
		layerDev: map[netw.ID]ptr.DeviceID{},
		attrs:    map[Key]*attr.Attributes{},
		byLayer:  map[netw.ID]*attr.Attributes{},
		matrices: map[*netw.Connection]*weight.Matrix{},
		cons:     map[*netw.Connection][]bool{},
		mirrors:  map[mirrorKey]*attr.OutputRing{},
		buffers:  map[ptr.DeviceID]*Buffer{},
	}

	// device assignment and (device, model) partitioning
	parts := map[Key][]*netw.Layer{}
	i := 0
	for _, s := range net.Structures {
		for _, l := range s.Layers {
			dev := devices[i%len(devices)]
			if o, ok := override[l.ID]; ok {
				dev = o
			}
			i++
			st.layerDev[l.ID] = dev
			k := Key{Device: dev, Model: l.Model}
			parts[k] = append(parts[k], l)
		}
	}

	hasAccel := st.HasAccelerator()
	for k, layers := range parts {
		model, err := attr.Lookup(k.Model)
		if err != nil {
			return nil, perr.Wrapf(perr.ErrInvalidConfig, "state: %v", err)
		}
		if model.Kind != layers[0].Kind {
			return nil, perr.Wrapf(perr.ErrIncompatibleModel,
				"state: layer %s declares kind %v but model %s produces %v",
				layers[0].Name, layers[0].Kind, model.Name, model.Kind)
		}
		a := attr.New(model, k.Device, layers, hasAccel)
		st.attrs[k] = a
		st.noteBytes(k.Device, a)
		for _, l := range layers {
			st.byLayer[l.ID] = a
		}
		mgr.TrackAlloc(a.Free)
	}

	for _, c := range net.Conns {
		if err := st.buildMatrix(c); err != nil {
			return nil, err
		}
		c.InterDev = st.layerDev[c.From.ID] != st.layerDev[c.To.ID]
		if c.InterDev {
			st.addMirror(c)
		}
	}
	return st, nil
}

func (st *State) buildMatrix(c *netw.Connection) error {
	rows, cols, shared := c.WeightShape()
	var m *weight.Matrix
	if shared {
		m = weight.NewSharedMatrix(rows, cols)
	} else {
		m = weight.NewMatrix(rows, cols)
	}
	if c.WeightInit != nil {
		rnd := st.Mgr.Rand(st.layerDev[c.To.ID])
		if err := weight.Init(m, c.WeightInit, c.MaxWeight, rnd, -1); err != nil {
			return err
		}
	}
	if c.ZeroDiag {
		if err := weight.ZeroDiagonal(m); err != nil {
			return err
		}
	}
	if c.DelayInit != nil {
		var recvPos, sendPos []weight.Dist2D
		if shared {
			// shared-kernel delays scale with distance from the field center
			recvPos = make([]weight.Dist2D, rows)
			sendPos = make([]weight.Dist2D, cols)
			for r := range recvPos {
				recvPos[r] = weight.Dist2D{Row: float32(r) - float32(rows-1)/2}
			}
			for col := range sendPos {
				sendPos[col] = weight.Dist2D{Col: float32(col) - float32(cols-1)/2}
			}
		} else {
			recvPos = unitPositions(c.To)
			sendPos = unitPositions(c.From)
		}
		if err := weight.InitDelays(m, recvPos, sendPos, *c.DelayInit); err != nil {
			return err
		}
	}
	if c.Plastic {
		m.Clamp(weight.Range{Min: c.MinWeight, Max: c.MaxWeight})
	}
	if model, err := attr.Lookup(c.To.Model); err == nil && model.ProcessWeightMatrix != nil {
		model.ProcessWeightMatrix(m, c)
	}
	st.matrices[c] = m
	if !shared {
		_, _, cons := c.Pattern().Connect(c.From.Shape(), c.To.Shape(), c.From == c.To)
		st.cons[c] = cons
	}
	return nil
}

func unitPositions(l *netw.Layer) []weight.Dist2D {
	pos := make([]weight.Dist2D, l.Len())
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			pos[r*l.Cols+c] = weight.Dist2D{Row: float32(r), Col: float32(c)}
		}
	}
	return pos
}

func (st *State) addMirror(c *netw.Connection) {
	k := mirrorKey{Layer: c.From.ID, Device: st.layerDev[c.To.ID]}
	if _, ok := st.mirrors[k]; ok {
		return
	}
	v := st.MirrorView(c.From)
	ring := attr.NewOutputRing(c.From.Kind, v.Len(), k.Device)
	st.mirrors[k] = ring
	st.Mgr.TrackAlloc(ring.Free)
}

func (st *State) noteBytes(dev ptr.DeviceID, a *attr.Attributes) {
	bytes := 4 * (a.Regs.Size() + a.Second.Size() + a.Reward.Size())
	for _, v := range a.Vars {
		bytes += 4 * v.Size()
	}
	st.Mgr.NoteBytes(dev, bytes)
}

// HasAccelerator reports whether any active device is not the host.
func (st *State) HasAccelerator() bool {
	for _, d := range st.devices {
		if dev, err := st.Mgr.Device(d); err == nil && !dev.Host {
			return true
		}
	}
	return false
}

// Devices returns the active device ids, in the order given to Build.
func (st *State) Devices() []ptr.DeviceID { return st.devices }

// Device returns the device l was assigned to.
func (st *State) Device(l *netw.Layer) ptr.DeviceID { return st.layerDev[l.ID] }

// Attrs returns the Attributes partition owning l.
func (st *State) Attrs(l *netw.Layer) *attr.Attributes { return st.byLayer[l.ID] }

// Model returns l's neural model.
func (st *State) Model(l *netw.Layer) attr.Model { return st.byLayer[l.ID].Model }

// Kernel returns l's attribute-update kernel.
func (st *State) Kernel(l *netw.Layer) kernel.Kernel { return st.Model(l).AttrKernel }

// Matrix returns the WeightMatrix built for c.
func (st *State) Matrix(c *netw.Connection) *weight.Matrix { return st.matrices[c] }

// Cons returns c's recv-major connectivity bitmap (nil for convolutional).
func (st *State) Cons(c *netw.Connection) []bool { return st.cons[c] }

// Activator returns the activator kernel for c, fetched from the receiving
// layer's model.
func (st *State) Activator(c *netw.Connection) kernel.Kernel {
	return st.Model(c.To).Activator
}

// Updater returns the weight-update kernel for c, fetched from the
// receiving layer's model.
func (st *State) Updater(c *netw.Connection) kernel.Kernel {
	return st.Model(c.To).Updater
}

// MirrorView is the ring view a standalone mirror of l's history uses.
func (st *State) MirrorView(l *netw.Layer) attr.RingView {
	return attr.RingView{Start: 0, Size: l.Len(), Words: l.OutputWords()}
}

// Mirror returns the mirror ring holding l's output history on dev, or nil
// if no inter-device connection required one.
func (st *State) Mirror(l *netw.Layer, dev ptr.DeviceID) *attr.OutputRing {
	return st.mirrors[mirrorKey{Layer: l.ID, Device: dev}]
}

// SrcRing returns the ring and view c's activator should read the source
// output from: the source layer's own Attributes ring normally, or the
// mirror on the destination device when c crosses devices.
func (st *State) SrcRing(c *netw.Connection) (*attr.OutputRing, attr.RingView) {
	if c.InterDev {
		return st.Mirror(c.From, st.layerDev[c.To.ID]), st.MirrorView(c.From)
	}
	a := st.byLayer[c.From.ID]
	return a.Out, a.Layout(c.From).Out
}

// Buffer returns dev's environment-facing Buffer (nil before BuildBuffers).
func (st *State) Buffer(dev ptr.DeviceID) *Buffer { return st.buffers[dev] }
