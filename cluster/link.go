// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import (
	"github.com/vgreg/pcnn/instr"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
)

// Link installs the dependencies that cross cluster boundaries, after
// every Cluster has been built:
//
// For each cross-structure connection the consumer's activation reads the
// source's previous-timestep output, so the source's state update gets an
// external dependency on the activation's event (the same mutual pair a
// Parallel cluster installs for its intra edges).
//
// Inter-device edges are additionally deduplicated into one
// InterDeviceTransfer per (source layer, destination device), owned by the
// source's cluster and launched before everything else each timestep; every
// consuming activation waits on the transfer's event, so N consumers do N
// waits but one copy, and the source's state update waits for the transfer
// before shifting its ring.
func Link(clusters []*Cluster) error {
	byStruct := map[*netw.Structure]*Cluster{}
	for _, c := range clusters {
		byStruct[c.Struct] = c
	}
	type xferKey struct {
		layer netw.ID
		dev   ptr.DeviceID
	}
	xfers := map[xferKey]*ptr.Event{}

	for _, dst := range clusters {
		for _, n := range dst.nodes {
			for _, act := range n.activates {
				conn := act.conn
				src := byStruct[conn.From.Structure()]
				srcNode := src.Node(conn.From)

				if !act.intra {
					ev, err := dst.arena.EnsureEvent(act.id)
					if err != nil {
						return err
					}
					src.arena.Get(srcNode.stateU).AddExtDep(ev)
				}

				if !conn.InterDev {
					continue
				}
				st := src.st
				k := xferKey{layer: conn.From.ID, dev: st.Device(conn.To)}
				ev, ok := xfers[k]
				if !ok {
					stream, err := st.Mgr.NewInterDeviceStream(k.dev)
					if err != nil {
						return err
					}
					id := src.arena.Add(instr.NewInterDeviceTransfer(st, stream, conn.From, k.dev))
					src.transfers = append(src.transfers, id)
					// don't shift the source ring until it has been mirrored
					if err := src.arena.AddDep(id, srcNode.stateU); err != nil {
						return err
					}
					if ev, err = src.arena.EnsureEvent(id); err != nil {
						return err
					}
					xfers[k] = ev
				}
				dst.arena.Get(act.id).AddExtDep(ev)
			}
		}
	}
	return nil
}
