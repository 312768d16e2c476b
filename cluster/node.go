// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import (
	"github.com/vgreg/pcnn/instr"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/ptr"
)

const none instr.ID = -1

type activation struct {
	id   instr.ID
	conn *netw.Connection
	// intra marks a connection whose source lives in the same structure,
	// the edges a feedforward cluster propagates within the timestep
	intra bool
}

// Node owns the instructions for a single layer, held as ids into its
// cluster's arena: the initialization (broadcast or noise), the input /
// expected transfers for module-driven layers, one synapse activation per
// incoming connection plus the dendritic-tree combines, the state update,
// the output transfer, and the weight updates for plastic inbound
// connections. It records three events others can wait on: input, state,
// and output.
type Node struct {
	Layer  *netw.Layer
	Stream *ptr.Stream

	IsInput    bool
	IsOutput   bool
	IsExpected bool

	init      instr.ID
	postNoise instr.ID // additive noise on top of module input
	inputT    instr.ID
	expectedT instr.ID
	activates []activation
	dendrites []instr.ID
	stateU    instr.ID
	outputT   instr.ID
	updates   []instr.ID

	inputEvent  *ptr.Event
	stateEvent  *ptr.Event
	outputEvent *ptr.Event
}

// buildNode emits l's instructions into c's arena. The dendritic tree is
// walked depth-first, children before parents, so a node's combine always
// runs after the registers it reads are complete.
func (c *Cluster) buildNode(l *netw.Layer) (*Node, error) {
	st := c.st
	dev := st.Device(l)
	stream, err := st.Mgr.DefaultStream(dev)
	if err != nil {
		return nil, err
	}
	buf := st.Buffer(dev)
	n := &Node{
		Layer: l, Stream: stream,
		init: none, postNoise: none, inputT: none, expectedT: none,
		stateU: none, outputT: none,
	}
	if buf != nil {
		n.IsInput = buf.HasInput(l)
		n.IsOutput = buf.HasOutput(l)
		n.IsExpected = buf.HasExpected(l)
	}
	a := c.arena

	// initialization: module-driven layers consume the buffer (with any
	// declared noise added on top); the rest broadcast or sample noise
	if n.IsInput {
		n.inputT = a.Add(instr.NewInputTransfer(st, stream, l))
		if l.Noise != nil {
			n.postNoise = a.Add(instr.NewNoise(st, stream, l, l.Noise, false))
			if err := a.AddDep(n.inputT, n.postNoise); err != nil {
				return nil, err
			}
		}
	} else if l.Noise != nil {
		n.init = a.Add(instr.NewNoise(st, stream, l, l.Noise, true))
	} else {
		n.init = a.Add(instr.NewSet(st, stream, l, l.InitValue, true))
	}
	if n.IsExpected {
		n.expectedT = a.Add(instr.NewExpectedTransfer(st, stream, l))
	}

	clear := n.init
	if n.IsInput {
		clear = n.inputT
	}

	// synapse activations and dendritic combines, depth-first
	var walk func(dn *netw.DendriticNode) error
	walk = func(dn *netw.DendriticNode) error {
		for _, conn := range dn.Conns {
			intra := conn.From.Structure() == l.Structure()
			id := a.Add(instr.NewSynapseActivate(st, stream, conn,
				c.Kind == Feedforward && intra))
			if err := a.AddDep(clear, id); err != nil {
				return err
			}
			n.activates = append(n.activates, activation{id: id, conn: conn, intra: intra})
		}
		for i, ch := range dn.Children {
			if err := walk(ch); err != nil {
				return err
			}
			init := i == 0 && len(dn.Conns) == 0 && !ch.SecondOrder &&
				(ch.Op == netw.OpMult || ch.Op == netw.OpDiv)
			id := a.Add(instr.NewDendriticInternal(st, stream, l, dn, ch, init))
			for _, act := range n.activates {
				if err := a.AddDep(act.id, id); err != nil {
					return err
				}
			}
			if len(n.dendrites) > 0 {
				if err := a.AddDep(n.dendrites[len(n.dendrites)-1], id); err != nil {
					return err
				}
			}
			n.dendrites = append(n.dendrites, id)
		}
		return nil
	}
	if err := walk(l.Root); err != nil {
		return nil, err
	}

	// the state update waits on everything emitted so far
	n.stateU = a.Add(instr.NewStateUpdate(st, stream, l))
	for _, id := range []instr.ID{n.init, n.postNoise, n.inputT, n.expectedT} {
		if id != none {
			if err := a.AddDep(id, n.stateU); err != nil {
				return nil, err
			}
		}
	}
	for _, act := range n.activates {
		if err := a.AddDep(act.id, n.stateU); err != nil {
			return nil, err
		}
	}
	for _, id := range n.dendrites {
		if err := a.AddDep(id, n.stateU); err != nil {
			return nil, err
		}
	}

	if n.IsOutput {
		n.outputT = a.Add(instr.NewOutputTransfer(st, stream, l))
		if err := a.AddDep(n.stateU, n.outputT); err != nil {
			return nil, err
		}
	}

	// weight updates run after the state update, once every consumer of
	// the matrix this timestep is done
	for _, conn := range l.Ins {
		if !conn.Plastic || st.Updater(conn).IsNull() {
			continue
		}
		id := a.Add(instr.NewSynapseUpdate(st, stream, conn))
		if err := a.AddDep(n.stateU, id); err != nil {
			return nil, err
		}
		n.updates = append(n.updates, id)
	}

	// the three events the node exposes
	if n.inputT != none {
		if n.inputEvent, err = a.EnsureEvent(n.inputT); err != nil {
			return nil, err
		}
	}
	if n.stateEvent, err = a.EnsureEvent(n.stateU); err != nil {
		return nil, err
	}
	if n.outputT != none {
		if n.outputEvent, err = a.EnsureEvent(n.outputT); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// StateEvent returns the event recorded when this node's state update
// completes.
func (n *Node) StateEvent() *ptr.Event { return n.stateEvent }

// InputEvent returns the event recorded when this node's input transfer
// completes, or nil for layers without one.
func (n *Node) InputEvent() *ptr.Event { return n.inputEvent }

// OutputEvent returns the event recorded when this node's output transfer
// completes, or nil for layers without one.
func (n *Node) OutputEvent() *ptr.Event { return n.outputEvent }
