// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

import "github.com/vgreg/pcnn/perr"

// Network is the built, immutable description of an entire network: its
// Structures (each owning Layers) and Connections between them. Network
// construction itself (parsing a config, wiring up a specific model) is an
// external collaborator; Network is the data the builder hands to
// state.Build. AddLayer/Connect/SetSecondOrder implement the narrow slice
// of the build API the engine's tests exercise directly, without a
// config-file front end.
type Network struct {
	Structures []*Structure
	Conns      []*Connection
	nextLayer  ID
}

// NewNetwork creates an empty Network.
func NewNetwork() *Network { return &Network{} }

// AddStructure appends and returns a new, empty Structure.
func (n *Network) AddStructure(name string) *Structure {
	s := NewStructure(name)
	n.Structures = append(n.Structures, s)
	return s
}

// AddLayer creates a Layer of the given shape within structure and returns it.
func (n *Network) AddLayer(structure *Structure, name, model string, kind ModelKind, rows, cols int) *Layer {
	l := NewLayer(n.nextLayer, name, model, kind, rows, cols)
	n.nextLayer++
	structure.AddLayer(l)
	return l
}

// Connect creates a Connection from 'from' to 'to' per cfg, attaches it to
// from.Outs/to.Ins, feeds it into node, and validates it. node may be nil
// to feed directly into to.Root. With CapDelay set, a delay above MaxDelay
// is capped to MaxDelay.
func (n *Network) Connect(from, to *Layer, cfg Connection, node *DendriticNode) (*Connection, error) {
	c := cfg
	c.From, c.To = from, to
	if c.Name == "" {
		c.Name = from.Name + "To" + to.Name
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.CapDelay && c.Delay > MaxDelay {
		c.Delay = MaxDelay
	}
	if node == nil {
		node = to.Root
	}
	node.Conns = append(node.Conns, &c)
	c.Node = node
	from.Outs = append(from.Outs, &c)
	to.Ins = append(to.Ins, &c)
	n.Conns = append(n.Conns, &c)
	return &c, nil
}

// SetSecondOrder marks node's subtree as a multiplicative gate computed
// once per timestep over an auxiliary matrix.
func (n *Network) SetSecondOrder(node *DendriticNode) {
	node.SecondOrder = true
}

// Finalize computes each Layer's MaxOutputDelay from its outgoing
// Connections and assigns dendritic-tree register indices. Must be called
// once all Connect calls are complete and before state.Build.
func (n *Network) Finalize() error {
	for _, s := range n.Structures {
		for _, l := range s.Layers {
			max := 0
			for _, c := range l.Outs {
				if c.Delay > max {
					max = c.Delay
				}
				// per-weight delays can reach the full word width
				if c.DelayInit != nil {
					max = MaxDelay
				}
			}
			l.MaxOutputDelay = max
			l.AssignRegisters()
		}
	}
	return nil
}

// Layer looks up a Layer by name across all Structures.
func (n *Network) Layer(name string) (*Layer, error) {
	for _, s := range n.Structures {
		for _, l := range s.Layers {
			if l.Name == name {
				return l, nil
			}
		}
	}
	return nil, perr.Wrapf(perr.ErrInvalidConfig, "netw: no layer named %q", name)
}
