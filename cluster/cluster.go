// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cluster converts one structure's layer graph into a dependency-
// ordered schedule of instructions. A Cluster owns one arena of
// instructions plus a Node per layer, and its kind decides the dispatch
// order: Parallel lets every node's work overlap, constrained only by the
// mutual-dependency pair that keeps a consumer reading its source's
// previous-timestep output; Sequential chains the state updates; and
// Feedforward additionally propagates the current timestep's output
// forward, which requires the structure's connection graph to be acyclic.
package cluster

import (
	"github.com/vgreg/pcnn/instr"
	"github.com/vgreg/pcnn/netw"
	"github.com/vgreg/pcnn/perr"
	"github.com/vgreg/pcnn/state"
)

// Kind selects a Cluster's dispatch order.
type Kind int32 //enums:enum

const (
	Parallel Kind = iota
	Sequential
	Feedforward
)

// Cluster schedules the ClusterNodes of one structure.
type Cluster struct {
	Kind   Kind
	Struct *netw.Structure

	st    *state.State
	arena *instr.Arena
	nodes []*Node

	// transfers are the deduplicated inter-device copies sourced from this
	// structure's layers, launched before everything else each timestep.
	transfers []instr.ID
}

// Build constructs the Cluster for s. Buffers must already exist on st so
// node construction can see module I/O roles. A feedforward cluster
// requires s's intra-structure connection graph to be a DAG; nodes are
// then created in topological order, which is also the launch order.
func Build(st *state.State, s *netw.Structure, kind Kind) (*Cluster, error) {
	c := &Cluster{
		Kind:   kind,
		Struct: s,
		st:     st,
		arena:  instr.NewArena(st.Mgr),
	}
	for _, l := range s.Layers {
		model := st.Model(l)
		if model.ClusterCompatible != nil && !model.ClusterCompatible(kind.String()) {
			return nil, perr.Wrapf(perr.ErrIncompatibleModel,
				"cluster: model %s rejects %s dispatch for layer %s", model.Name, kind, l.Name)
		}
	}
	layers := s.Layers
	if kind == Feedforward {
		var err error
		if layers, err = topoOrder(s); err != nil {
			return nil, err
		}
	}
	byLayer := map[netw.ID]*Node{}
	for _, l := range layers {
		n, err := c.buildNode(l)
		if err != nil {
			return nil, err
		}
		c.nodes = append(c.nodes, n)
		byLayer[l.ID] = n
	}

	switch kind {
	case Parallel, Sequential:
		// mutual-dependency pair per intra edge: the source's state update
		// waits for every activation that reads its output, so a consumer
		// always sees the previous timestep's word
		for _, n := range c.nodes {
			for _, act := range n.activates {
				if !act.intra {
					continue
				}
				src := byLayer[act.conn.From.ID]
				if err := c.arena.AddDep(act.id, src.stateU); err != nil {
					return nil, err
				}
			}
		}
		if kind == Sequential {
			for i := 1; i < len(c.nodes); i++ {
				if err := c.arena.AddDep(c.nodes[i-1].stateU, c.nodes[i].stateU); err != nil {
					return nil, err
				}
			}
		}
	case Feedforward:
		// forward edges: an intra activation waits for its source's state
		// update this timestep, seeing the just-updated output
		for _, n := range c.nodes {
			for _, act := range n.activates {
				if !act.intra {
					continue
				}
				src := byLayer[act.conn.From.ID]
				if err := c.arena.AddDep(src.stateU, act.id); err != nil {
					return nil, err
				}
			}
		}
	}
	return c, nil
}

// topoOrder Kahn-sorts s's layers over intra-structure edges.
func topoOrder(s *netw.Structure) ([]*netw.Layer, error) {
	indeg := map[netw.ID]int{}
	for _, l := range s.Layers {
		for _, conn := range l.Ins {
			if conn.From.Structure() == s {
				indeg[l.ID]++
			}
		}
	}
	var order []*netw.Layer
	ready := []*netw.Layer{}
	for _, l := range s.Layers {
		if indeg[l.ID] == 0 {
			ready = append(ready, l)
		}
	}
	for len(ready) > 0 {
		l := ready[0]
		ready = ready[1:]
		order = append(order, l)
		for _, conn := range l.Outs {
			if conn.To.Structure() != s {
				continue
			}
			indeg[conn.To.ID]--
			if indeg[conn.To.ID] == 0 {
				ready = append(ready, conn.To)
			}
		}
	}
	if len(order) != len(s.Layers) {
		return nil, perr.Wrapf(perr.ErrInvalidTopology,
			"cluster: structure %s has a cycle; feedforward dispatch requires a DAG", s.Name)
	}
	return order, nil
}

// Nodes returns the cluster's nodes in launch order.
func (c *Cluster) Nodes() []*Node { return c.nodes }

// Arena exposes the cluster's instruction arena for cross-cluster linking.
func (c *Cluster) Arena() *instr.Arena { return c.arena }

// Node returns the node for l, or nil if l is not in this structure.
func (c *Cluster) Node(l *netw.Layer) *Node {
	for _, n := range c.nodes {
		if n.Layer == l {
			return n
		}
	}
	return nil
}

// ResetEvents readies the arena's events for a new timestep.
func (c *Cluster) ResetEvents() { c.arena.ResetEvents() }

// SetLearning propagates the run's learning flag into the arena's
// instruction args before a run starts.
func (c *Cluster) SetLearning(learn bool) { c.arena.SetLearning(learn) }

// LaunchPreInput submits everything that does not need the current
// timestep's module input: the inter-device mirrors of the previous
// timestep's outputs, each non-input layer's initialization, and the
// non-input layers' activation chains. Under feedforward dispatch the
// intra-structure activations (and the dendritic combines that read them)
// are deferred to the state phase; cross-structure activations still run
// here, since they read previous-timestep outputs.
func (c *Cluster) LaunchPreInput(learning bool) {
	for _, id := range c.transfers {
		c.arena.Activate(id, learning)
	}
	for _, n := range c.nodes {
		if n.init != none {
			c.arena.Activate(n.init, learning)
		}
	}
	for _, n := range c.nodes {
		if n.IsInput {
			continue
		}
		c.launchCompute(n, learning, c.Kind != Feedforward)
	}
}

// launchCompute submits a node's activations then, when full is set, its
// dendritic combines. With full unset only cross-structure activations are
// submitted; the rest run in the state phase.
func (c *Cluster) launchCompute(n *Node, learning, full bool) {
	for _, act := range n.activates {
		if act.intra && !full {
			continue
		}
		c.arena.Activate(act.id, learning)
	}
	if !full {
		return
	}
	for _, id := range n.dendrites {
		c.arena.Activate(id, learning)
	}
}

// launchDeferred submits the activation work launchCompute held back for a
// feedforward node: its intra-structure activations and its dendritic
// combines.
func (c *Cluster) launchDeferred(n *Node, learning bool) {
	for _, act := range n.activates {
		if act.intra {
			c.arena.Activate(act.id, learning)
		}
	}
	for _, id := range n.dendrites {
		c.arena.Activate(id, learning)
	}
}

// LaunchInput submits the input and expected transfers, after modules have
// written the buffer.
func (c *Cluster) LaunchInput(learning bool) {
	for _, n := range c.nodes {
		if n.inputT != none {
			c.arena.Activate(n.inputT, learning)
		}
		if n.expectedT != none {
			c.arena.Activate(n.expectedT, learning)
		}
	}
}

// LaunchPostInput submits the work that had to wait for freshly written
// input layers: their additive noise and their activation chains.
func (c *Cluster) LaunchPostInput(learning bool) {
	for _, n := range c.nodes {
		if n.postNoise != none {
			c.arena.Activate(n.postNoise, learning)
		}
	}
	for _, n := range c.nodes {
		if n.IsInput {
			c.launchCompute(n, learning, c.Kind != Feedforward)
		}
	}
}

// LaunchStateUpdate submits every node's state update. Under feedforward
// dispatch the deferred activation chains are interleaved in topological
// order, so each node reads its predecessors' current-timestep output.
func (c *Cluster) LaunchStateUpdate(learning bool) {
	for _, n := range c.nodes {
		if c.Kind == Feedforward {
			c.launchDeferred(n, learning)
		}
		c.arena.Activate(n.stateU, learning)
	}
}

// LaunchWeightUpdate submits the plastic connections' weight updates.
// Callers skip this entirely when learning is disabled; the per-
// instruction plastic flag is a second guard.
func (c *Cluster) LaunchWeightUpdate(learning bool) {
	for _, n := range c.nodes {
		for _, id := range n.updates {
			c.arena.Activate(id, learning)
		}
	}
}

// LaunchOutput submits the output transfers for this timestep.
func (c *Cluster) LaunchOutput(learning bool) {
	for _, n := range c.nodes {
		if n.outputT != none {
			c.arena.Activate(n.outputT, learning)
		}
	}
}

// WaitForInput blocks until every node's input transfer has completed.
func (c *Cluster) WaitForInput() {
	for _, n := range c.nodes {
		if n.inputEvent != nil {
			n.inputEvent.Wait()
		}
	}
}

// WaitForOutput blocks until every node's output transfer has completed.
func (c *Cluster) WaitForOutput() {
	for _, n := range c.nodes {
		if n.outputEvent != nil {
			n.outputEvent.Wait()
		}
	}
}

// WaitForState blocks until every node's state update has completed,
// quiescing the timestep before events are reset.
func (c *Cluster) WaitForState() {
	for _, n := range c.nodes {
		n.stateEvent.Wait()
	}
}
