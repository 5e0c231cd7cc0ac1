// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"sort"
)

// NodeID identifies a node in a Mesh.
//
type NodeID int

// A Node is a single electrically distinct signal of a flattened design.
//
type Node struct {
	ID NodeID
	// Pins lists the paths of all pins merged into this node, in allocation
	// order.
	Pins []string
	// Driver is the index in Mesh.Chips of the chip driving this node, -1 if
	// the node is a free input.
	Driver int
	// DriverPin is the path of the driving output pin.
	DriverPin string
}

// Free returns true if no chip output drives n.
//
func (n *Node) Free() bool { return n.Driver < 0 }

// A LeafChip is a leaf template instance bound to mesh nodes. Its inputs and
// outputs are in template declaration order.
//
type LeafChip struct {
	Path     string
	Template *Template
	In       []NodeID
	Out      []NodeID

	// evaluation buffers. A chip is only ever evaluated by a single worker.
	in, out []bool
}

// Traverse evaluates c against the committed values of f and writes its
// outputs to the pending buffer of f.
//
func (c *LeafChip) Traverse(f *Frame) {
	for i, n := range c.In {
		c.in[i] = f.Get(n)
	}
	c.Template.logic.Eval(c.in, c.out)
	for i, n := range c.Out {
		f.Set(n, c.out[i])
	}
}

// A Mesh is a flattened design: a set of nodes and the leaf chips that read
// and drive them. A Mesh is read-only once built.
//
type Mesh struct {
	Nodes []Node
	Chips []*LeafChip
	Root  *DesignInstance

	pins map[string]NodeID
}

// Len returns the number of nodes in m.
//
func (m *Mesh) Len() int { return len(m.Nodes) }

// NodeOf returns the node a pin path resolves to.
//
func (m *Mesh) NodeOf(path string) (NodeID, bool) {
	n, ok := m.pins[path]
	return n, ok
}

// Node returns the node with the given id.
//
func (m *Mesh) Node(id NodeID) *Node { return &m.Nodes[id] }

// Driver returns the chip driving node id, nil if the node is free.
//
func (m *Mesh) Driver(id NodeID) *LeafChip {
	if d := m.Nodes[id].Driver; d >= 0 {
		return m.Chips[d]
	}
	return nil
}

// Paths returns all pin paths in m, sorted.
//
func (m *Mesh) Paths() []string {
	r := make([]string, 0, len(m.pins))
	for p := range m.pins {
		r = append(r, p)
	}
	sort.Strings(r)
	return r
}

// FreeNodes returns the nodes not driven by any chip output.
//
func (m *Mesh) FreeNodes() []NodeID {
	var r []NodeID
	for i := range m.Nodes {
		if m.Nodes[i].Free() {
			r = append(r, m.Nodes[i].ID)
		}
	}
	return r
}

// Traversables returns the chips of m as a list of Traversable for use with a
// Scheduler.
//
func (m *Mesh) Traversables() []Traversable {
	r := make([]Traversable, len(m.Chips))
	for i, c := range m.Chips {
		r[i] = c
	}
	return r
}
