// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"strings"
)

type pinAlloc struct {
	path string
	node int
}

type generator struct {
	wr    wiring
	pins  []pinAlloc
	chips []*LeafChip
	ins   []*DesignInstance // all instances, pre-order
}

// Flatten flattens the design d into a Mesh.
//
// Chip instances are visited in pre-order, in the order they appear in their
// design. Each visited chip gets a fresh node for every one of its pins, then
// the nodes connected by the design's wires are merged. Nodes are numbered by
// order of allocation, so that the same design always yields the same mesh.
//
// Flatten fails with a *StructuralError if a composite template contains
// itself, with a *ValidationError if a wire references an unknown chip or pin,
// and with a *MultiDriverError if a node is driven by more than one output.
// Template cycles and pin references are checked before any node is
// allocated.
//
func Flatten(d *Design) (*Mesh, *DesignInstance, error) {
	if d == nil {
		return nil, nil, &ValidationError{Reason: "nil design"}
	}
	if err := checkCycles(d); err != nil {
		return nil, nil, err
	}
	if err := validate(d); err != nil {
		return nil, nil, err
	}

	g := &generator{}
	root := &DesignInstance{Template: d.Name}
	s := newSocket("")
	s.mount(g, d.Pins)
	g.flatten(d, s, root)

	canon, count := g.wr.compact()
	m := &Mesh{
		Nodes: make([]Node, count),
		Chips: g.chips,
		Root:  root,
		pins:  make(map[string]NodeID, len(g.pins)),
	}
	for i := range m.Nodes {
		m.Nodes[i] = Node{ID: NodeID(i), Driver: -1}
	}
	for _, p := range g.pins {
		n := canon[p.node]
		m.Nodes[n].Pins = append(m.Nodes[n].Pins, p.path)
		m.pins[p.path] = n
	}
	for _, c := range m.Chips {
		for i, n := range c.In {
			c.In[i] = canon[n]
		}
		for i, n := range c.Out {
			c.Out[i] = canon[n]
		}
		c.in, c.out = make([]bool, len(c.In)), make([]bool, len(c.Out))
	}
	for _, di := range g.ins {
		for i := range di.Pins {
			di.Pins[i].Node = canon[di.Pins[i].Node]
		}
		for i := range di.Connectors {
			di.Connectors[i].Node = canon[di.Connectors[i].Node]
		}
	}

	if err := checkDrivers(m); err != nil {
		return nil, nil, err
	}
	return m, root, nil
}

// flatten flattens design d. Nodes for the design's own pins must already be
// allocated in s.
//
func (g *generator) flatten(d *Design, s *socket, di *DesignInstance) {
	g.ins = append(g.ins, di)
	for _, p := range d.Pins {
		path := joinPath(s.path, p.Name)
		di.Pins = append(di.Pins, PinNode{path, NodeID(s.pin(p.Name))})
	}

	sockets := make(map[string]*socket, len(d.Chips))
	for _, c := range d.Chips {
		path := joinPath(di.Path, c.Name)
		cs := newSocket(path)
		cs.mount(g, c.Template.pins)
		sockets[c.Name] = cs

		t := c.Template
		if t.IsLeaf() {
			lc := &LeafChip{
				Path:     path,
				Template: t,
				In:       make([]NodeID, 0, t.nIn),
				Out:      make([]NodeID, 0, len(t.pins)-t.nIn),
			}
			for _, p := range t.pins {
				n := NodeID(cs.pin(p.Name))
				di.Pins = append(di.Pins, PinNode{joinPath(path, p.Name), n})
				if p.Dir == Input {
					lc.In = append(lc.In, n)
				} else {
					lc.Out = append(lc.Out, n)
				}
			}
			di.Chips = append(di.Chips, len(g.chips))
			g.chips = append(g.chips, lc)
			continue
		}

		child := &DesignInstance{Path: path, Template: t.name}
		di.Children = append(di.Children, child)
		g.flatten(t.design, cs, child)
	}

	for _, w := range d.Wires {
		a, b := g.resolve(s, sockets, w.A), g.resolve(s, sockets, w.B)
		g.wr.union(a, b)
		di.Connectors = append(di.Connectors, Connector{
			A:    joinPath(s.path, w.A.String()),
			B:    joinPath(s.path, w.B.String()),
			Node: NodeID(a),
		})
	}
}

func (g *generator) resolve(s *socket, sockets map[string]*socket, r PinRef) int {
	if r.Chip == "" {
		return s.pin(r.Pin)
	}
	return sockets[r.Chip].pin(r.Pin)
}

// checkCycles walks the template containment graph reachable from d and
// reports the first cycle found.
//
func checkCycles(d *Design) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*Template]int)
	var stack []*Template

	var visitDesign func(d *Design) error
	visit := func(t *Template) error {
		switch state[t] {
		case done:
			return nil
		case visiting:
			var chain []string
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == t {
					for _, s := range stack[i:] {
						chain = append(chain, s.name)
					}
					break
				}
			}
			return &StructuralError{Chain: append(chain, t.name)}
		}
		state[t] = visiting
		stack = append(stack, t)
		if err := visitDesign(t.design); err != nil {
			return err
		}
		stack = stack[:len(stack)-1]
		state[t] = done
		return nil
	}
	visitDesign = func(d *Design) error {
		for _, c := range d.Chips {
			if c.Template == nil || c.Template.IsLeaf() {
				continue
			}
			if err := visit(c.Template); err != nil {
				return err
			}
		}
		return nil
	}
	return visitDesign(d)
}

// validate checks chip names and wire endpoints of d and of the designs of all
// reachable composite templates. It must be called after checkCycles.
//
func validate(root *Design) error {
	seen := make(map[*Design]bool)
	var check func(d *Design) error
	check = func(d *Design) error {
		if seen[d] {
			return nil
		}
		seen[d] = true

		names := make(map[string]bool, len(d.Pins))
		for _, p := range d.Pins {
			if p.Name == "" || strings.ContainsRune(p.Name, '.') {
				return &ValidationError{Design: d.Name, Pin: p.Name, Reason: "invalid pin name"}
			}
			if names[p.Name] {
				return &ValidationError{Design: d.Name, Pin: p.Name, Reason: "duplicate pin name"}
			}
			names[p.Name] = true
		}
		names = make(map[string]bool, len(d.Chips))
		for _, c := range d.Chips {
			switch {
			case c.Name == "" || strings.ContainsRune(c.Name, '.'):
				return &ValidationError{Design: d.Name, Chip: c.Name, Reason: "invalid chip name"}
			case c.Template == nil:
				return &ValidationError{Design: d.Name, Chip: c.Name, Reason: "nil template"}
			case names[c.Name]:
				return &ValidationError{Design: d.Name, Chip: c.Name, Reason: "duplicate chip name"}
			}
			names[c.Name] = true
		}
		for _, w := range d.Wires {
			if err := d.checkRef(w.A); err != nil {
				return err
			}
			if err := d.checkRef(w.B); err != nil {
				return err
			}
		}
		for _, c := range d.Chips {
			if !c.Template.IsLeaf() {
				if err := check(c.Template.design); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return check(root)
}

// checkDrivers records the driver of every node of m and fails if a node has
// more than one. The first conflicting node, in node order, is reported.
//
func checkDrivers(m *Mesh) error {
	var drivers map[NodeID][]string
	for ci, c := range m.Chips {
		for i, n := range c.Out {
			pin := joinPath(c.Path, c.Template.Outputs()[i])
			node := &m.Nodes[n]
			if node.Free() {
				node.Driver, node.DriverPin = ci, pin
				continue
			}
			if drivers == nil {
				drivers = make(map[NodeID][]string)
			}
			if len(drivers[n]) == 0 {
				drivers[n] = append(drivers[n], node.DriverPin)
			}
			drivers[n] = append(drivers[n], pin)
		}
	}
	if drivers == nil {
		return nil
	}
	for i := range m.Nodes {
		if ds := drivers[NodeID(i)]; len(ds) > 0 {
			return &MultiDriverError{
				Node:    NodeID(i),
				Pins:    append([]string(nil), m.Nodes[i].Pins...),
				Drivers: ds,
			}
		}
	}
	return nil
}
