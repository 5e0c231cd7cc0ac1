// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

// A DesignInstance mirrors one level of the design hierarchy and records which
// mesh nodes and chips originated from it.
//
type DesignInstance struct {
	// Path is the dotted path of the composite chip instance, "" for the root
	// design.
	Path string
	// Template is the name of the composite template, or the design name for
	// the root design.
	Template string
	// Pins maps the design's own pins and the pins of its leaf chips to mesh
	// nodes. Pins of composite chips are recorded by their own instance.
	Pins []PinNode
	// Chips holds the indices in Mesh.Chips of the leaf chips placed in
	// this design.
	Chips []int
	// Connectors holds one entry per wire of the design.
	Connectors []Connector
	// Children holds the instances of composite chips, in design order.
	Children []*DesignInstance
}

// A PinNode binds a pin path to a node.
//
type PinNode struct {
	Path string
	Node NodeID
}

// A Connector records a wire of the original design and the node it was
// merged into.
//
type Connector struct {
	A, B string // pin paths
	Node NodeID
}

// Child returns the instance of the composite chip with the given name, nil
// if not found.
//
func (di *DesignInstance) Child(name string) *DesignInstance {
	p := joinPath(di.Path, name)
	for _, c := range di.Children {
		if c.Path == p {
			return c
		}
	}
	return nil
}

// Lookup returns the instance for a dotted path relative to di.
//
func (di *DesignInstance) Lookup(path string) *DesignInstance {
	cur := di
	for path != "" && cur != nil {
		r := ParsePinRef(path)
		if r.Chip == "" {
			return cur.Child(r.Pin)
		}
		cur, path = cur.Child(r.Chip), r.Pin
	}
	return cur
}

// Walk calls fn for di and all its descendants in pre-order. Walk stops
// descending into an instance if fn returns false.
//
func (di *DesignInstance) Walk(fn func(*DesignInstance) bool) {
	if !fn(di) {
		return
	}
	for _, c := range di.Children {
		c.Walk(fn)
	}
}

// Nodes returns the set of nodes referenced by the pins of di and all its
// descendants.
//
func (di *DesignInstance) Nodes() []NodeID {
	seen := make(map[NodeID]bool)
	var r []NodeID
	di.Walk(func(d *DesignInstance) bool {
		for _, p := range d.Pins {
			if !seen[p.Node] {
				seen[p.Node] = true
				r = append(r, p.Node)
			}
		}
		return true
	})
	return r
}
