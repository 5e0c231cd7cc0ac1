// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

// A socket maps the pin names of a chip instance, or of a design's own pins,
// to provisional node numbers during flattening.
//
type socket struct {
	path string // path of the chip instance, "" for the root design
	m    map[string]int
}

func newSocket(path string) *socket {
	return &socket{path: path, m: make(map[string]int)}
}

// mount allocates a new node for every pin in pins and records the pin paths.
//
func (s *socket) mount(g *generator, pins []PinDecl) {
	for _, p := range pins {
		n := g.wr.alloc()
		s.m[p.Name] = n
		g.pins = append(g.pins, pinAlloc{joinPath(s.path, p.Name), n})
	}
}

// pin returns the node number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *socket) pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + joinPath(s.path, name) + " does not exist")
	}
	return n
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
