// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist decodes YAML netlist documents into meshsim designs.
//
// A document declares composite chips, each built from builtin gates, hwlib
// templates or chips declared earlier in the same document, and a root
// design:
//
//	chips:
//	  - name: HA
//	    in: a, b
//	    out: s, c
//	    parts:
//	      - {template: XOR, conns: "a=a, b=b, out=s"}
//	      - {template: AND, conns: "a=a, b=b, out=c"}
//	design:
//	  name: top
//	  in: A, B
//	  out: S, C
//	  parts:
//	    - {template: HA, name: ha, conns: "a=A, b=B, s=S, c=C"}
//	inputs:
//	  A: true
//
// Template names are looked up in this order: chips of the document, builtin
// gates ("AND", "NOT", ...), hwlib templates ("Mux", "FullAdder", "Adder16",
// ...) and N-inputs builtin gates ("AND3", "XOR4", ...).
//
package netlist

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	ms "github.com/db47h/meshsim"
	"github.com/db47h/meshsim/hwlib"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Part is a template instance within a chip.
//
type Part struct {
	Template string `yaml:"template"`
	Name     string `yaml:"name,omitempty"`
	Conns    string `yaml:"conns"`
}

// Chip describes a composite chip or the root design.
//
type Chip struct {
	Name  string     `yaml:"name"`
	In    string     `yaml:"in,omitempty"`
	Out   string     `yaml:"out,omitempty"`
	Parts []Part     `yaml:"parts"`
	Wires [][]string `yaml:"wires,omitempty"` // pairs of "chip.pin" or "pin"
}

// Document is a decoded netlist.
//
type Document struct {
	Chips  []Chip          `yaml:"chips,omitempty"`
	Design Chip            `yaml:"design"`
	Inputs map[string]bool `yaml:"inputs,omitempty"`
}

// Decode reads a YAML document from r. Unknown fields are an error.
//
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode netlist")
	}
	return &doc, nil
}

// Load reads the YAML document at path.
//
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open netlist")
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return doc, nil
}

var library = map[string]*ms.Template{}

func init() {
	for _, t := range []*ms.Template{
		hwlib.Not, hwlib.And, hwlib.Or, hwlib.Nor, hwlib.Xor, hwlib.Xnor,
		hwlib.Not16, hwlib.And16, hwlib.Or16,
		hwlib.Mux, hwlib.DMux, hwlib.Mux16,
		hwlib.HalfAdder, hwlib.FullAdder, hwlib.Adder16,
		hwlib.SRLatch,
	} {
		library[t.Name()] = t
	}
}

type resolver struct {
	chips map[string]*ms.Template
}

func (r *resolver) lookup(name string) (*ms.Template, error) {
	if t, ok := r.chips[name]; ok {
		return t, nil
	}
	if t, ok := ms.Builtin(name); ok {
		return t, nil
	}
	if t, ok := library[name]; ok {
		return t, nil
	}
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i < len(name) {
		if b, ok := ms.Builtin(name[:i]); ok {
			if _, _, variadic := b.Logic().Arity(); variadic {
				n, _ := strconv.Atoi(name[i:])
				t, err := ms.GateN(b.Logic(), n)
				if err != nil {
					return nil, err
				}
				r.chips[name] = t
				return t, nil
			}
		}
	}
	return nil, errors.Errorf("unknown template %q", name)
}

func (r *resolver) design(c *Chip) (*ms.Design, error) {
	in, err := ms.ParseIO(c.In)
	if err != nil {
		return nil, errors.Wrap(err, c.Name+": inputs")
	}
	out, err := ms.ParseIO(c.Out)
	if err != nil {
		return nil, errors.Wrap(err, c.Name+": outputs")
	}
	d := ms.NewDesign(c.Name, in, out)
	for i, p := range c.Parts {
		t, err := r.lookup(p.Template)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: part %d", c.Name, i)
		}
		name := p.Name
		if name == "" {
			name = strings.ToLower(t.Name()) + strconv.Itoa(i)
		}
		if err = d.Place(name, t, p.Conns); err != nil {
			return nil, err
		}
	}
	for i, w := range c.Wires {
		if len(w) != 2 {
			return nil, errors.Errorf("%s: wire %d: expected 2 pins, got %d", c.Name, i, len(w))
		}
		if err = d.Connect(w[0], w[1]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Build creates the root design of doc and the templates it depends on.
//
func (doc *Document) Build() (*ms.Design, error) {
	r := &resolver{chips: make(map[string]*ms.Template)}
	for i := range doc.Chips {
		c := &doc.Chips[i]
		if _, dup := r.chips[c.Name]; dup {
			return nil, errors.Errorf("duplicate chip %q", c.Name)
		}
		d, err := r.design(c)
		if err != nil {
			return nil, err
		}
		t, err := ms.Composite(c.Name, d)
		if err != nil {
			return nil, err
		}
		r.chips[c.Name] = t
	}
	if doc.Design.Name == "" {
		doc.Design.Name = "main"
	}
	return r.design(&doc.Design)
}

// Apply sets the initial input values of doc in s, in pin path order.
//
func (doc *Document) Apply(s *ms.Simulation) error {
	paths := make([]string, 0, len(doc.Inputs))
	for p := range doc.Inputs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := s.SetInput(p, doc.Inputs[p]); err != nil {
			return err
		}
	}
	return nil
}
