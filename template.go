// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"strings"
)

// Direction is the direction of a pin.
//
type Direction uint8

// Pin directions.
//
const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "out"
	}
	return "in"
}

// A PinDecl declares a template or design pin.
//
type PinDecl struct {
	Name string
	Dir  Direction
}

func pinDecls(in Inputs, out Outputs) []PinDecl {
	pins := make([]PinDecl, 0, len(in)+len(out))
	for _, n := range in {
		pins = append(pins, PinDecl{n, Input})
	}
	for _, n := range out {
		pins = append(pins, PinDecl{n, Output})
	}
	return pins
}

// A Template is an immutable chip definition. Leaf templates evaluate a Logic
// function, composite templates wrap a Design.
//
type Template struct {
	name   string
	pins   []PinDecl
	index  map[string]int
	nIn    int
	logic  Logic
	design *Design
}

func newTemplate(name string, pins []PinDecl) (*Template, error) {
	if name == "" {
		return nil, &ValidationError{Reason: "empty template name"}
	}
	t := &Template{name: name, pins: pins, index: make(map[string]int, len(pins))}
	for i, p := range pins {
		if p.Name == "" || strings.ContainsRune(p.Name, '.') {
			return nil, &ValidationError{Design: name, Pin: p.Name, Reason: "invalid pin name"}
		}
		if _, dup := t.index[p.Name]; dup {
			return nil, &ValidationError{Design: name, Pin: p.Name, Reason: "duplicate pin name"}
		}
		t.index[p.Name] = i
		if p.Dir == Input {
			t.nIn++
		}
	}
	return t, nil
}

// Leaf returns a new leaf template evaluating l. Inputs are passed to l in the
// order they are declared. A ValidationError is returned if the pin counts do
// not match the arity of l.
//
func Leaf(name string, l Logic, in Inputs, out Outputs) (*Template, error) {
	t, err := newTemplate(name, pinDecls(in, out))
	if err != nil {
		return nil, err
	}
	if msg := l.checkArity(len(in), len(out)); msg != "" {
		return nil, &ValidationError{Design: name, Reason: msg}
	}
	t.logic = l
	return t, nil
}

// MustLeaf is like Leaf but panics on error.
//
func MustLeaf(name string, l Logic, in Inputs, out Outputs) *Template {
	t, err := Leaf(name, l, in, out)
	if err != nil {
		panic(err)
	}
	return t
}

// Composite returns a new template wrapping design d. The template's pins are
// the pins declared by d.
//
// Since d is not copied, it must not be modified once wrapped. Cyclic
// containment is only detected by Flatten.
//
func Composite(name string, d *Design) (*Template, error) {
	if d == nil {
		return nil, &ValidationError{Design: name, Reason: "nil design"}
	}
	t, err := newTemplate(name, d.Pins)
	if err != nil {
		return nil, err
	}
	t.design = d
	return t, nil
}

// Name returns the template name.
//
func (t *Template) Name() string { return t.name }

// Pins returns the pin declarations of t.
//
func (t *Template) Pins() []PinDecl {
	return append([]PinDecl(nil), t.pins...)
}

// Inputs returns the input pin names of t.
//
func (t *Template) Inputs() Inputs {
	var r Inputs
	for _, p := range t.pins {
		if p.Dir == Input {
			r = append(r, p.Name)
		}
	}
	return r
}

// Outputs returns the output pin names of t.
//
func (t *Template) Outputs() Outputs {
	var r Outputs
	for _, p := range t.pins {
		if p.Dir == Output {
			r = append(r, p.Name)
		}
	}
	return r
}

// IsLeaf returns true for leaf templates.
//
func (t *Template) IsLeaf() bool { return t.design == nil }

// Logic returns the logic function of a leaf template.
//
func (t *Template) Logic() Logic { return t.logic }

// Design returns the design wrapped by a composite template, nil for leaf
// templates.
//
func (t *Template) Design() *Design { return t.design }

func (t *Template) pin(name string) (PinDecl, bool) {
	i, ok := t.index[name]
	if !ok {
		return PinDecl{}, false
	}
	return t.pins[i], true
}

// Wire returns a Part for t with the given connections. It is meant to be
// used with Chip.
//
func (t *Template) Wire(conns string) Part {
	return Part{Template: t, Conns: conns}
}

// Named works like Wire but also sets the chip instance name.
//
func (t *Template) Named(name, conns string) Part {
	return Part{Name: name, Template: t, Conns: conns}
}
