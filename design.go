// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"strconv"
	"strings"

	"github.com/db47h/meshsim/internal/hdl"
	"github.com/pkg/errors"
)

// A ChipInstance is a named instance of a template within a design.
//
type ChipInstance struct {
	Name     string
	Template *Template
}

// A PinRef references a pin in a design. If Chip is empty, it references one
// of the design's own pins.
//
type PinRef struct {
	Chip string
	Pin  string
}

func (r PinRef) String() string {
	if r.Chip == "" {
		return r.Pin
	}
	return r.Chip + "." + r.Pin
}

// ParsePinRef parses a "chip.pin" reference. A reference without a dot
// references a design pin.
//
func ParsePinRef(s string) PinRef {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return PinRef{Chip: s[:i], Pin: s[i+1:]}
	}
	return PinRef{Pin: s}
}

// A Wire connects two pins.
//
type Wire struct {
	A, B PinRef
}

// A Design is a set of chip instances and the wires between their pins.
// Chips and Wires are kept in insertion order, which determines the node
// numbering of the flattened mesh.
//
// A design may be built directly or with Add, Place and Connect, which also
// validate pin references.
//
type Design struct {
	Name  string
	Pins  []PinDecl
	Chips []*ChipInstance
	Wires []Wire

	nets map[string]PinRef // first pin connected to a net by Place
}

// NewDesign returns a new, empty design with the given pins.
//
func NewDesign(name string, in Inputs, out Outputs) *Design {
	return &Design{Name: name, Pins: pinDecls(in, out)}
}

// Chip returns the chip instance with the given name or nil.
//
func (d *Design) Chip(name string) *ChipInstance {
	for _, c := range d.Chips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (d *Design) pin(name string) (PinDecl, bool) {
	for _, p := range d.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return PinDecl{}, false
}

func (d *Design) checkChipName(name string, t *Template) error {
	switch {
	case name == "" || strings.ContainsRune(name, '.'):
		return &ValidationError{Design: d.Name, Chip: name, Reason: "invalid chip name"}
	case t == nil:
		return &ValidationError{Design: d.Name, Chip: name, Reason: "nil template"}
	case d.Chip(name) != nil:
		return &ValidationError{Design: d.Name, Chip: name, Reason: "duplicate chip name"}
	}
	return nil
}

// Add adds a new instance of t named name to the design.
//
func (d *Design) Add(name string, t *Template) (*ChipInstance, error) {
	if err := d.checkChipName(name, t); err != nil {
		return nil, err
	}
	c := &ChipInstance{Name: name, Template: t}
	d.Chips = append(d.Chips, c)
	return c, nil
}

// AddWire adds a wire between a and b. Pin references are checked by Flatten.
//
func (d *Design) AddWire(a, b PinRef) {
	d.Wires = append(d.Wires, Wire{a, b})
}

func (d *Design) checkRef(r PinRef) error {
	if r.Chip == "" {
		if _, ok := d.pin(r.Pin); !ok {
			return &ValidationError{Design: d.Name, Pin: r.Pin, Reason: "dangling pin reference"}
		}
		return nil
	}
	c := d.Chip(r.Chip)
	if c == nil {
		return &ValidationError{Design: d.Name, Chip: r.Chip, Pin: r.Pin, Reason: "dangling chip reference"}
	}
	if c.Template == nil {
		return &ValidationError{Design: d.Name, Chip: r.Chip, Reason: "nil template"}
	}
	if _, ok := c.Template.pin(r.Pin); !ok {
		return &ValidationError{Design: d.Name, Chip: r.Chip, Pin: r.Pin, Reason: "dangling pin reference"}
	}
	return nil
}

// Connect wires two pins given as "chip.pin" or "pin" for design pins.
//
//	d.Connect("and0.out", "not0.in")
//	d.Connect("a", "and0.a")
//
func (d *Design) Connect(a, b string) error {
	ra, rb := ParsePinRef(a), ParsePinRef(b)
	if err := d.checkRef(ra); err != nil {
		return err
	}
	if err := d.checkRef(rb); err != nil {
		return err
	}
	d.AddWire(ra, rb)
	return nil
}

// Place adds a new instance of t named name to the design and connects its
// pins as described by conns.
//
// The connection string is a comma separated list of pin=net assignments,
// where pin is a pin of t and net is either a design pin or an arbitrary net
// name. All chip pins connected to the same net are wired together:
//
//	d.Place("n0", NandGate, "a=a, b=b, out=nab")
//	d.Place("n1", NandGate, "a=a, b=nab, out=w0")
//
// Buses and ranges are supported on both sides: "a[0..3]=x[4..7]".
//
func (d *Design) Place(name string, t *Template, conns string) error {
	if err := d.checkChipName(name, t); err != nil {
		return err
	}
	cs, err := hdl.ParseConnections(conns)
	if err != nil {
		return errors.Wrap(err, d.Name+": "+name)
	}
	for _, c := range cs {
		if _, ok := t.pin(c.PP); !ok {
			return &ValidationError{Design: d.Name, Chip: name, Pin: c.PP, Reason: "invalid pin name for " + t.Name()}
		}
	}
	d.Chips = append(d.Chips, &ChipInstance{Name: name, Template: t})
	if d.nets == nil {
		d.nets = make(map[string]PinRef)
	}
	for _, c := range cs {
		ref := PinRef{Chip: name, Pin: c.PP}
		if _, ok := d.pin(c.CP); ok {
			d.AddWire(PinRef{Pin: c.CP}, ref)
			continue
		}
		if first, ok := d.nets[c.CP]; ok {
			d.AddWire(first, ref)
		} else {
			d.nets[c.CP] = ref
		}
	}
	return nil
}

// A Part is a template together with its connections within a chip. See Chip.
//
type Part struct {
	Name     string // optional instance name
	Template *Template
	Conns    string
}

// Parts is a list of parts.
//
type Parts []Part

// Chip composes parts into a new composite template. The pin names specified
// as inputs and outputs are the pins of the new template.
//
// A XOR gate can be created like this:
//
//	xor, err := Chip("XOR", In("a, b"), Out("out"), Parts{
//		NandGate.Wire("a=a, b=b, out=nandAB"),
//		NandGate.Wire("a=a, b=nandAB, out=w0"),
//		NandGate.Wire("a=b, b=nandAB, out=w1"),
//		NandGate.Wire("a=w0, b=w1, out=out"),
//	})
//
// Unnamed parts are named after their template, in lower case, followed by
// their index in parts: "nand0", "nand1", etc.
//
func Chip(name string, in Inputs, out Outputs, parts Parts) (*Template, error) {
	d := NewDesign(name, in, out)
	for i, p := range parts {
		n := p.Name
		if n == "" {
			if p.Template == nil {
				return nil, &ValidationError{Design: name, Chip: "#" + strconv.Itoa(i), Reason: "nil template"}
			}
			n = strings.ToLower(p.Template.Name()) + strconv.Itoa(i)
		}
		if err := d.Place(n, p.Template, p.Conns); err != nil {
			return nil, err
		}
	}
	return Composite(name, d)
}

// MustChip is like Chip but panics on error.
//
func MustChip(name string, in Inputs, out Outputs, parts Parts) *Template {
	t, err := Chip(name, in, out, parts)
	if err != nil {
		panic(err)
	}
	return t
}
