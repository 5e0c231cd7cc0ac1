// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"strconv"
)

// common pin names
//
const (
	pinA   = "a"
	pinB   = "b"
	pinIn  = "in"
	pinOut = "out"
)

var (
	gateIn  = Inputs{pinA, pinB}
	gateOut = Outputs{pinOut}
)

// Builtin leaf templates.
//
//	NOT, BUF:  Inputs: in      Outputs: out
//	HIGH, LOW: Inputs: none    Outputs: out
//	others:    Inputs: a, b    Outputs: out
//
var (
	NotGate    = MustLeaf("NOT", Not, Inputs{pinIn}, gateOut)
	BufGate    = MustLeaf("BUF", Buf, Inputs{pinIn}, gateOut)
	AndGate    = MustLeaf("AND", And, gateIn, gateOut)
	NandGate   = MustLeaf("NAND", Nand, gateIn, gateOut)
	OrGate     = MustLeaf("OR", Or, gateIn, gateOut)
	NorGate    = MustLeaf("NOR", Nor, gateIn, gateOut)
	XorGate    = MustLeaf("XOR", Xor, gateIn, gateOut)
	XnorGate   = MustLeaf("XNOR", Xnor, gateIn, gateOut)
	HighSource = MustLeaf("HIGH", High, nil, gateOut)
	LowSource  = MustLeaf("LOW", Low, nil, gateOut)
)

var builtins = map[string]*Template{}

func init() {
	for _, t := range []*Template{NotGate, BufGate, AndGate, NandGate, OrGate, NorGate, XorGate, XnorGate, HighSource, LowSource} {
		builtins[t.Name()] = t
	}
}

// Builtin returns the builtin template with the given name ("AND", "NOT",
// etc.).
//
func Builtin(name string) (*Template, bool) {
	t, ok := builtins[name]
	return t, ok
}

// GateN returns a leaf template for an n-inputs gate.
//
//	Inputs: in[n]
//	Outputs: out
//
// The template is named after l followed by n, e.g. "AND3". n must be at
// least 2.
//
func GateN(l Logic, n int) (*Template, error) {
	name := l.String() + strconv.Itoa(n)
	if n < 2 {
		return nil, &ValidationError{Design: name, Reason: "logic " + l.String() + " expects at least 2 inputs, got " + strconv.Itoa(n)}
	}
	in := make(Inputs, n)
	for i := range in {
		in[i] = BusPinName(pinIn, i)
	}
	return Leaf(name, l, in, gateOut)
}
