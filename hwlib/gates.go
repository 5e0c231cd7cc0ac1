// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of composite templates for meshsim, all
// built from NAND gates or from other templates of this package.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package hwlib

import (
	"strconv"
	"strings"

	ms "github.com/db47h/meshsim"
)

// common pin names
//
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

var (
	gateIn  = ms.Inputs{pA, pB}
	gateOut = ms.Outputs{pOut}
)

// make a bus declaration
//
func bus(bits int, names ...string) string {
	b := make([]string, len(names))
	for i, n := range names {
		b[i] = n + "[" + strconv.Itoa(bits) + "]"
	}
	return strings.Join(b, ", ")
}

// Not is a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
var Not = ms.MustChip("Not", ms.Inputs{pIn}, gateOut, ms.Parts{
	ms.NandGate.Wire("a=in, b=in, out=out"),
})

// And is a AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
var And = ms.MustChip("And", gateIn, gateOut, ms.Parts{
	ms.NandGate.Wire("a=a, b=b, out=nand"),
	Not.Wire("in=nand, out=out"),
})

// Or is a OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
var Or = ms.MustChip("Or", gateIn, gateOut, ms.Parts{
	Not.Wire("in=a, out=notA"),
	Not.Wire("in=b, out=notB"),
	ms.NandGate.Wire("a=notA, b=notB, out=out"),
})

// Nor is a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
var Nor = ms.MustChip("Nor", gateIn, gateOut, ms.Parts{
	Or.Wire("a=a, b=b, out=or"),
	Not.Wire("in=or, out=out"),
})

// Xor is a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = (a && !b) || (!a && b)
//
var Xor = ms.MustChip("Xor", gateIn, gateOut, ms.Parts{
	ms.NandGate.Wire("a=a, b=b, out=nandAB"),
	ms.NandGate.Wire("a=a, b=nandAB, out=w0"),
	ms.NandGate.Wire("a=b, b=nandAB, out=w1"),
	ms.NandGate.Wire("a=w0, b=w1, out=out"),
})

// Xnor is a XNOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b || !a && !b
//
var Xnor = ms.MustChip("Xnor", gateIn, gateOut, ms.Parts{
	Xor.Wire("a=a, b=b, out=xor"),
	Not.Wire("in=xor, out=out"),
})

// NotN returns a N-bits NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = !in[i] }
//
func NotN(bits int) (*ms.Template, error) {
	if err := checkBits("Not", bits); err != nil {
		return nil, err
	}
	parts := make(ms.Parts, bits)
	for i := range parts {
		n := strconv.Itoa(i)
		parts[i] = Not.Wire("in=in[" + n + "], out=out[" + n + "]")
	}
	return ms.Chip("Not"+strconv.Itoa(bits), ms.In(bus(bits, pIn)), ms.Out(bus(bits, pOut)), parts)
}

// GateN returns a N-bits version of a 2 inputs gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = gate(a[i], b[i]) }
//
// gate must have inputs a, b and output out.
//
func GateN(gate *ms.Template, bits int) (*ms.Template, error) {
	if err := checkBits(gate.Name(), bits); err != nil {
		return nil, err
	}
	parts := make(ms.Parts, bits)
	for i := range parts {
		n := strconv.Itoa(i)
		parts[i] = gate.Wire("a=a[" + n + "], b=b[" + n + "], out=out[" + n + "]")
	}
	return ms.Chip(gate.Name()+strconv.Itoa(bits), ms.In(bus(bits, pA, pB)), ms.Out(bus(bits, pOut)), parts)
}

// 16 bits gates.
//
var (
	Not16 = must(NotN(16))
	And16 = must(GateN(And, 16))
	Or16  = must(GateN(Or, 16))
)

// OrNWay returns a N-Way OR gate built as a chain of Or gates.
//
//	Inputs: in[ways]
//	Outputs: out
//	Function: out = in[0] || in[1] || in[2] || ... || in[ways-1]
//
func OrNWay(ways int) (*ms.Template, error) {
	return nWay(Or, ways)
}

// AndNWay returns a N-Way AND gate built as a chain of And gates.
//
//	Inputs: in[ways]
//	Outputs: out
//	Function: out = in[0] && in[1] && in[2] && ... && in[ways-1]
//
func AndNWay(ways int) (*ms.Template, error) {
	return nWay(And, ways)
}

func nWay(gate *ms.Template, ways int) (*ms.Template, error) {
	name := gate.Name() + strconv.Itoa(ways) + "Way"
	if ways < 2 {
		return nil, &ms.ValidationError{Design: name, Reason: "at least 2 ways required"}
	}
	parts := make(ms.Parts, 0, ways-1)
	prev := "in[0]"
	for i := 1; i < ways; i++ {
		next := "w" + strconv.Itoa(i)
		if i == ways-1 {
			next = pOut
		}
		parts = append(parts, gate.Wire("a="+prev+", b=in["+strconv.Itoa(i)+"], out="+next))
		prev = next
	}
	return ms.Chip(name, ms.In(bus(ways, pIn)), gateOut, parts)
}

// checkBits returns a validation error for the template name if bits < 1.
//
func checkBits(name string, bits int) error {
	if bits < 1 {
		return &ms.ValidationError{Design: name + strconv.Itoa(bits), Reason: "bus width must be at least 1"}
	}
	return nil
}

func must(t *ms.Template, err error) *ms.Template {
	if err != nil {
		panic(err)
	}
	return t
}
