// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"strconv"
)

// Logic is the evaluation function of a leaf template. The set of functions
// is closed: new gate kinds are added as new Logic values.
//
type Logic uint8

// Supported logic functions.
//
const (
	Buf  Logic = iota // out = in
	Not               // out = !in
	And               // out = in[0] && in[1] && ...
	Or                // out = in[0] || in[1] || ...
	Nand              // out = !(in[0] && in[1] && ...)
	Nor               // out = !(in[0] || in[1] || ...)
	Xor               // out = odd number of inputs set
	Xnor              // out = even number of inputs set
	High              // out = true
	Low               // out = false
	logicCount
)

var logicNames = [...]string{
	Buf:  "BUF",
	Not:  "NOT",
	And:  "AND",
	Or:   "OR",
	Nand: "NAND",
	Nor:  "NOR",
	Xor:  "XOR",
	Xnor: "XNOR",
	High: "HIGH",
	Low:  "LOW",
}

func (l Logic) String() string {
	if l < logicCount {
		return logicNames[l]
	}
	return "Logic(" + strconv.Itoa(int(l)) + ")"
}

// Arity returns the number of inputs and outputs expected by l. If variadic
// is true, in is the minimum number of inputs.
//
func (l Logic) Arity() (in, out int, variadic bool) {
	switch l {
	case Buf, Not:
		return 1, 1, false
	case And, Or, Nand, Nor, Xor, Xnor:
		return 2, 1, true
	case High, Low:
		return 0, 1, false
	}
	return 0, 0, false
}

// checkArity reports whether l can be evaluated with the given pin counts.
//
func (l Logic) checkArity(in, out int) string {
	if l >= logicCount {
		return "unknown logic " + l.String()
	}
	ein, eout, variadic := l.Arity()
	switch {
	case out != eout:
		return "logic " + l.String() + " expects " + strconv.Itoa(eout) + " output(s), got " + strconv.Itoa(out)
	case variadic && in < ein:
		return "logic " + l.String() + " expects at least " + strconv.Itoa(ein) + " inputs, got " + strconv.Itoa(in)
	case !variadic && in != ein:
		return "logic " + l.String() + " expects " + strconv.Itoa(ein) + " input(s), got " + strconv.Itoa(in)
	}
	return ""
}

// Eval computes the outputs of l from the given inputs. It only reads in and
// only writes out. The length of both slices must match the arity of l, which
// is checked when a leaf template is created, not here.
//
func (l Logic) Eval(in, out []bool) {
	switch l {
	case Buf:
		out[0] = in[0]
	case Not:
		out[0] = !in[0]
	case And, Nand:
		v := true
		for _, b := range in {
			v = v && b
		}
		out[0] = v != (l == Nand)
	case Or, Nor:
		v := false
		for _, b := range in {
			v = v || b
		}
		out[0] = v != (l == Nor)
	case Xor, Xnor:
		v := false
		for _, b := range in {
			v = v != b
		}
		out[0] = v != (l == Xnor)
	case High:
		out[0] = true
	case Low:
		out[0] = false
	}
}
