// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	ms "github.com/db47h/meshsim"
)

// Mux is a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
var Mux = ms.MustChip("Mux", ms.Inputs{pA, pB, pSel}, gateOut, ms.Parts{
	Not.Wire("in=sel, out=nsel"),
	And.Wire("a=a, b=nsel, out=w0"),
	And.Wire("a=b, b=sel, out=w1"),
	Or.Wire("a=w0, b=w1, out=out"),
})

// DMux is a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
var DMux = ms.MustChip("DMux", ms.Inputs{pIn, pSel}, ms.Outputs{pA, pB}, ms.Parts{
	Not.Wire("in=sel, out=nsel"),
	And.Wire("a=in, b=nsel, out=a"),
	And.Wire("a=in, b=sel, out=b"),
})

// MuxN returns a N-bits Mux.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: for i := range out { if sel == 0 { out[i] = a[i] } else { out[i] = b[i] } }
//
func MuxN(bits int) (*ms.Template, error) {
	if err := checkBits("Mux", bits); err != nil {
		return nil, err
	}
	parts := make(ms.Parts, bits)
	for i := range parts {
		n := strconv.Itoa(i)
		parts[i] = Mux.Wire("a=a[" + n + "], b=b[" + n + "], sel=sel, out=out[" + n + "]")
	}
	return ms.Chip("Mux"+strconv.Itoa(bits), ms.In(bus(bits, pA, pB)+", "+pSel), ms.Out(bus(bits, pOut)), parts)
}

// Mux16 is a 16-bits Mux.
//
//	Inputs: a[16], b[16], sel
//	Outputs: out[16]
//	Function: for i := range out { if sel == 0 { out[i] = a[i] } else { out[i] = b[i] } }
//
var Mux16 = must(MuxN(16))
