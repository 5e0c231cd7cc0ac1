// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	ms "github.com/db47h/meshsim"
)

// HalfAdder is a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
var HalfAdder = ms.MustChip("HalfAdder", gateIn, ms.Outputs{"s", "c"}, ms.Parts{
	Xor.Wire("a=a, b=b, out=s"),
	And.Wire("a=a, b=b, out=c"),
})

// FullAdder is a 3 bits adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
var FullAdder = ms.MustChip("FullAdder", ms.Inputs{pA, pB, "cin"}, ms.Outputs{"s", "cout"}, ms.Parts{
	HalfAdder.Wire("a=a, b=b, s=s0, c=c0"),
	HalfAdder.Wire("a=s0, b=cin, s=s, c=c1"),
	Or.Wire("a=c0, b=c1, out=cout"),
})

// AdderN returns a N-bits ripple carry adder.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = a + b; c = carry
//
func AdderN(bits int) (*ms.Template, error) {
	if err := checkBits("Adder", bits); err != nil {
		return nil, err
	}
	parts := ms.Parts{HalfAdder.Wire("a=a[0], b=b[0], s=out[0], c=c0")}
	for i := 1; i < bits; i++ {
		n := strconv.Itoa(i)
		cout := "c" + n
		if i == bits-1 {
			cout = "c"
		}
		parts = append(parts, FullAdder.Wire("a=a["+n+"], b=b["+n+"], cin=c"+strconv.Itoa(i-1)+", s=out["+n+"], cout="+cout))
	}
	if bits == 1 {
		parts[0] = HalfAdder.Wire("a=a[0], b=b[0], s=out[0], c=c")
	}
	return ms.Chip("Adder"+strconv.Itoa(bits), ms.In(bus(bits, pA, pB)), ms.Out(bus(bits, pOut)+", c"), parts)
}

// Adder16 is a 16 bits adder.
//
var Adder16 = must(AdderN(16))
