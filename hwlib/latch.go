// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	ms "github.com/db47h/meshsim"
)

// SRLatch is a set/reset latch made of two cross-coupled NOR gates.
//
//	Inputs: s, r
//	Outputs: q, nq
//	Function: s=1 sets q, r=1 resets q, q holds its value otherwise.
//	          s=1, r=1 is invalid.
//
// Starting from all nodes at 0, the latch oscillates until it is first set
// or reset.
//
var SRLatch = ms.MustChip("SRLatch", ms.Inputs{"s", "r"}, ms.Outputs{"q", "nq"}, ms.Parts{
	ms.NorGate.Named("n0", "a=r, b=nq, out=q"),
	ms.NorGate.Named("n1", "a=s, b=q, out=nq"),
})
