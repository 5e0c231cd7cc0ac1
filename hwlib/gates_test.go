package hwlib_test

import (
	"testing"

	ms "github.com/db47h/meshsim"
	hl "github.com/db47h/meshsim/hwlib"
	"github.com/db47h/meshsim/hwtest"
)

// toInt converts n bits of in starting at off to an integer.
func toInt(in []bool, off, n int) int64 {
	var r int64
	for i := n - 1; i >= 0; i-- {
		r <<= 1
		if in[off+i] {
			r |= 1
		}
	}
	return r
}

// toBits converts the n low bits of v to a slice.
func toBits(v int64, n int) []bool {
	r := make([]bool, n)
	for i := range r {
		r[i] = v&(1<<uint(i)) != 0
	}
	return r
}

func Test_gates(t *testing.T) {
	td := []struct {
		gate *ms.Template
		ref  *ms.Template
	}{
		{hl.Not, ms.NotGate},
		{hl.And, ms.AndGate},
		{hl.Or, ms.OrGate},
		{hl.Nor, ms.NorGate},
		{hl.Xor, ms.XorGate},
		{hl.Xnor, ms.XnorGate},
	}
	for _, d := range td {
		t.Run(d.gate.Name(), func(t *testing.T) {
			hwtest.CompareTemplate(t, d.gate, d.ref)
		})
	}
}

func Test_gateN(t *testing.T) {
	td := []struct {
		gate *ms.Template
		ctrl func(a, b int64) int64
	}{
		{hl.And16, func(a, b int64) int64 { return a & b }},
		{hl.Or16, func(a, b int64) int64 { return a | b }},
		{hl.Not16, func(a, b int64) int64 { return ^a }},
	}
	for _, d := range td {
		t.Run(d.gate.Name(), func(t *testing.T) {
			hwtest.CheckTruthTable(t, d.gate, func(in []bool) []bool {
				var b int64
				if len(in) > 16 {
					b = toInt(in, 16, 16)
				}
				return toBits(d.ctrl(toInt(in, 0, 16), b), 16)
			})
		})
	}
}

func Test_nWay(t *testing.T) {
	and3, err := hl.AndNWay(3)
	if err != nil {
		t.Fatal(err)
	}
	or4, err := hl.OrNWay(4)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.CheckTruthTable(t, and3, func(in []bool) []bool {
		return []bool{in[0] && in[1] && in[2]}
	})
	hwtest.CheckTruthTable(t, or4, func(in []bool) []bool {
		return []bool{in[0] || in[1] || in[2] || in[3]}
	})
	ref, err := ms.GateN(ms.Or, 4)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.CompareTemplate(t, or4, ref)

	if _, err = hl.OrNWay(1); err == nil {
		t.Fatal("expected error for 1-way gate")
	}
}

func Test_busWidth(t *testing.T) {
	td := []struct {
		name string
		fn   func(bits int) (*ms.Template, error)
	}{
		{"NotN", hl.NotN},
		{"GateN", func(bits int) (*ms.Template, error) { return hl.GateN(hl.And, bits) }},
		{"MuxN", hl.MuxN},
		{"AdderN", hl.AdderN},
	}
	for _, d := range td {
		for _, bits := range []int{0, -1} {
			tp, err := d.fn(bits)
			if _, ok := err.(*ms.ValidationError); !ok || tp != nil {
				t.Errorf("%s(%d): expected a validation error, got %v, %v", d.name, bits, tp, err)
			}
		}
		if _, err := d.fn(1); err != nil {
			t.Errorf("%s(1): %v", d.name, err)
		}
	}
}
