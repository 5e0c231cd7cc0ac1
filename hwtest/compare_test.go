package hwtest_test

import (
	"testing"

	ms "github.com/db47h/meshsim"
	"github.com/db47h/meshsim/hwtest"
	"github.com/stretchr/testify/assert"
)

func TestCompareTemplate(t *testing.T) {
	or := ms.MustChip("custom_or", ms.In("a, b"), ms.Out("out"), ms.Parts{
		ms.NandGate.Wire("a=a, b=a, out=notA"),
		ms.NandGate.Wire("a=b, b=b, out=notB"),
		ms.NandGate.Wire("a=notA, b=notB, out=out"),
	})
	hwtest.CompareTemplate(t, ms.OrGate, or)
}

func TestCheckTruthTable(t *testing.T) {
	and3, err := ms.GateN(ms.And, 3)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.CheckTruthTable(t, and3, func(in []bool) []bool {
		return []bool{in[0] && in[1] && in[2]}
	})
}

func TestHarness(t *testing.T) {
	s := hwtest.Harness(t, ms.XorGate)
	assert.Equal(t, []bool{true}, hwtest.Eval(t, s, ms.XorGate, []bool{true, false}))
	assert.Equal(t, []bool{false}, hwtest.Eval(t, s, ms.XorGate, []bool{true, true}))
	v, ok := s.Snapshot().Get("dut.out")
	assert.True(t, ok)
	assert.False(t, v)
}
