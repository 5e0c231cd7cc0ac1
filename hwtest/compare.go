// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing templates.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/db47h/meshsim"
)

// MaxExhaustive is the maximum number of inputs for which CheckTruthTable and
// CompareTemplate try every input combination. Above that, they try all 0,
// all 1 and 1<<MaxExhaustive random combinations.
//
const MaxExhaustive = 12

// HarnessSettleIterations is the default settle limit of harness simulations.
//
const HarnessSettleIterations = 1024

// DUT is the instance name of the template under test in harness designs.
//
const DUT = "dut"

func connString(pins []meshsim.PinDecl) string {
	var b strings.Builder
	for _, p := range pins {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(p.Name)
	}
	return b.String()
}

// Harness returns a stopped simulation of a design holding a single instance
// of tmpl named DUT. Each pin of the instance is wired to a design pin of the
// same name, so that inputs can be set and outputs read by pin name.
//
// The simulation allows up to HarnessSettleIterations evaluation rounds per
// tick unless overridden by opts. It is closed when the test ends.
//
func Harness(t testing.TB, tmpl *meshsim.Template, opts ...meshsim.Option) *meshsim.Simulation {
	t.Helper()
	d := meshsim.NewDesign("harness", tmpl.Inputs(), tmpl.Outputs())
	if err := d.Place(DUT, tmpl, connString(tmpl.Pins())); err != nil {
		t.Fatal(err)
	}
	s, err := meshsim.New(append([]meshsim.Option{meshsim.WithMaxSettleIterations(HarnessSettleIterations)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	if err = s.Reset(d); err != nil {
		t.Fatal(err)
	}
	return s
}

// Eval sets the inputs of a harness simulation, runs a single tick and returns
// the outputs. Values in in and in the result are in template declaration
// order. Eval fails the test if the tick does not settle.
//
func Eval(t testing.TB, s *meshsim.Simulation, tmpl *meshsim.Template, in []bool) []bool {
	t.Helper()
	for i, n := range tmpl.Inputs() {
		if err := s.SetInput(n, in[i]); err != nil {
			t.Fatal(err)
		}
	}
	r, err := s.Step(1)
	if err != nil {
		t.Fatal(err)
	}
	if r.Oscillation {
		t.Fatalf("%s: %s did not settle after %d iterations", tmpl.Name(), inputString(tmpl.Inputs(), in), r.Iterations)
	}
	snap := s.Snapshot()
	outs := tmpl.Outputs()
	r0 := make([]bool, len(outs))
	for i, n := range outs {
		v, ok := snap.Get(n)
		if !ok {
			t.Fatalf("output %s not found", n)
		}
		r0[i] = v
	}
	return r0
}

func inputString(names []string, in []bool) string {
	var b strings.Builder
	for i, n := range names {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", n, in[i])
	}
	return b.String()
}

// vectors calls fn with input combinations for n inputs: all of them if
// n <= MaxExhaustive, otherwise all 0, all 1 and random ones.
//
func vectors(n int, fn func(in []bool) bool) {
	in := make([]bool, n)
	if n <= MaxExhaustive {
		for i := 0; i < 1<<uint(n); i++ {
			for bit := range in {
				in[bit] = i&(1<<uint(bit)) != 0
			}
			if !fn(in) {
				return
			}
		}
		return
	}
	if !fn(in) {
		return
	}
	for i := range in {
		in[i] = true
	}
	if !fn(in) {
		return
	}
	rng := rand.New(rand.NewSource(int64(n)))
	for i := 0; i < 1<<MaxExhaustive; i++ {
		for bit := range in {
			in[bit] = rng.Int63()&1 != 0
		}
		if !fn(in) {
			return
		}
	}
}

// CheckTruthTable checks the outputs of tmpl against the reference function
// fn. fn receives the inputs in declaration order and must return the
// expected outputs in declaration order.
//
func CheckTruthTable(t *testing.T, tmpl *meshsim.Template, fn func(in []bool) []bool) {
	t.Helper()
	s := Harness(t, tmpl)
	outs := tmpl.Outputs()
	vectors(len(tmpl.Inputs()), func(in []bool) bool {
		got := Eval(t, s, tmpl, in)
		want := fn(in)
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("%s: %s: expected %s=%v, got %v", tmpl.Name(), inputString(tmpl.Inputs(), in), outs[i], want[i], got[i])
				return false
			}
		}
		return true
	})
}

// CompareTemplate takes two templates and compares their outputs given the
// same inputs. Both templates must have the same pins.
//
func CompareTemplate(t *testing.T, t1, t2 *meshsim.Template) {
	t.Helper()
	p1, p2 := t1.Pins(), t2.Pins()
	if len(p1) != len(p2) {
		t.Fatalf("%s and %s have a different number of pins", t1.Name(), t2.Name())
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("%s.%s (%v) != %s.%s (%v)", t1.Name(), p1[i].Name, p1[i].Dir, t2.Name(), p2[i].Name, p2[i].Dir)
		}
	}

	s2 := Harness(t, t2)
	CheckTruthTable(t, t1, func(in []bool) []bool {
		return Eval(t, s2, t2, in)
	})
}
