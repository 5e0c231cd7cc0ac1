package netlist_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ms "github.com/db47h/meshsim"
	"github.com/db47h/meshsim/internal/netlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const halfAdder = `
chips:
  - name: HA
    in: a, b
    out: s, c
    parts:
      - {template: XOR, conns: "a=a, b=b, out=s"}
      - {template: AND, conns: "a=a, b=b, out=c"}
design:
  name: top
  in: A, B, C
  out: S, K, M
  parts:
    - {template: HA, name: ha, conns: "a=A, b=B, s=S, c=K"}
    - {template: AND3, name: all, conns: "in[0]=A, in[1]=B, in[2]=C"}
    - {template: Mux, name: mux, conns: "a=A, b=B, sel=C"}
  wires:
    - [all.out, M]
inputs:
  A: true
  B: true
`

func TestBuild(t *testing.T) {
	doc, err := netlist.Decode(strings.NewReader(halfAdder))
	require.NoError(t, err)
	require.Len(t, doc.Chips, 1)
	assert.Equal(t, map[string]bool{"A": true, "B": true}, doc.Inputs)

	d, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, "top", d.Name)
	require.Len(t, d.Chips, 3)
	assert.Equal(t, "HA", d.Chips[0].Template.Name())
	assert.Equal(t, "AND3", d.Chips[1].Template.Name())

	s, err := ms.New()
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Reset(d))
	require.NoError(t, doc.Apply(s))
	_, err = s.Step(1)
	require.NoError(t, err)
	snap := s.Snapshot()
	for p, want := range map[string]bool{"S": false, "K": true, "M": false, "mux.out": true, "ha.c": true} {
		v, ok := snap.Get(p)
		require.True(t, ok, p)
		assert.Equal(t, want, v, p)
	}
}

func TestBuild_errors(t *testing.T) {
	data := []struct {
		name string
		doc  string
		err  string
	}{
		{"unknown_template", "design: {parts: [{template: FOO, conns: 'a=b'}]}", `main: part 0: unknown template "FOO"`},
		{"bad_gate", "design: {parts: [{template: NOT3, conns: 'a=b'}]}", `main: part 0: unknown template "NOT3"`},
		{"dup", "chips: [{name: X}, {name: X}]\ndesign: {}", `duplicate chip "X"`},
		{"wire", "design: {in: a, wires: [[a]]}", "main: wire 0: expected 2 pins, got 1"},
		{"dangling", "design: {in: a, wires: [[a, b]]}", "main: b: dangling pin reference"},
		{"io", "design: {in: 'a[0..1]'}", `main: inputs: in "a[0..1]" at pos 1: unexpected range in pin declaration`},
		{"pin", "design: {parts: [{template: AND, conns: 'x=y'}]}", "main: and0.x: invalid pin name for AND"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			doc, err := netlist.Decode(strings.NewReader(d.doc))
			require.NoError(t, err)
			_, err = doc.Build()
			assert.EqualError(t, err, d.err)
		})
	}
}

func TestDecode_unknownField(t *testing.T) {
	_, err := netlist.Decode(strings.NewReader("design: {nme: x}"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "top.yaml")
	require.NoError(t, os.WriteFile(p, []byte(halfAdder), 0o644))
	doc, err := netlist.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "top", doc.Design.Name)

	_, err = netlist.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply_error(t *testing.T) {
	doc, err := netlist.Decode(strings.NewReader("design: {in: A, out: B, parts: [{template: NOT, conns: 'in=A, out=B'}]}\ninputs: {B: true}"))
	require.NoError(t, err)
	d, err := doc.Build()
	require.NoError(t, err)
	s, err := ms.New()
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Reset(d))
	assert.ErrorIs(t, doc.Apply(s), ms.ErrNotFreeNode)
}
