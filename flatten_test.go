package meshsim_test

import (
	"testing"

	ms "github.com/db47h/meshsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// andNot returns a design computing C = A && B, D = !C.
func andNot(t *testing.T) *ms.Design {
	t.Helper()
	d := ms.NewDesign("top", ms.In("A, B"), ms.Out("C, D"))
	require.NoError(t, d.Place("and0", ms.AndGate, "a=A, b=B, out=C"))
	require.NoError(t, d.Place("not0", ms.NotGate, "in=C, out=D"))
	return d
}

var xorChip = ms.MustChip("XOR", ms.In("a, b"), ms.Out("out"), ms.Parts{
	ms.NandGate.Wire("a=a, b=b, out=nandAB"),
	ms.NandGate.Wire("a=a, b=nandAB, out=w0"),
	ms.NandGate.Wire("a=b, b=nandAB, out=w1"),
	ms.NandGate.Wire("a=w0, b=w1, out=out"),
})

func TestFlatten(t *testing.T) {
	m, root, err := ms.Flatten(andNot(t))
	require.NoError(t, err)

	require.Equal(t, 4, m.Len())
	require.Len(t, m.Chips, 2)
	assert.Equal(t, []string{"A", "and0.a"}, m.Nodes[0].Pins)
	assert.Equal(t, []string{"B", "and0.b"}, m.Nodes[1].Pins)
	assert.Equal(t, []string{"C", "and0.out", "not0.in"}, m.Nodes[2].Pins)
	assert.Equal(t, []string{"D", "not0.out"}, m.Nodes[3].Pins)
	assert.Equal(t, []ms.NodeID{0, 1}, m.FreeNodes())
	assert.Equal(t, 0, m.Nodes[2].Driver)
	assert.Equal(t, "and0.out", m.Nodes[2].DriverPin)
	assert.Equal(t, 1, m.Nodes[3].Driver)
	assert.Equal(t, "not0.out", m.Nodes[3].DriverPin)
	assert.Same(t, &m.Nodes[2], m.Node(2))
	assert.Same(t, m.Chips[1], m.Driver(3))
	assert.Nil(t, m.Driver(0))

	and0 := m.Chips[0]
	assert.Equal(t, "and0", and0.Path)
	assert.Equal(t, []ms.NodeID{0, 1}, and0.In)
	assert.Equal(t, []ms.NodeID{2}, and0.Out)

	for _, p := range []string{"A", "and0.a"} {
		n, ok := m.NodeOf(p)
		assert.True(t, ok, p)
		assert.Equal(t, ms.NodeID(0), n, p)
	}
	_, ok := m.NodeOf("and0.c")
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "B", "C", "D", "and0.a", "and0.b", "and0.out", "not0.in", "not0.out"}, m.Paths())

	assert.Equal(t, m.Root, root)
	assert.Equal(t, "top", root.Template)
	assert.Equal(t, []int{0, 1}, root.Chips)
	require.Len(t, root.Connectors, 5)
	assert.Equal(t, ms.Connector{A: "A", B: "and0.a", Node: 0}, root.Connectors[0])
	assert.Equal(t, ms.Connector{A: "D", B: "not0.out", Node: 3}, root.Connectors[4])
	assert.ElementsMatch(t, []ms.NodeID{0, 1, 2, 3}, root.Nodes())
}

func TestFlatten_deterministic(t *testing.T) {
	d := ms.NewDesign("top", ms.In("A, B"), ms.Out("S"))
	require.NoError(t, d.Place("x0", xorChip, "a=A, b=B, out=t"))
	require.NoError(t, d.Place("x1", xorChip, "a=t, b=B, out=S"))

	m0, _, err := ms.Flatten(d)
	require.NoError(t, err)
	m1, _, err := ms.Flatten(d)
	require.NoError(t, err)
	assert.Equal(t, m0, m1)
}

func TestFlatten_nested(t *testing.T) {
	d := ms.NewDesign("top", ms.In("A, B"), ms.Out("S"))
	require.NoError(t, d.Place("x0", xorChip, "a=A, b=B, out=S"))
	m, root, err := ms.Flatten(d)
	require.NoError(t, err)

	require.Len(t, m.Chips, 4)
	assert.Equal(t, "x0.nand0", m.Chips[0].Path)
	assert.Equal(t, "x0.nand3", m.Chips[3].Path)

	for _, p := range [][2]string{
		{"A", "x0.a"},
		{"x0.a", "x0.nand0.a"},
		{"x0.b", "x0.nand2.a"},
		{"S", "x0.out"},
		{"x0.out", "x0.nand3.out"},
		{"x0.nand0.out", "x0.nand1.b"},
	} {
		a, ok := m.NodeOf(p[0])
		require.True(t, ok, p[0])
		b, ok := m.NodeOf(p[1])
		require.True(t, ok, p[1])
		assert.Equal(t, a, b, "%s != %s", p[0], p[1])
	}
	s, _ := m.NodeOf("S")
	assert.Equal(t, "x0.nand3.out", m.Nodes[s].DriverPin)

	x0 := root.Child("x0")
	require.NotNil(t, x0)
	assert.Equal(t, "XOR", x0.Template)
	assert.Equal(t, []int{0, 1, 2, 3}, x0.Chips)
	assert.Equal(t, x0, root.Lookup("x0"))
	assert.Nil(t, root.Lookup("x1"))
	assert.Nil(t, root.Lookup("x0.nand0"))

	var paths []string
	root.Walk(func(di *ms.DesignInstance) bool {
		paths = append(paths, di.Path)
		return true
	})
	assert.Equal(t, []string{"", "x0"}, paths)
}

func TestFlatten_errors(t *testing.T) {
	t.Run("multi_driver", func(t *testing.T) {
		d := ms.NewDesign("top", ms.In("A, B"), ms.Out("C"))
		require.NoError(t, d.Place("and0", ms.AndGate, "a=A, b=B, out=C"))
		require.NoError(t, d.Place("and1", ms.AndGate, "a=A, b=B, out=C"))
		_, _, err := ms.Flatten(d)
		var me *ms.MultiDriverError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, ms.NodeID(2), me.Node)
		assert.Equal(t, []string{"and0.out", "and1.out"}, me.Drivers)
		assert.Equal(t, "node 2 (C, and0.out, and1.out) driven by multiple outputs: and0.out, and1.out", err.Error())
	})
	t.Run("cycle", func(t *testing.T) {
		d1 := ms.NewDesign("T1", nil, nil)
		t1, err := ms.Composite("T1", d1)
		require.NoError(t, err)
		d2 := ms.NewDesign("T2", nil, nil)
		t2, err := ms.Composite("T2", d2)
		require.NoError(t, err)
		_, err = d1.Add("c", t2)
		require.NoError(t, err)
		_, err = d2.Add("c", t1)
		require.NoError(t, err)

		top := ms.NewDesign("top", nil, nil)
		_, err = top.Add("t", t1)
		require.NoError(t, err)
		_, _, err = ms.Flatten(top)
		var se *ms.StructuralError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, []string{"T1", "T2", "T1"}, se.Chain)
		assert.Equal(t, "cyclic template containment: T1 -> T2 -> T1", err.Error())
	})
	t.Run("dangling", func(t *testing.T) {
		data := []struct {
			name string
			a, b ms.PinRef
			err  string
		}{
			{"chip", ms.PinRef{Chip: "nope", Pin: "a"}, ms.PinRef{Pin: "A"}, "top: nope.a: dangling chip reference"},
			{"chip_pin", ms.PinRef{Chip: "and0", Pin: "x"}, ms.PinRef{Pin: "A"}, "top: and0.x: dangling pin reference"},
			{"pin", ms.PinRef{Chip: "and0", Pin: "a"}, ms.PinRef{Pin: "Z"}, "top: Z: dangling pin reference"},
		}
		for _, d := range data {
			t.Run(d.name, func(t *testing.T) {
				top := andNot(t)
				top.AddWire(d.a, d.b)
				_, _, err := ms.Flatten(top)
				var ve *ms.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, d.err, err.Error())
			})
		}
	})
	t.Run("nested_dangling", func(t *testing.T) {
		inner := ms.NewDesign("INNER", ms.In("a"), ms.Out("out"))
		inner.AddWire(ms.PinRef{Pin: "a"}, ms.PinRef{Chip: "ghost", Pin: "in"})
		it, err := ms.Composite("INNER", inner)
		require.NoError(t, err)
		top := ms.NewDesign("top", nil, nil)
		_, err = top.Add("i", it)
		require.NoError(t, err)
		_, _, err = ms.Flatten(top)
		assert.EqualError(t, err, "INNER: ghost.in: dangling chip reference")
	})
	t.Run("nil", func(t *testing.T) {
		_, _, err := ms.Flatten(nil)
		assert.Error(t, err)
	})
}

func TestFlatten_unconnected(t *testing.T) {
	d := ms.NewDesign("top", nil, nil)
	_, err := d.Add("n", ms.NandGate)
	require.NoError(t, err)
	m, _, err := ms.Flatten(d)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []ms.NodeID{0, 1}, m.FreeNodes())
}
