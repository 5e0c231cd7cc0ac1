package meshsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWiring(t *testing.T) {
	var w wiring
	for i := 0; i < 6; i++ {
		assert.Equal(t, i, w.alloc())
	}
	w.union(4, 2)
	w.union(5, 4)
	w.union(3, 0)
	assert.Equal(t, 2, w.find(5))
	assert.Equal(t, 0, w.find(3))
	assert.Equal(t, 1, w.find(1))

	canon, count := w.compact()
	assert.Equal(t, 3, count)
	assert.Equal(t, []NodeID{0, 1, 2, 0, 2, 2}, canon)
}

func TestSocket_pin(t *testing.T) {
	g := &generator{}
	s := newSocket("x0")
	s.mount(g, []PinDecl{{"a", Input}, {"out", Output}})
	assert.Equal(t, 1, s.pin("out"))
	assert.Equal(t, []pinAlloc{{"x0.a", 0}, {"x0.out", 1}}, g.pins)
	assert.PanicsWithValue(t, "pin x0.b does not exist", func() { s.pin("b") })
}
