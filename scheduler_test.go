package meshsim_test

import (
	"sync/atomic"
	"testing"

	ms "github.com/db47h/meshsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	data := []struct {
		n, workers int
		want       [][2]int
	}{
		{0, 4, nil},
		{1, 4, [][2]int{{0, 1}}},
		{4, 0, [][2]int{{0, 4}}},
		{10, 3, [][2]int{{0, 4}, {4, 7}, {7, 10}}},
		{6, 3, [][2]int{{0, 2}, {2, 4}, {4, 6}}},
		{3, 8, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
	}
	for _, d := range data {
		assert.Equal(t, d.want, ms.Partition(d.n, d.workers), "Partition(%d, %d)", d.n, d.workers)
	}
}

func TestPartition_cover(t *testing.T) {
	for n := 0; n < 50; n++ {
		for w := 1; w < 12; w++ {
			seen := make([]int, n)
			min, max := n, 0
			for _, g := range ms.Partition(n, w) {
				for i := g[0]; i < g[1]; i++ {
					seen[i]++
				}
				if sz := g[1] - g[0]; sz < min {
					min = sz
				}
				if sz := g[1] - g[0]; sz > max {
					max = sz
				}
			}
			for i, c := range seen {
				require.Equal(t, 1, c, "n=%d, w=%d, item %d", n, w, i)
			}
			if n > 0 {
				assert.LessOrEqual(t, max-min, 1, "n=%d, w=%d", n, w)
			}
		}
	}
}

func TestFrame(t *testing.T) {
	f := ms.NewFrame(3)
	assert.Equal(t, 3, f.Len())
	f.Set(1, true)
	assert.False(t, f.Get(1), "pending value visible before commit")
	assert.Equal(t, 1, f.Commit())
	assert.True(t, f.Get(1))
	assert.Equal(t, 0, f.Commit())

	f.Force(2, true)
	assert.True(t, f.Get(2))
	assert.Equal(t, 0, f.Commit())
	assert.Equal(t, []bool{false, true, true}, f.Values())
}

func TestScheduler_Evaluate(t *testing.T) {
	const n = 100
	for w := 1; w <= 8; w++ {
		f := ms.NewFrame(n)
		var calls [n]int32
		items := make([]ms.Traversable, n)
		for i := range items {
			i := i
			items[i] = ms.TraverseFunc(func(f *ms.Frame) {
				atomic.AddInt32(&calls[i], 1)
				// shift register: node i takes the committed value of node i-1
				if i > 0 {
					f.Set(ms.NodeID(i), f.Get(ms.NodeID(i-1)))
				}
			})
		}
		s := ms.NewScheduler(w, items, f)
		assert.Len(t, s.Workers(), w)
		assert.Equal(t, f, s.Frame())
		f.Force(0, true)
		for round := 1; round <= 5; round++ {
			s.Evaluate()
			assert.Equal(t, 1, f.Commit(), "workers=%d round=%d", w, round)
			for i := 0; i < n; i++ {
				assert.Equal(t, i <= round, f.Get(ms.NodeID(i)), "workers=%d round=%d node=%d", w, round, i)
			}
		}
		s.Dispose()
		for i := range calls {
			assert.Equal(t, int32(5), calls[i])
		}
	}
}

func TestScheduler_empty(t *testing.T) {
	s := ms.NewScheduler(4, nil, ms.NewFrame(0))
	s.Evaluate()
	assert.Empty(t, s.Workers())
	s.Dispose()
}
