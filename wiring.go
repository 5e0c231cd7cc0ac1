// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

// wiring is a union-find over provisional node numbers. Merging two sets
// always keeps the lowest number as the set's representative so that the
// final numbering only depends on allocation order.
//
type wiring []int

// alloc allocates a new node and returns its number.
//
func (w *wiring) alloc() int {
	n := len(*w)
	*w = append(*w, n)
	return n
}

func (w wiring) find(n int) int {
	for w[n] != n {
		// path halving
		w[n] = w[w[n]]
		n = w[n]
	}
	return n
}

// union merges the sets containing a and b.
//
func (w wiring) union(a, b int) {
	ra, rb := w.find(a), w.find(b)
	switch {
	case ra < rb:
		w[rb] = ra
	case rb < ra:
		w[ra] = rb
	}
}

// compact returns the canonical node number for every provisional node.
// Canonical numbers are dense and ordered by the lowest provisional number
// of each set.
//
func (w wiring) compact() (canon []NodeID, count int) {
	canon = make([]NodeID, len(w))
	for i := range w {
		r := w.find(i)
		if r == i {
			canon[i] = NodeID(count)
			count++
		} else {
			// r < i, already numbered
			canon[i] = canon[r]
		}
	}
	return canon, count
}
