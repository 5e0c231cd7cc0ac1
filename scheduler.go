// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"runtime"
	"sync"
)

// A Frame holds the double buffered node values of a mesh.
//
// During the evaluate phase, Get reads the committed buffer and Set writes the
// pending buffer. As long as every node is written by at most one Traversable,
// concurrent evaluation is race free without locking.
//
type Frame struct {
	cur  []bool
	next []bool
}

// NewFrame returns a new frame for n nodes, all false.
//
func NewFrame(n int) *Frame {
	return &Frame{cur: make([]bool, n), next: make([]bool, n)}
}

// Len returns the number of nodes in f.
//
func (f *Frame) Len() int { return len(f.cur) }

// Get returns the committed value of node n.
//
func (f *Frame) Get(n NodeID) bool { return f.cur[n] }

// Set sets the pending value of node n.
//
func (f *Frame) Set(n NodeID, v bool) { f.next[n] = v }

// Force sets both the committed and pending values of node n. It must not be
// called during an evaluate phase.
//
func (f *Frame) Force(n NodeID, v bool) {
	f.cur[n] = v
	f.next[n] = v
}

// Commit copies pending values into the committed buffer and returns the
// number of nodes that changed.
//
func (f *Frame) Commit() int {
	changed := 0
	for i, v := range f.next {
		if f.cur[i] != v {
			f.cur[i] = v
			changed++
		}
	}
	return changed
}

// Values returns a copy of the committed buffer.
//
func (f *Frame) Values() []bool {
	return append([]bool(nil), f.cur...)
}

// A Traversable is a unit of work evaluated by a worker during the evaluate
// phase. Traverse must only read committed values and only write the pending
// values of the nodes it owns.
//
type Traversable interface {
	Traverse(f *Frame)
}

// TraverseFunc is an adapter to use ordinary functions as Traversable.
//
type TraverseFunc func(f *Frame)

// Traverse calls fn(f).
//
func (fn TraverseFunc) Traverse(f *Frame) { fn(f) }

// Partition splits n items into at most workers contiguous groups whose sizes
// differ by at most one. It returns the [start, end) bounds of each group.
//
func Partition(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if n == 0 {
		return nil
	}
	r := make([][2]int, workers)
	size, extra := n/workers, n%workers
	start := 0
	for i := range r {
		end := start + size
		if i < extra {
			end++
		}
		r[i] = [2]int{start, end}
		start = end
	}
	return r
}

// A Worker evaluates a static group of Traversable items.
//
type Worker struct {
	ID    int
	Items []Traversable

	f  *Frame
	wc chan struct{}
	wg *sync.WaitGroup
}

// loop waits for the evaluate signal, evaluates all items and signals
// completion. It returns once the signal channel is closed. The channel is
// only closed between two evaluate phases.
//
func (w *Worker) loop() {
	for range w.wc {
		for _, it := range w.Items {
			it.Traverse(w.f)
		}
		w.wg.Done()
	}
	w.wg.Done()
}

// A Scheduler evaluates Traversable items on a fixed pool of workers.
//
// Items are partitioned once, when the scheduler is created. Evaluate releases
// all workers and returns when every one of them is done. Committing the
// results is left to the caller. The Scheduler methods must not be called
// concurrently.
//
type Scheduler struct {
	f       *Frame
	workers []*Worker
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler for the given items on frame f.
//
// workers is the number of goroutines used to evaluate the items. If less or
// equal to 0, the value of GOMAXPROCS will be used. No more than len(items)
// goroutines are started.
//
// Callers must make sure to call Dispose() once the scheduler is no longer
// needed in order to release allocated resources.
//
func NewScheduler(workers int, items []Traversable, f *Frame) *Scheduler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	s := &Scheduler{f: f}
	for i, g := range Partition(len(items), workers) {
		w := &Worker{
			ID:    i,
			Items: items[g[0]:g[1]],
			f:     f,
			wc:    make(chan struct{}, 1),
			wg:    &s.wg,
		}
		s.workers = append(s.workers, w)
		go w.loop()
	}
	return s
}

// Workers returns the scheduler's workers.
//
func (s *Scheduler) Workers() []*Worker { return s.workers }

// Frame returns the frame the scheduler evaluates against.
//
func (s *Scheduler) Frame() *Frame { return s.f }

// Evaluate runs one evaluate phase: every item is traversed exactly once.
//
func (s *Scheduler) Evaluate() {
	s.wg.Add(len(s.workers))
	for _, w := range s.workers {
		w.wc <- struct{}{}
	}
	s.wg.Wait()
}

// Dispose stops the worker goroutines. It must not be called during Evaluate.
//
func (s *Scheduler) Dispose() {
	s.wg.Add(len(s.workers))
	for _, w := range s.workers {
		close(w.wc)
	}
	s.wg.Wait()
	s.workers = nil
}
