// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import "strconv"

// A Snapshot is an immutable view of the node values of a simulation, as
// committed at the end of a tick. Snapshots never expose values from a
// partially evaluated tick.
//
type Snapshot struct {
	Tick        uint64 // tick that produced the values, 0 after Reset
	Oscillation bool   // the tick did not settle

	values []bool
	mesh   *Mesh
}

// Mesh returns the mesh the snapshot was taken from. It is nil if no design was
// installed at the time.
//
func (s *Snapshot) Mesh() *Mesh { return s.mesh }

// Len returns the number of node values in s.
//
func (s *Snapshot) Len() int { return len(s.values) }

// Node returns the value of node n.
//
func (s *Snapshot) Node(n NodeID) bool { return s.values[n] }

// Get returns the value of the node a pin path resolves to. ok is false if the
// path is unknown.
//
func (s *Snapshot) Get(path string) (v bool, ok bool) {
	if s.mesh == nil {
		return false, false
	}
	n, ok := s.mesh.NodeOf(path)
	if !ok {
		return false, false
	}
	return s.values[n], true
}

// MaxBusBits is the widest bus SetInt64 and Snapshot.Int64 operate on. All 64
// bits of the integer are used, bit 63 being the sign bit.
//
const MaxBusBits = 64

// Int64 returns the value of a bus as an integer, bit 0 being the least
// significant. Unknown pins read as 0. bits is clamped to MaxBusBits, and a
// value below 1 yields 0.
//
func (s *Snapshot) Int64(bus string, bits int) int64 {
	if bits > MaxBusBits {
		bits = MaxBusBits
	}
	var r int64
	for i := bits - 1; i >= 0; i-- {
		r <<= 1
		if v, _ := s.Get(BusPinName(bus, i)); v {
			r |= 1
		}
	}
	return r
}

// Values returns the value of every pin path in s.
//
func (s *Snapshot) Values() map[string]bool {
	if s.mesh == nil {
		return map[string]bool{}
	}
	m := make(map[string]bool, len(s.mesh.pins))
	for p, n := range s.mesh.pins {
		m[p] = s.values[n]
	}
	return m
}

// SetInt64 sets the free nodes of a bus from the bits of v, bit 0 being the
// least significant. bits must be in the range [1, MaxBusBits].
//
func (s *Simulation) SetInt64(bus string, bits int, v int64) error {
	if bits < 1 || bits > MaxBusBits {
		return &ValidationError{Pin: bus, Reason: "bus width " + strconv.Itoa(bits) + " out of range [1, 64]"}
	}
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	ns := make([]NodeID, bits)
	for i := range ns {
		n, err := s.freeNode(BusPinName(bus, i))
		if err != nil {
			return err
		}
		ns[i] = n
	}
	for i, n := range ns {
		s.frame.Force(n, v&(1<<uint(i)) != 0)
	}
	s.publish()
	return nil
}
