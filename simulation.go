// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// State is the state of a Simulation.
//
type State int32

// Simulation states.
//
const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// TickResult describes the outcome of a single tick.
//
type TickResult struct {
	Tick        uint64 `json:"tick"`
	Iterations  int    `json:"iterations"`  // evaluate/commit rounds
	Changed     int    `json:"changed"`     // node changes over all rounds
	Oscillation bool   `json:"oscillation"` // the tick did not settle
}

// Simulation is a runnable simulation of a flattened design.
//
// A Simulation starts in the Stopped state with no design installed. Reset
// installs a design, Start runs ticks in the background at the configured tick
// rate until Stop is called, and Pause/Resume suspend and resume background
// ticking. Step runs ticks synchronously in any state.
//
// All methods are safe for concurrent use.
//
type Simulation struct {
	mu     sync.Mutex // serializes state transitions
	st     settings   // written with both mu and tickMu held
	loop   *tickLoop
	state  atomic.Int32
	closed atomic.Bool
	rate   atomic.Int64

	tickMu sync.Mutex // held during ticks, input updates and mesh installs
	mesh   *Mesh
	frame  *Frame
	sched  *Scheduler
	last   TickResult

	ticks atomic.Uint64
	snap  atomic.Pointer[Snapshot]
}

// New returns a new simulation with no design installed.
//
func New(opts ...Option) (*Simulation, error) {
	st := defaultSettings()
	for _, o := range opts {
		o(&st)
	}
	if err := st.cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{st: st}
	s.rate.Store(int64(st.cfg.TickRate))
	s.snap.Store(&Snapshot{})
	return s, nil
}

// Reset flattens d and installs the resulting mesh, replacing the current one.
// Options, if any, are applied on top of the current settings.
//
// On success, background ticking is stopped, all node values are false, the
// tick counter is reset and the simulation is in the Stopped state. On failure
// the current mesh, settings and state are left untouched and the flattening
// error is returned as is.
//
func (s *Simulation) Reset(d *Design, opts ...Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}

	st := s.st
	for _, o := range opts {
		o(&st)
	}
	if err := st.cfg.Validate(); err != nil {
		return err
	}
	m, _, err := Flatten(d)
	if err != nil {
		st.log.Warn("reset failed", "error", err)
		return err
	}

	s.stopLoop()
	s.tickMu.Lock()
	s.disposeScheduler()
	s.st = st
	s.mesh = m
	s.frame = NewFrame(m.Len())
	s.ensureScheduler()
	workers := len(s.sched.Workers())
	s.last = TickResult{}
	s.ticks.Store(0)
	s.publish()
	if st.metrics != nil {
		st.metrics.Nodes.Set(float64(len(m.Nodes)))
		st.metrics.Chips.Set(float64(len(m.Chips)))
	}
	s.tickMu.Unlock()

	s.rate.Store(int64(st.cfg.TickRate))
	s.state.Store(int32(Stopped))
	st.log.Info("design installed", "design", d.Name, "nodes", len(m.Nodes), "chips", len(m.Chips), "workers", workers)
	return nil
}

// ensureScheduler starts the worker pool if needed. tickMu must be held.
//
func (s *Simulation) ensureScheduler() {
	if s.sched != nil {
		return
	}
	s.sched = NewScheduler(s.st.cfg.workers(), s.mesh.Traversables(), s.frame)
	if s.st.metrics != nil {
		s.st.metrics.Workers.Set(float64(len(s.sched.Workers())))
	}
}

// disposeScheduler stops the worker pool. tickMu must be held.
//
func (s *Simulation) disposeScheduler() {
	if s.sched == nil {
		return
	}
	s.sched.Dispose()
	s.sched = nil
	if s.st.metrics != nil {
		s.st.metrics.Workers.Set(0)
	}
}

// State returns the current state.
//
func (s *Simulation) State() State {
	return State(s.state.Load())
}

// Ticks returns the number of ticks run since the last Reset.
//
func (s *Simulation) Ticks() uint64 {
	return s.ticks.Load()
}

// Config returns the current configuration.
//
func (s *Simulation) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.st.cfg
	cfg.TickRate = s.TickRate()
	return cfg
}

// TickRate returns the period of background ticks.
//
func (s *Simulation) TickRate() time.Duration {
	return time.Duration(s.rate.Load())
}

// SetTickRate changes the period of background ticks. It takes effect at the
// next background tick.
//
func (s *Simulation) SetTickRate(d time.Duration) error {
	if d <= 0 {
		return &ValidationError{Design: "config", Reason: "tick_rate must be positive"}
	}
	s.rate.Store(int64(d))
	return nil
}

// Start starts background ticking. A design must have been installed with
// Reset.
//
func (s *Simulation) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}
	if s.State() != Stopped {
		return ErrRunning
	}
	s.tickMu.Lock()
	if s.mesh == nil {
		s.tickMu.Unlock()
		return ErrNoMesh
	}
	s.ensureScheduler()
	s.tickMu.Unlock()

	l := newTickLoop()
	s.loop = l
	go s.run(l)
	s.state.Store(int32(Running))
	s.st.log.Info("simulation started", "tick_rate", s.TickRate())
	return nil
}

// Stop stops background ticking and releases the worker goroutines. A tick in
// progress always completes before Stop returns.
//
func (s *Simulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() == Stopped {
		return ErrNotRunning
	}
	s.stopLoop()
	s.tickMu.Lock()
	s.disposeScheduler()
	s.tickMu.Unlock()
	s.state.Store(int32(Stopped))
	s.st.log.Info("simulation stopped", "tick", s.Ticks())
	return nil
}

// Pause suspends background ticking.
//
func (s *Simulation) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() != Running {
		return ErrNotRunning
	}
	s.loop.paused.Store(true)
	s.state.Store(int32(Paused))
	s.st.log.Info("simulation paused", "tick", s.Ticks())
	return nil
}

// Resume resumes background ticking after Pause.
//
func (s *Simulation) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() != Paused {
		return ErrNotPaused
	}
	s.loop.paused.Store(false)
	s.state.Store(int32(Running))
	s.st.log.Info("simulation resumed", "tick", s.Ticks())
	return nil
}

// Close stops the simulation and releases all resources. A closed simulation
// cannot be used anymore.
//
func (s *Simulation) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) {
		return nil
	}
	s.stopLoop()
	s.tickMu.Lock()
	s.disposeScheduler()
	s.tickMu.Unlock()
	s.state.Store(int32(Stopped))
	return nil
}

// Step synchronously runs n ticks and returns the result of the last one.
// Step works in any state and never overlaps a background tick.
//
func (s *Simulation) Step(n int) (TickResult, error) {
	if n < 1 {
		return TickResult{}, ErrInvalidSteps
	}
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if s.closed.Load() {
		return TickResult{}, ErrClosed
	}
	if s.mesh == nil {
		return TickResult{}, ErrNoMesh
	}
	s.ensureScheduler()
	var r TickResult
	for i := 0; i < n; i++ {
		r = s.tick()
	}
	return r, nil
}

// tick runs evaluate/commit rounds until no node changes or until the maximum
// number of settle iterations is reached. tickMu must be held.
//
func (s *Simulation) tick() TickResult {
	r := TickResult{Tick: s.ticks.Load() + 1}
	stable := false
	for r.Iterations < s.st.cfg.MaxSettleIterations {
		s.sched.Evaluate()
		r.Iterations++
		c := s.frame.Commit()
		r.Changed += c
		if c == 0 {
			stable = true
			break
		}
	}
	r.Oscillation = !stable
	s.last = r
	s.ticks.Store(r.Tick)
	s.publish()

	if r.Oscillation {
		s.st.log.Warn("tick did not settle", "tick", r.Tick, "iterations", r.Iterations)
	} else {
		s.st.log.Debug("tick", "tick", r.Tick, "iterations", r.Iterations, "changed", r.Changed)
	}
	if s.st.metrics != nil {
		s.st.metrics.observeTick(r)
	}
	if s.st.hook != nil {
		s.st.hook(r)
	}
	return r
}

// publish makes the committed values visible to Snapshot. tickMu must be held.
//
func (s *Simulation) publish() {
	s.snap.Store(&Snapshot{
		Tick:        s.last.Tick,
		Oscillation: s.last.Oscillation,
		values:      s.frame.Values(),
		mesh:        s.mesh,
	})
}

// Mesh returns the installed mesh, nil if none.
//
func (s *Simulation) Mesh() *Mesh {
	return s.Snapshot().mesh
}

// Snapshot returns the node values committed by the last tick. It never
// blocks and may be called from any goroutine, including tick hooks.
//
func (s *Simulation) Snapshot() *Snapshot {
	return s.snap.Load()
}

// SetInput sets the value of a free node, identified by the path of any of
// its pins. The new value is visible to the next tick. It fails with
// ErrUnknownPin or ErrNotFreeNode.
//
func (s *Simulation) SetInput(path string, v bool) error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	n, err := s.freeNode(path)
	if err != nil {
		return err
	}
	s.frame.Force(n, v)
	s.publish()
	return nil
}

// Toggle inverts the value of a free node.
//
func (s *Simulation) Toggle(path string) error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	n, err := s.freeNode(path)
	if err != nil {
		return err
	}
	s.frame.Force(n, !s.frame.Get(n))
	s.publish()
	return nil
}

func (s *Simulation) freeNode(path string) (NodeID, error) {
	if s.mesh == nil {
		return 0, ErrNoMesh
	}
	n, ok := s.mesh.NodeOf(path)
	if !ok {
		return 0, errors.Wrap(ErrUnknownPin, path)
	}
	if node := &s.mesh.Nodes[n]; !node.Free() {
		return 0, errors.Wrap(ErrNotFreeNode, path+" driven by "+node.DriverPin)
	}
	return n, nil
}
