// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"sync/atomic"
	"time"
)

type tickLoop struct {
	quit   chan struct{}
	done   chan struct{}
	paused atomic.Bool
}

func newTickLoop() *tickLoop {
	return &tickLoop{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// run ticks at the current tick rate until l.quit is closed. The quit signal
// is only checked between ticks.
//
func (s *Simulation) run(l *tickLoop) {
	defer close(l.done)
	rate := s.TickRate()
	t := time.NewTicker(rate)
	defer t.Stop()
	for {
		select {
		case <-l.quit:
			return
		case <-t.C:
		}
		if r := s.TickRate(); r != rate {
			rate = r
			t.Reset(r)
		}
		if l.paused.Load() {
			continue
		}
		s.tickMu.Lock()
		if s.sched != nil {
			s.tick()
		}
		s.tickMu.Unlock()
	}
}

// stopLoop stops the background loop, if any, and waits for it to exit. mu
// must be held.
//
func (s *Simulation) stopLoop() {
	if s.loop == nil {
		return
	}
	close(s.loop.quit)
	<-s.loop.done
	s.loop = nil
}
