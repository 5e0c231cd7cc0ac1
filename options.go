// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"log/slog"
	"time"

	"github.com/db47h/meshsim/internal/logging"
)

type settings struct {
	cfg     Config
	log     *slog.Logger
	metrics *Metrics
	hook    func(TickResult)
}

func defaultSettings() settings {
	return settings{
		cfg: DefaultConfig(),
		log: logging.NewNop(),
	}
}

// An Option configures a Simulation.
//
type Option func(*settings)

// WithConfig replaces the whole configuration.
//
func WithConfig(cfg Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithWorkers sets the number of worker goroutines.
//
func WithWorkers(n int) Option {
	return func(s *settings) { s.cfg.Workers = n }
}

// WithMaxSettleIterations sets the maximum number of evaluate/commit rounds
// per tick.
//
func WithMaxSettleIterations(n int) Option {
	return func(s *settings) { s.cfg.MaxSettleIterations = n }
}

// WithTickRate sets the period of background ticks.
//
func WithTickRate(d time.Duration) Option {
	return func(s *settings) { s.cfg.TickRate = d }
}

// WithLogger sets the logger. The default logger discards everything.
//
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l == nil {
			l = logging.NewNop()
		}
		s.log = l
	}
}

// WithMetrics sets the prometheus collectors updated by the simulation.
//
func WithMetrics(m *Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithTickHook sets a function called after every tick, from the goroutine
// running the tick. It must not call back into the Simulation except for
// Snapshot and Ticks.
//
func WithTickHook(fn func(TickResult)) Option {
	return func(s *settings) { s.hook = fn }
}
