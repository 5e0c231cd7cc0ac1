// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors updated by a Simulation.
//
type Metrics struct {
	Ticks        prometheus.Counter
	Oscillations prometheus.Counter
	Iterations   prometheus.Histogram
	Nodes        prometheus.Gauge
	Chips        prometheus.Gauge
	Workers      prometheus.Gauge
}

// NewMetrics creates the simulation collectors and registers them with reg.
// If reg is nil, the collectors are not registered.
//
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "meshsim",
			Name:      "ticks_total",
			Help:      "Total number of simulated ticks.",
		}),
		Oscillations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "meshsim",
			Name:      "oscillations_total",
			Help:      "Total number of ticks that did not settle.",
		}),
		Iterations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meshsim",
			Name:      "settle_iterations",
			Help:      "Number of evaluate/commit rounds per tick.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "meshsim",
			Name:      "nodes",
			Help:      "Number of nodes in the installed mesh.",
		}),
		Chips: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "meshsim",
			Name:      "chips",
			Help:      "Number of leaf chips in the installed mesh.",
		}),
		Workers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "meshsim",
			Name:      "workers",
			Help:      "Number of running worker goroutines.",
		}),
	}
}

func (m *Metrics) observeTick(r TickResult) {
	m.Ticks.Inc()
	m.Iterations.Observe(float64(r.Iterations))
	if r.Oscillation {
		m.Oscillations.Inc()
	}
}
