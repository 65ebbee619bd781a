// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/curioloop/newton/newton"
)

const namespace = "newton"

// Metrics collects the progress of the models it observes, labeled by problem name.
type Metrics struct {
	iterations *prometheus.CounterVec
	gradNorm   *prometheus.GaugeVec
	runs       *prometheus.CounterVec
}

var _ prometheus.Collector = (*Metrics)(nil)

func NewMetrics() *Metrics {
	return &Metrics{
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Newton steps taken, by problem.",
		}, []string{"problem"}),
		gradNorm: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gradient_norm",
			Help:      "Euclidean norm of the gradient at the latest iterate, by problem.",
		}, []string{"problem"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed optimizations, by problem and final status.",
		}, []string{"problem", "status"}),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.iterations.Describe(ch)
	m.gradNorm.Describe(ch)
	m.runs.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.iterations.Collect(ch)
	m.gradNorm.Collect(ch)
	m.runs.Collect(ch)
}

// Observer returns an observer feeding the series of problem.
// The starting point only sets the gradient norm.
func (m *Metrics) Observer(problem string) newton.Observer {
	iterations := m.iterations.WithLabelValues(problem)
	gradNorm := m.gradNorm.WithLabelValues(problem)
	return newton.ObserverFunc(func(p newton.Progress) {
		if p.Iter > 0 {
			iterations.Inc()
		}
		gradNorm.Set(p.GradNorm)
	})
}

// RecordStatus counts a finished optimization of problem.
func (m *Metrics) RecordStatus(problem string, status newton.Status) {
	m.runs.WithLabelValues(problem, status.String()).Inc()
}
