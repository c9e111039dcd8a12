// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics exports HMM training progress to Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/akualab/regime/model/hmm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements hmm.Monitor using Prometheus.
type Collector struct {
	iterations *prometheus.CounterVec
	logProb    *prometheus.GaugeVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	model      string
}

var _ hmm.Monitor = (*Collector)(nil)

// NewCollector registers the training metrics with reg under namespace.
// A nil reg uses the default registerer.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		iterations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "training_iterations_total",
				Help:      "Total number of completed training iterations",
			},
			[]string{"model"},
		),
		logProb: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "training_log_prob",
				Help:      "Log probability of the training data in the last iteration",
			},
			[]string{"model"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "training_failures_total",
				Help:      "Total number of aborted training runs by error kind",
			},
			[]string{"model", "kind"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "training_duration_seconds",
				Help:      "Duration of completed training runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		model: "default",
	}
}

// For returns a collector sharing the same metrics that labels them with name.
func (c *Collector) For(name string) *Collector {
	cc := *c
	cc.model = name
	return &cc
}

// Iteration records a completed iteration.
func (c *Collector) Iteration(n int, logProb float64) {
	c.iterations.WithLabelValues(c.model).Inc()
	c.logProb.WithLabelValues(c.model).Set(logProb)
}

// Failure records an aborted training run.
func (c *Collector) Failure(err error) {
	c.failures.WithLabelValues(c.model, Kind(err)).Inc()
}

// Done records the duration of a completed training run.
func (c *Collector) Done(iterations int, elapsed time.Duration) {
	c.duration.WithLabelValues(c.model).Observe(elapsed.Seconds())
}

// Kind maps an error to a short label value.
func Kind(err error) string {
	switch {
	case errors.Is(err, hmm.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, hmm.ErrStateCollapse):
		return "state_collapse"
	case errors.Is(err, hmm.ErrEmptySequence):
		return "empty_sequence"
	case errors.Is(err, hmm.ErrInvalidModel):
		return "invalid_model"
	}
	return "other"
}
