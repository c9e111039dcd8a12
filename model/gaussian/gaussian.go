// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gaussian implements a univariate Gaussian emitter and the
// weighted sufficient statistics used to re-estimate its parameters.
package gaussian

import (
	"fmt"
	"math"

	"github.com/akualab/regime/floatx"
	"github.com/akualab/regime/model"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	SmallSD       = 0.0001
	SmallVariance = SmallSD * SmallSD
)

// Emitter computes b(i, x) as the normal density N(x; Means[i], StdDevs[i]^2).
type Emitter struct{}

func (Emitter) Name() string { return "gaussian" }

func (Emitter) Prob(em model.Emission, i int, x float64) float64 {
	return distuv.Normal{Mu: em.Means[i], Sigma: em.StdDevs[i]}.Prob(x)
}

func (Emitter) Validate(em model.Emission) error {

	if em.StdDevs == nil {
		return fmt.Errorf("gaussian emitter needs std devs")
	}
	if len(em.StdDevs) != len(em.Means) {
		return fmt.Errorf("num std devs [%d] doesn't match num means [%d]", len(em.StdDevs), len(em.Means))
	}
	for i, sd := range em.StdDevs {
		if !(sd > 0) {
			return fmt.Errorf("std dev for state [%d] must be positive, got %v", i, sd)
		}
	}
	return nil
}

// Stats accumulates per-state weighted sums of observations.
// Not safe to use with multiple goroutines; merge independent instances instead.
type Stats struct {
	NSamples []float64
	Sumx     []float64
	Sumxsq   []float64
}

// NewStats allocates statistics for n states.
func NewStats(n int) *Stats {
	return &Stats{
		NSamples: make([]float64, n),
		Sumx:     make([]float64, n),
		Sumxsq:   make([]float64, n),
	}
}

// Update adds observation x with weight w to state i.
func (s *Stats) Update(i int, x, w float64) {
	s.NSamples[i] += w
	s.Sumx[i] += w * x
	s.Sumxsq[i] += w * x * x
}

// Merge adds the statistics in o.
func (s *Stats) Merge(o *Stats) {
	for i := range s.NSamples {
		s.NSamples[i] += o.NSamples[i]
		s.Sumx[i] += o.Sumx[i]
		s.Sumxsq[i] += o.Sumxsq[i]
	}
}

// Estimate returns new emission parameters. Means are always estimated;
// std devs only when prev has them. States with zero total weight keep
// their previous parameters and are reported in collapsed.
//
//   mean(i) = sum_t w(i,t) x(t) / sum_t w(i,t)
//   var(i)  = sum_t w(i,t) x(t)^2 / sum_t w(i,t) - mean(i)^2
func (s *Stats) Estimate(prev model.Emission) (em model.Emission, collapsed []int) {

	em = prev.Clone()
	var variance []float64
	if em.StdDevs != nil {
		variance = make([]float64, len(em.StdDevs))
		floatx.Apply(floatx.Sq, em.StdDevs, variance)
	}

	for i, n := range s.NSamples {
		if n == 0 {
			collapsed = append(collapsed, i)
			continue
		}
		mean := s.Sumx[i] / n
		em.Means[i] = mean
		if variance != nil {
			variance[i] = s.Sumxsq[i]/n - mean*mean
		}
	}

	if variance != nil {
		floatx.Apply(floatx.FloorFunc(SmallVariance), variance, nil)
		for i, v := range variance {
			if math.IsNaN(v) {
				variance[i] = SmallVariance
			}
		}
		floatx.Apply(floatx.Sqrt, variance, em.StdDevs)
	}
	return
}
