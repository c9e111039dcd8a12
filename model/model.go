// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package model defines the emission side of a hidden Markov model: the
per-state emission parameters and the Emitter capability that turns them
into a likelihood for an observation.

The recursions in package hmm only ever call Emitter.Prob, so a density
can be swapped in without touching them.
*/
package model

import (
	"fmt"
	"math"
)

const (
	// DefaultSeed provided for samplers.
	DefaultSeed = 33
)

// Emission holds the per-state emission parameters.
type Emission struct {

	// Per-state mean of the observations.
	Means []float64 `yaml:"means" json:"means"`

	// Per-state standard deviation. Nil for emitters that only use the means.
	StdDevs []float64 `yaml:"std_devs,omitempty" json:"std_devs,omitempty"`
}

// NumStates returns the number of states described by the emission parameters.
func (em Emission) NumStates() int { return len(em.Means) }

// Clone returns a deep copy.
func (em Emission) Clone() Emission {
	out := Emission{Means: append([]float64(nil), em.Means...)}
	if em.StdDevs != nil {
		out.StdDevs = append([]float64(nil), em.StdDevs...)
	}
	return out
}

// Check verifies that the emission parameters describe n states.
func (em Emission) Check(n int) error {

	if em.NumStates() != n {
		return fmt.Errorf("num means [%d] doesn't match num states [%d]", em.NumStates(), n)
	}
	if em.StdDevs != nil && len(em.StdDevs) != n {
		return fmt.Errorf("num std devs [%d] doesn't match num states [%d]", len(em.StdDevs), n)
	}
	for i, v := range em.Means {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("mean for state [%d] is not finite: %v", i, v)
		}
	}
	for i, v := range em.StdDevs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("std dev for state [%d] is not finite: %v", i, v)
		}
	}
	return nil
}

// An Emitter computes b(i, x), the emission likelihood of observation x in state i.
type Emitter interface {

	// Name of the emitter.
	Name() string

	// Prob returns the likelihood of x given state i.
	Prob(em Emission, i int, x float64) float64

	// Validate checks that em carries the parameters the emitter needs.
	Validate(em Emission) error
}

// Mean is the baseline emitter. The likelihood of state i is the bare
// emission parameter Means[i]; the observation is ignored, so the term is
// constant across time and may be negative.
type Mean struct{}

func (Mean) Name() string { return "mean" }

func (Mean) Prob(em Emission, i int, x float64) float64 { return em.Means[i] }

func (Mean) Validate(em Emission) error {
	if len(em.Means) == 0 {
		return fmt.Errorf("mean emitter needs at least one mean")
	}
	return nil
}
