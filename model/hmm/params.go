// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"fmt"

	"github.com/akualab/regime/floatx"
	"github.com/akualab/regime/model"
	"github.com/golang/glog"
)

// StochasticTolerance is the maximum deviation from one allowed when
// checking that a row or vector sums to one.
const StochasticTolerance = 1e-9

// Params is the complete HMM Φ = (A, B, π).
//
// q(t) is the state at time t; states are labeled {0,1,...,N-1}.
// A Params value is never modified after construction: re-estimation
// returns a new instance.
type Params struct {

	// Number of hidden states. N >= 2.
	N int

	// State-transition probability matrix. [N x N]
	// a(i,j) = P[q(t+1) = j | q(t) = i]; 0 <= i,j <= N-1
	Trans [][]float64

	// Emission parameters. b(j,t) is computed from these by a model.Emitter.
	Emission model.Emission

	// Initial state distribution. [N x 1]
	// π(i) = P[q(0) = i]; 0<=i<N
	Init []float64

	// Set on re-estimated instances, whose values may be signed.
	signed bool
}

// NewParams creates a validated HMM from user-supplied priors. The slices
// are copied. Transition rows and initial probabilities must be
// non-negative and sum to one.
func NewParams(trans [][]float64, init []float64, emission model.Emission) (*Params, error) {

	p := &Params{
		N:        len(init),
		Trans:    floatx.Clone2D(trans),
		Emission: emission.Clone(),
		Init:     floatx.Clone(init),
	}
	if err := p.check(true); err != nil {
		return nil, err
	}

	glog.V(1).Infof("new hmm params: num states = %d", p.N)
	glog.V(2).Infof("init probs: %v", p.Init)
	glog.V(2).Infof("trans probs: %v", p.Trans)
	glog.V(2).Infof("emission: %+v", p.Emission)
	return p, nil
}

// newParams builds a re-estimated instance. Values may be signed (the bare
// mean emitter produces signed pseudo-occupancies) but rows must still sum
// to one.
func newParams(trans [][]float64, init []float64, emission model.Emission) (*Params, error) {

	p := &Params{
		N:        len(init),
		Trans:    trans,
		Emission: emission,
		Init:     init,
		signed:   true,
	}
	if err := p.check(false); err != nil {
		return nil, err
	}
	return p, nil
}

// Check verifies dimensions, finiteness and that every row of Trans and
// Init sum to one within StochasticTolerance. Values must be non-negative
// unless p was produced by re-estimation.
func (p *Params) Check() error {
	if p == nil {
		return fmt.Errorf("%w: nil params", ErrInvalidModel)
	}
	return p.check(!p.signed)
}

func (p *Params) check(nonNegative bool) error {

	if p.N < 2 {
		return fmt.Errorf("%w: need at least 2 states, got %d", ErrInvalidModel, p.N)
	}
	if len(p.Init) != p.N {
		return fmt.Errorf("%w: init probs has [%d] states, expected [%d]", ErrInvalidModel, len(p.Init), p.N)
	}
	r, c, ok := floatx.Shape(p.Trans)
	if !ok || r != p.N || c != p.N {
		return fmt.Errorf("%w: trans probs must be [%d x %d], got [%d x %d]", ErrInvalidModel, p.N, p.N, r, c)
	}
	if err := p.Emission.Check(p.N); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if !floatx.SumsToOne(p.Init, StochasticTolerance) {
		return fmt.Errorf("%w: init probs %v don't sum to 1", ErrInvalidModel, p.Init)
	}
	for i, row := range p.Trans {
		if !floatx.SumsToOne(row, StochasticTolerance) {
			return fmt.Errorf("%w: trans probs row [%d] %v doesn't sum to 1", ErrInvalidModel, i, row)
		}
	}
	if !nonNegative {
		return nil
	}
	return p.checkNonNegative()
}

// checkNonNegative verifies that Trans and Init are probabilities.
func (p *Params) checkNonNegative() error {

	for i, v := range p.Init {
		if v < 0 {
			return fmt.Errorf("%w: init prob for state [%d] is negative: %v", ErrInvalidModel, i, v)
		}
	}
	for i, row := range p.Trans {
		for j, v := range row {
			if v < 0 {
				return fmt.Errorf("%w: trans prob (%d,%d) is negative: %v", ErrInvalidModel, i, j, v)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p *Params) Clone() *Params {
	return &Params{
		N:        p.N,
		Trans:    floatx.Clone2D(p.Trans),
		Emission: p.Emission.Clone(),
		Init:     floatx.Clone(p.Init),
		signed:   p.signed,
	}
}
