// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"fmt"
	"math"

	"github.com/akualab/regime/floatx"
	"github.com/akualab/regime/model"
	"github.com/akualab/regime/model/gaussian"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

// Reestimator computes updated parameters from a forward-backward pass
// (one EM iteration).
type Reestimator struct {
	opts options
}

// NewReestimator creates a re-estimator. Relevant options are Emitter,
// UpdateTP, UpdateIP, UpdateOP and OnCollapse.
func NewReestimator(options ...Option) *Reestimator {
	return &Reestimator{opts: newOptions(options)}
}

// Reestimate returns new parameters computed from obs and its posterior
// under p. p is not modified.
//
//   π(i)   = γ(0,i)
//   a(i,j) = sum_{t=0}^{T-2} ξ(t,i,j) / sum_{t=0}^{T-2} γ(t,i)
//   μ(i)   = sum_t γ(t,i) o(t) / sum_t γ(t,i)           (UpdateOP only)
//
// A state with zero occupancy fails with ErrStateCollapse unless the
// collapse policy is CollapseRetain.
func (r *Reestimator) Reestimate(p *Params, obs []float64, post *Posterior) (*Params, error) {

	if err := p.Check(); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, ErrEmptySequence
	}
	if post == nil || post.Len() != len(obs) {
		return nil, fmt.Errorf("%w: posterior doesn't match observations", ErrInvalidModel)
	}
	if err := checkEmitter(r.opts.emitter, p); err != nil {
		return nil, err
	}

	s := newStats(p.N, r.opts.updateOP)
	if err := s.accumulate(p, obs, likelihoods(r.opts.emitter, p, obs), post); err != nil {
		return nil, err
	}
	return s.estimate(p, r.opts)
}

// stats holds the expected counts of one or more sequences.
type stats struct {
	n    int
	seqs int

	// sum over sequences of γ(0,i).
	init []float64

	// sum_{t=0}^{T-2} ξ(t,i,j)
	xi [][]float64

	// sum_{t=0}^{T-2} γ(t,i)
	occ []float64

	// Emission statistics weighted by γ(t,i) over all t. Nil when the
	// emission is not updated.
	emission *gaussian.Stats

	logProb float64
}

func newStats(n int, updateOP bool) *stats {

	s := &stats{
		n:    n,
		init: make([]float64, n),
		xi:   floatx.MakeFloat2D(n, n),
		occ:  make([]float64, n),
	}
	if updateOP {
		s.emission = gaussian.NewStats(n)
	}
	return s
}

// Compute xi. Indices are: ξ(time, from, to)
//
//                       α(t,i) a(i,j) b(j,o(t+1)) β(t+1,j)
// ξ(t,i,j) = ------------------------------------------------------------------
//            sum_{i=0}^{N-1} sum_{j=0}^{N-1} α(t,i) a(i,j) b(j,o(t+1)) β(t+1,j)
//
// Normalizing per t makes the result independent of the scaling of α and β.
func (s *stats) accumulate(p *Params, obs []float64, b [][]float64, post *Posterior) error {

	N := s.n
	T := len(obs)
	α, β, γ := post.Alpha, post.Beta, post.Gamma
	ξ := floatx.MakeFloat2D(N, N)

	for t := 0; t < T-1; t++ {
		var sum float64
		for i := 0; i < N; i++ {
			for j := 0; j < N; j++ {
				x := α[t][i] * p.Trans[i][j] * b[t+1][j] * β[t+1][j]
				ξ[i][j] = x
				sum += x
			}
		}
		if sum == 0 || !floatx.IsFinite(sum) {
			return fmt.Errorf("%w: transition posteriors vanish at t=%d", ErrDivisionByZero, t)
		}
		for i := 0; i < N; i++ {
			floats.AddScaled(s.xi[i], 1/sum, ξ[i])
		}
		floats.Add(s.occ, γ[t])
	}

	floats.Add(s.init, γ[0])
	if s.emission != nil {
		for t, x := range obs {
			for i := 0; i < N; i++ {
				s.emission.Update(i, x, γ[t][i])
			}
		}
	}
	s.logProb += post.LogProb
	s.seqs++
	return nil
}

func (s *stats) merge(o *stats) {

	floats.Add(s.init, o.init)
	floats.Add(s.occ, o.occ)
	for i := range s.xi {
		floats.Add(s.xi[i], o.xi[i])
	}
	if s.emission != nil && o.emission != nil {
		s.emission.Merge(o.emission)
	}
	s.logProb += o.logProb
	s.seqs += o.seqs
}

// estimate returns a new instance. Parameters that are not updated are copied from p.
func (s *stats) estimate(p *Params, opts options) (*Params, error) {

	N := s.n
	init := floatx.Clone(p.Init)
	trans := floatx.Clone2D(p.Trans)
	emission := p.Emission.Clone()

	if opts.updateIP && s.seqs > 0 {
		floats.ScaleTo(init, 1/float64(s.seqs), s.init)
		if sum := floatx.Normalize(init); sum == 0 || !floatx.IsFinite(sum) {
			return nil, fmt.Errorf("%w: initial occupancies sum to %v", ErrDivisionByZero, sum)
		}
	}

	if opts.updateTP {
		for i := 0; i < N; i++ {
			row, err := s.transRow(i)
			if err != nil {
				if err = collapse(opts.collapse, i, err); err != nil {
					return nil, err
				}
				continue
			}
			trans[i] = row
		}
	}

	if opts.updateOP && s.emission != nil {
		em, collapsed := s.emission.Estimate(p.Emission)
		for _, i := range collapsed {
			err := fmt.Errorf("%w: state [%d] has zero total occupancy, can't estimate emission", ErrStateCollapse, i)
			if err = collapse(opts.collapse, i, err); err != nil {
				return nil, err
			}
		}
		if err := em.Check(N); err != nil {
			return nil, fmt.Errorf("%w: estimated emission: %v", ErrInvalidModel, err)
		}
		emission = em
	}

	if glog.V(2) {
		glog.Infof("estimated init: %v", init)
		glog.Infof("estimated trans: %v", trans)
		glog.Infof("estimated emission: %+v", emission)
	}
	return newParams(trans, init, emission)
}

// transRow returns row i of the transition matrix. Renormalized to absorb drift.
func (s *stats) transRow(i int) ([]float64, error) {

	occ := s.occ[i]
	if occ == 0 || math.IsNaN(occ) || math.IsInf(occ, 0) {
		return nil, fmt.Errorf("%w: state [%d] has zero occupancy (denominator %v)", ErrStateCollapse, i, occ)
	}
	row := make([]float64, s.n)
	floats.ScaleTo(row, 1/occ, s.xi[i])
	if !floatx.IsFinite(row...) {
		return nil, fmt.Errorf("%w: state [%d] row is not finite: %v", ErrStateCollapse, i, row)
	}
	if sum := floatx.Normalize(row); sum == 0 || !floatx.IsFinite(sum) {
		return nil, fmt.Errorf("%w: state [%d] row sums to %v", ErrStateCollapse, i, sum)
	}
	return row, nil
}

func collapse(policy CollapsePolicy, state int, err error) error {

	if policy == CollapseFail {
		return err
	}
	glog.Warningf("retaining previous parameters for state [%d]: %v", state, err)
	return nil
}

// checkEmitter verifies that em can compute likelihoods from the emission parameters of p.
func checkEmitter(em model.Emitter, p *Params) error {
	if err := em.Validate(p.Emission); err != nil {
		return fmt.Errorf("%w: %s emitter: %v", ErrInvalidModel, em.Name(), err)
	}
	return nil
}
