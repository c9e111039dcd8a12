// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"fmt"
	"math"

	"github.com/akualab/regime/floatx"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

// Inferrer assigns a regime label to each observation.
type Inferrer struct {
	opts   options
	engine *Engine
}

// NewInferrer creates an inferrer. Relevant options are Decode, Emitter
// and Scaling.
func NewInferrer(options ...Option) *Inferrer {

	opts := newOptions(options)
	return &Inferrer{opts: opts, engine: &Engine{opts: opts}}
}

// Mode returns the decoding mode.
func (inf *Inferrer) Mode() Mode { return inf.opts.mode }

// Infer returns one label in [0, N-1] per observation.
func (inf *Inferrer) Infer(p *Params, obs []float64) ([]int, error) {

	if len(obs) == 0 {
		return nil, ErrEmptySequence
	}
	if err := p.Check(); err != nil {
		return nil, err
	}

	switch inf.opts.mode {
	case ModeBaseline:
		return baseline(p, len(obs)), nil
	case ModeViterbi:
		if err := checkEmitter(inf.opts.emitter, p); err != nil {
			return nil, err
		}
		labels, logProb, err := viterbi(p, likelihoods(inf.opts.emitter, p, obs))
		if err != nil {
			return nil, err
		}
		glog.V(2).Infof("viterbi: T: %d, logProb: %e", len(obs), logProb)
		return labels, nil
	case ModePosterior:
		post, err := inf.engine.ForwardBackward(p, obs)
		if err != nil {
			return nil, err
		}
		labels := make([]int, len(obs))
		for t, γ := range post.Gamma {
			labels[t] = floats.MaxIdx(γ)
		}
		return labels, nil
	}
	return nil, fmt.Errorf("unknown decoding mode %v", inf.opts.mode)
}

// baseline labels every t with argmax_i π(i) mean(i). Ties go to the
// lowest state index.
func baseline(p *Params, T int) []int {

	score := make([]float64, p.N)
	floats.MulTo(score, p.Init, p.Emission.Means)
	best := floats.MaxIdx(score)

	labels := make([]int, T)
	for t := range labels {
		labels[t] = best
	}
	return labels
}

// The viterbi algorithm computes the most probable sequence of states.
// These are the equations in log scale:
//
// δ(t, j) = max_{q(0),...,q(t-1)} log P(q(0),...,q(t-1), q(t)=j, o(0),...,o(t))
//
// Recursion in log scale   δ(t, j) [T x N]
// δ(0, j) = log π(j) + log b(j, o(0))    for j in [0, N-1]
// δ(t, j) = max_k [ δ(t-1, k) + log a(k, j) ] + log b(j, o(t))   j in [0, N-1], t in [1, T-1]
// ψ(t, j) = argmax_k [ δ(t-1, k) + log a(k, j) ]                 j in [0, N-1], t in [1, T-1]
//
// Decoding q* is the output sequence [T x 1]
// q*(T-1) = argmax_j δ(T-1, j)
// q*(t)   = ψ(t+1, q*(t+1))  t in [0, T-2]
// logProb = max_j δ(T-1, j)
//
// Ties go to the lowest state index. Probabilities and likelihoods must be
// non-negative.
func viterbi(p *Params, b [][]float64) (bt []int, logProb float64, err error) {

	N := p.N
	T := len(b)

	if err = p.checkNonNegative(); err != nil {
		err = fmt.Errorf("viterbi needs probabilities: %w", err)
		return
	}

	for t := range b {
		for j, v := range b[t] {
			if v < 0 || math.IsNaN(v) {
				err = fmt.Errorf("%w: viterbi needs non-negative likelihoods, got b(%d,o(%d)) = %v", ErrInvalidModel, j, t, v)
				return
			}
		}
	}

	logInit := make([]float64, N)
	floatx.Apply(logFunc, p.Init, logInit)
	logTrans := floatx.MakeFloat2D(N, N)
	for i, row := range p.Trans {
		floatx.Apply(logFunc, row, logTrans[i])
	}

	δ := floatx.MakeFloat2D(T, N)
	ψ := make([][]int, T)
	for t := range ψ {
		ψ[t] = make([]int, N)
	}

	for j := 0; j < N; j++ {
		δ[0][j] = logInit[j] + math.Log(b[0][j])
	}

	for t := 1; t < T; t++ {
		for j := 0; j < N; j++ {
			max := δ[t-1][0] + logTrans[0][j]
			argmax := 0
			for k := 1; k < N; k++ {
				v := δ[t-1][k] + logTrans[k][j]
				if v > max {
					max = v
					argmax = k
				}
			}
			δ[t][j] = max + math.Log(b[t][j])
			ψ[t][j] = argmax
		}
	}

	bt = make([]int, T)
	bt[T-1] = floats.MaxIdx(δ[T-1])
	logProb = δ[T-1][bt[T-1]]
	if math.IsInf(logProb, -1) {
		err = fmt.Errorf("%w: no state path has positive probability", ErrDivisionByZero)
		return nil, 0, err
	}
	for t := T - 2; t >= 0; t-- {
		bt[t] = ψ[t+1][bt[t+1]]
	}
	return
}

func logFunc(i int, v float64) float64 { return math.Log(v) }
