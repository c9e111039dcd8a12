// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*

Forward-backward recursions.

 α β γ ξ Φ

*/

package hmm

import (
	"fmt"
	"math"

	"github.com/akualab/regime/floatx"
	"github.com/akualab/regime/model"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

// Posterior holds the output of one forward-backward pass.
// Indices are: α(t, state), β(t, state), γ(t, state).
type Posterior struct {
	Alpha [][]float64
	Beta  [][]float64
	Gamma [][]float64

	// Scale factors c(t) applied to α(t). All ones when unscaled.
	Scale []float64

	// log P(O|Φ). Exact when all emission likelihoods are non-negative.
	LogProb float64
}

// Len returns the number of observations T.
func (post *Posterior) Len() int { return len(post.Gamma) }

// Engine computes forward, backward and occupancy probabilities.
type Engine struct {
	opts options
}

// NewEngine creates a forward-backward engine. Relevant options are
// Emitter and Scaling.
func NewEngine(options ...Option) *Engine {
	return &Engine{opts: newOptions(options)}
}

// ForwardBackward runs a full pass over obs.
func (e *Engine) ForwardBackward(p *Params, obs []float64) (*Posterior, error) {

	if err := e.check(p, obs); err != nil {
		return nil, err
	}

	b := likelihoods(e.opts.emitter, p, obs)
	α, scale, logProb, err := e.alpha(p, b)
	if err != nil {
		return nil, err
	}
	β := e.beta(p, b, scale)
	γ, err := gamma(α, β)
	if err != nil {
		return nil, err
	}

	if glog.V(3) {
		glog.Infof("forward-backward: N: %d, T: %d, logProb: %e", p.N, len(obs), logProb)
	}
	return &Posterior{
		Alpha:   α,
		Beta:    β,
		Gamma:   γ,
		Scale:   scale,
		LogProb: logProb,
	}, nil
}

func (e *Engine) check(p *Params, obs []float64) error {

	if len(obs) == 0 {
		return ErrEmptySequence
	}
	if err := p.Check(); err != nil {
		return err
	}
	return checkEmitter(e.opts.emitter, p)
}

// likelihoods returns b(t, j) = P[o(t) | q(t) = j]. [T x N]
func likelihoods(em model.Emitter, p *Params, obs []float64) [][]float64 {

	b := floatx.MakeFloat2D(len(obs), p.N)
	for t, x := range obs {
		for j := 0; j < p.N; j++ {
			b[t][j] = em.Prob(p.Emission, j, x)
		}
	}
	return b
}

// Compute alphas. Indices are: α(time, state)
//
// 1. Initialization: α(0,i) =  π(i) b(i,o(0)); 0<=i<N
// 2. Induction:      α(t+1,j) =  sum_{i=0}^{N-1}[α(t,i)a(i,j)] b(j,o(t+1)); 0<=t<T-1; 0<=j<N
// 3. Termination:    P(O/Φ) = sum_{i=0}^{N-1} α(T-1,i)
//
// When scaled, α(t) is divided by c(t) = sum_i |α(t,i)| after each step and
// log P(O/Φ) = sum_t log c(t) + log |sum_i α(T-1,i)|.
// For scaling details see Rabiner/Juang.
func (e *Engine) alpha(p *Params, b [][]float64) (α [][]float64, scale []float64, logProb float64, err error) {

	N := p.N
	T := len(b)
	α = floatx.MakeFloat2D(T, N)
	scale = make([]float64, T)

	// 1. Initialization.
	for i := 0; i < N; i++ {
		α[0][i] = p.Init[i] * b[0][i]
	}
	if scale[0], err = e.rescale(α[0], 0); err != nil {
		return
	}

	// 2. Induction.
	for t := 1; t < T; t++ {
		for j := 0; j < N; j++ {
			var sum float64
			for i := 0; i < N; i++ {
				sum += α[t-1][i] * p.Trans[i][j]
			}
			α[t][j] = sum * b[t][j]
		}
		if scale[t], err = e.rescale(α[t], t); err != nil {
			return
		}
		if glog.V(4) {
			glog.Infof("t: %4d | alpha: %v | scale: %e", t, α[t], scale[t])
		}
	}

	// 3. Termination.
	for _, c := range scale {
		logProb += math.Log(c)
	}
	logProb += math.Log(math.Abs(floats.Sum(α[T-1])))
	return
}

func (e *Engine) rescale(α []float64, t int) (float64, error) {

	if e.opts.scaling == ScaleNone {
		return 1, nil
	}
	c := floatx.AbsSum(α)
	if c == 0 || !floatx.IsFinite(c) {
		return 0, fmt.Errorf("%w: forward probabilities vanish at t=%d (scale %v)", ErrDivisionByZero, t, c)
	}
	floats.Scale(1/c, α)
	return c, nil
}

// Compute betas. Indices are: β(time, state)
//
// 1. Initialization: β(T-1,i) = 1;  0<=i<N
// 2. Induction:      β(t,i) =  sum_{j=0}^{N-1} a(i,j) b(j,o(t+1)) β(t+1,j); t=T-2,T-3,...,0; 0<=i<N
//
// When scaled, β(t) is divided by the forward scale c(t+1).
// For T=1 only the initialization runs.
func (e *Engine) beta(p *Params, b [][]float64, scale []float64) [][]float64 {

	N := p.N
	T := len(b)
	β := floatx.MakeFloat2D(T, N)

	// 1. Initialization.
	for i := 0; i < N; i++ {
		β[T-1][i] = 1
	}

	// 2. Induction.
	for t := T - 2; t >= 0; t-- {
		for i := 0; i < N; i++ {
			var sum float64
			for j := 0; j < N; j++ {
				sum += p.Trans[i][j] * b[t+1][j] * β[t+1][j]
			}
			β[t][i] = sum
		}
		if e.opts.scaling != ScaleNone {
			floats.Scale(1/scale[t+1], β[t])
		}
	}
	return β
}

// Compute gammas. Indices are: γ(time, state)
//
// γ(t,i) =  α(t,i)β(t,i) / sum_{j=0}^{N-1} α(t,j)β(t,j);  0<=j<N
//
// Returns ErrDivisionByZero when the denominator is zero (or not finite) at some t.
func gamma(α, β [][]float64) ([][]float64, error) {

	T := len(α)
	N := len(α[0])
	γ := floatx.MakeFloat2D(T, N)

	for t := 0; t < T; t++ {
		var sum float64
		for i := 0; i < N; i++ {
			x := α[t][i] * β[t][i]
			γ[t][i] = x
			sum += x
		}
		if sum == 0 || !floatx.IsFinite(sum) {
			return nil, fmt.Errorf("%w: all states have zero joint probability at t=%d", ErrDivisionByZero, t)
		}
		floats.Scale(1/sum, γ[t])
	}
	return γ, nil
}
