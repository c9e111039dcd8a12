// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Trainer iterates forward-backward and re-estimation.
type Trainer struct {
	opts   options
	engine *Engine
	re     *Reestimator
}

// NewTrainer creates a trainer. All options apply.
func NewTrainer(options ...Option) *Trainer {

	opts := newOptions(options)
	return &Trainer{
		opts:   opts,
		engine: &Engine{opts: opts},
		re:     &Reestimator{opts: opts},
	}
}

// Train runs the given number of iterations on a single sequence and
// returns the trained parameters. With zero iterations p itself is
// returned. If an iteration fails, Train returns the parameters of the
// last completed iteration together with the error, so training can
// resume from there.
func (tr *Trainer) Train(p *Params, obs []float64, iterations int) (*Params, error) {
	return tr.TrainBatch(p, [][]float64{obs}, iterations)
}

// TrainBatch trains on independent sequences. In each iteration the
// sequences are processed concurrently, each with its own buffers, and the
// expected counts are merged before a single parameter update.
func (tr *Trainer) TrainBatch(p *Params, seqs [][]float64, iterations int) (*Params, error) {

	if iterations < 0 {
		return p, fmt.Errorf("%w: num iterations must be non-negative, got %d", ErrInvalidModel, iterations)
	}
	if len(seqs) == 0 {
		return p, ErrEmptySequence
	}
	for k, obs := range seqs {
		if len(obs) == 0 {
			return p, fmt.Errorf("%w: sequence [%d]", ErrEmptySequence, k)
		}
	}
	if err := p.Check(); err != nil {
		return p, err
	}
	if iterations == 0 {
		return p, nil
	}
	if err := checkEmitter(tr.opts.emitter, p); err != nil {
		return p, err
	}

	glog.Infof("training hmm: num states: %d, num sequences: %d, iterations: %d", p.N, len(seqs), iterations)
	start := time.Now()
	cur := p
	prevLogProb := math.Inf(-1)
	var n int
	for n = 0; n < iterations; n++ {
		next, logProb, err := tr.iterate(cur, seqs)
		if err != nil {
			err = fmt.Errorf("iteration %d: %w", n, err)
			glog.Errorf("training failed: %v", err)
			tr.opts.monitor.Failure(err)
			return cur, err
		}
		tr.opts.monitor.Iteration(n, logProb)
		glog.V(1).Infof("iter: %3d, logProb: %e", n, logProb)

		cur = next
		if tr.opts.tolerance > 0 && math.Abs(logProb-prevLogProb) < tr.opts.tolerance {
			glog.V(1).Infof("converged after %d iterations", n+1)
			n++
			break
		}
		prevLogProb = logProb
	}

	tr.opts.monitor.Done(n, time.Since(start))
	return cur, nil
}

// iterate runs one EM iteration over all sequences. The returned log
// probability is the total under p.
func (tr *Trainer) iterate(p *Params, seqs [][]float64) (*Params, float64, error) {

	total := newStats(p.N, tr.opts.updateOP)
	if len(seqs) == 1 {
		if err := tr.accumulate(p, seqs[0], total); err != nil {
			return nil, 0, err
		}
		next, err := total.estimate(p, tr.opts)
		return next, total.logProb, err
	}

	// Each sequence owns its stats; merging in index order keeps the sums
	// identical from run to run.
	seqStats := make([]*stats, len(seqs))
	errs := make([]error, len(seqs))
	var wg sync.WaitGroup
	for k, obs := range seqs {
		wg.Add(1)
		go func(k int, obs []float64) {
			defer wg.Done()
			s := newStats(p.N, tr.opts.updateOP)
			errs[k] = tr.accumulate(p, obs, s)
			seqStats[k] = s
		}(k, obs)
	}
	wg.Wait()
	for k, s := range seqStats {
		if errs[k] != nil {
			return nil, 0, fmt.Errorf("sequence [%d]: %w", k, errs[k])
		}
		total.merge(s)
	}

	next, err := total.estimate(p, tr.opts)
	return next, total.logProb, err
}

func (tr *Trainer) accumulate(p *Params, obs []float64, s *stats) error {

	post, err := tr.engine.ForwardBackward(p, obs)
	if err != nil {
		return err
	}
	return s.accumulate(p, obs, likelihoods(tr.opts.emitter, p, obs), post)
}
