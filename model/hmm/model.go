// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hmm provides forward-backward estimation, Baum-Welch style
re-estimation and regime decoding for hidden Markov models over a
univariate observation sequence.

The output distribution is pluggable through model.Emitter. The default,
model.Mean, treats the per-state mean as the emission likelihood; use
gaussian.Emitter for a proper density.

Engine, Reestimator, Trainer and Inferrer are configured with the same
Option values:

	tr := hmm.NewTrainer(hmm.Emitter(gaussian.Emitter{}), hmm.UpdateOP(true))
	trained, err := tr.Train(params, obs, 20)
	labels, err := hmm.NewInferrer(hmm.Decode(hmm.ModeViterbi)).Infer(trained, obs)
*/
package hmm

import (
	"fmt"
	"strconv"
	"time"

	"github.com/akualab/regime/model"
)

// ScaleMode selects how the forward and backward variables are scaled.
type ScaleMode int

const (
	// ScalePerStep divides α(t) by c(t) = sum_i |α(i,t)| and β(t) by c(t+1).
	ScalePerStep ScaleMode = iota
	// ScaleNone keeps raw products. Underflows for long sequences.
	ScaleNone
)

func (m ScaleMode) String() string {
	switch m {
	case ScalePerStep:
		return "scaled"
	case ScaleNone:
		return "none"
	}
	return "unknown(" + strconv.Itoa(int(m)) + ")"
}

// ParseScaleMode parses "scaled" or "none".
func ParseScaleMode(s string) (ScaleMode, error) {
	for _, m := range []ScaleMode{ScalePerStep, ScaleNone} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown scaling [%s]", s)
}

// CollapsePolicy decides what re-estimation does with a state that has
// zero expected occupancy.
type CollapsePolicy int

const (
	// CollapseFail aborts with ErrStateCollapse.
	CollapseFail CollapsePolicy = iota
	// CollapseRetain keeps the previous parameters for that state.
	CollapseRetain
)

func (c CollapsePolicy) String() string {
	switch c {
	case CollapseFail:
		return "fail"
	case CollapseRetain:
		return "retain"
	}
	return "unknown(" + strconv.Itoa(int(c)) + ")"
}

// ParseCollapsePolicy parses "fail" or "retain".
func ParseCollapsePolicy(s string) (CollapsePolicy, error) {
	for _, c := range []CollapsePolicy{CollapseFail, CollapseRetain} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown collapse policy [%s]", s)
}

// Mode selects the decoding algorithm used by Inferrer.
type Mode int

const (
	// ModeBaseline labels every t with argmax_i π(i) mean(i). The result is
	// the same label for every observation.
	ModeBaseline Mode = iota
	// ModeViterbi returns the most likely state path.
	ModeViterbi
	// ModePosterior labels each t with argmax_i γ(i,t).
	ModePosterior
)

func (m Mode) String() string {
	switch m {
	case ModeBaseline:
		return "baseline"
	case ModeViterbi:
		return "viterbi"
	case ModePosterior:
		return "posterior"
	}
	return "unknown(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode parses "baseline", "viterbi" or "posterior".
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeBaseline, ModeViterbi, ModePosterior} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown decoding mode [%s]", s)
}

// Monitor receives training progress.
type Monitor interface {
	// Iteration is called after each completed iteration with the log
	// probability of the sequence under the parameters used in that iteration.
	Iteration(n int, logProb float64)
	// Failure is called when training aborts.
	Failure(err error)
	// Done is called when training ends without error.
	Done(iterations int, elapsed time.Duration)
}

type nopMonitor struct{}

func (nopMonitor) Iteration(int, float64)  {}
func (nopMonitor) Failure(error)           {}
func (nopMonitor) Done(int, time.Duration) {}

type options struct {
	emitter   model.Emitter
	scaling   ScaleMode
	updateTP  bool
	updateIP  bool
	updateOP  bool
	collapse  CollapsePolicy
	tolerance float64
	mode      Mode
	monitor   Monitor
}

func newOptions(opts []Option) options {

	o := options{
		emitter:  model.Mean{},
		scaling:  ScalePerStep,
		updateTP: true,
		updateIP: true,
		collapse: CollapseFail,
		mode:     ModeBaseline,
		monitor:  nopMonitor{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option type is used to configure engines, re-estimators, trainers and inferrers.
type Option func(*options)

// Emitter sets the emission likelihood. Default is model.Mean.
func Emitter(e model.Emitter) Option {
	return func(o *options) { o.emitter = e }
}

// Scaling sets the scaling of the forward-backward variables.
// Default is ScalePerStep.
func Scaling(m ScaleMode) Option {
	return func(o *options) { o.scaling = m }
}

// UpdateTP option to update state transition probabilities.
// Default is true.
func UpdateTP(flag bool) Option {
	return func(o *options) { o.updateTP = flag }
}

// UpdateIP option to update initial state probabilities.
// Default is true.
func UpdateIP(flag bool) Option {
	return func(o *options) { o.updateIP = flag }
}

// UpdateOP option to update the output (emission) parameters.
// Default is false.
func UpdateOP(flag bool) Option {
	return func(o *options) { o.updateOP = flag }
}

// OnCollapse sets the collapsed state policy. Default is CollapseFail.
func OnCollapse(p CollapsePolicy) Option {
	return func(o *options) { o.collapse = p }
}

// Tolerance stops training early once the log probability changes by
// less than tol between iterations. Zero disables the check (default).
func Tolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

// Decode sets the decoding mode used by Inferrer. Default is ModeBaseline.
func Decode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithMonitor sets a training monitor.
func WithMonitor(m Monitor) Option {
	return func(o *options) {
		if m == nil {
			m = nopMonitor{}
		}
		o.monitor = m
	}
}
