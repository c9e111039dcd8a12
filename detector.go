// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package regime detects market regimes in a return series with a hidden
Markov model.

A Detector trains the model configured in Config on observations from a
Source, infers one regime label per observation and reports the labels
to a Sink:

	cfg, err := regime.ReadConfig("regime.yaml")
	det, err := regime.NewDetector(cfg)
	src, err := cfg.NewSource()
	sink := &regime.SliceSink{}
	res, err := det.Run(src, cfg.Source.Count, sink)
*/
package regime

import (
	"fmt"

	"github.com/akualab/regime/model/hmm"
	"github.com/golang/glog"
)

// Source produces an observation sequence.
type Source interface {
	Generate(count int) ([]float64, error)
}

// Sink consumes a label sequence.
type Sink interface {
	Report(labels []int) error
}

// SliceSink collects reported labels.
type SliceSink struct {
	Labels [][]int
}

// Report implements Sink.
func (s *SliceSink) Report(labels []int) error {
	s.Labels = append(s.Labels, append([]int(nil), labels...))
	return nil
}

// Last returns the most recently reported labels.
func (s *SliceSink) Last() []int {
	if len(s.Labels) == 0 {
		return nil
	}
	return s.Labels[len(s.Labels)-1]
}

// Detector trains an HMM and labels observations with regimes.
type Detector struct {
	params     *hmm.Params
	iterations int
	trainer    *hmm.Trainer
	inferrer   *hmm.Inferrer
	assigner   hmm.Assigner
}

// NewDetector creates a detector from a validated config. Options are
// appended to those derived from cfg, for example hmm.WithMonitor.
func NewDetector(cfg *Config, options ...hmm.Option) (*Detector, error) {

	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, options...)

	var assigner hmm.Assigner = hmm.DirectAssigner{}
	if len(cfg.Model.States) == p.N {
		assigner = hmm.MapAssigner(cfg.Model.States)
	}

	d := &Detector{
		params:     p,
		iterations: cfg.Training.Iterations,
		trainer:    hmm.NewTrainer(opts...),
		inferrer:   hmm.NewInferrer(opts...),
		assigner:   assigner,
	}
	glog.Infof("new detector: num states: %d, emission: %s, iterations: %d, mode: %s",
		p.N, cfg.Model.Emission, d.iterations, d.inferrer.Mode())
	return d, nil
}

// Params returns the initial parameters.
func (d *Detector) Params() *hmm.Params { return d.params }

// Detect trains on obs starting from the initial parameters and labels obs.
func (d *Detector) Detect(obs []float64) (*Result, error) {

	trained, err := d.trainer.Train(d.params, obs, d.iterations)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}
	labels, err := d.inferrer.Infer(trained, obs)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	if err := checkLabels(labels, len(obs), trained.N); err != nil {
		return nil, err
	}
	return &Result{
		Obs:    obs,
		Labels: labels,
		Names:  d.assigner.Assign(labels),
		Params: trained,
	}, nil
}

// Run generates count observations from src, detects regimes and reports
// the labels to sink.
func (d *Detector) Run(src Source, count int, sink Sink) (*Result, error) {

	obs, err := src.Generate(count)
	if err != nil {
		return nil, fmt.Errorf("source failed: %w", err)
	}
	glog.V(1).Infof("run: got %d observations", len(obs))

	res, err := d.Detect(obs)
	if err != nil {
		glog.Errorf("detector failed: %v", err)
		return nil, err
	}
	if err := sink.Report(res.Labels); err != nil {
		return nil, fmt.Errorf("sink failed: %w", err)
	}
	return res, nil
}

// DetectBatch trains one model on all sequences and labels each of them.
func (d *Detector) DetectBatch(seqs [][]float64) ([]*Result, error) {

	trained, err := d.trainer.TrainBatch(d.params, seqs, d.iterations)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}
	results := make([]*Result, len(seqs))
	for k, obs := range seqs {
		labels, err := d.inferrer.Infer(trained, obs)
		if err != nil {
			return nil, fmt.Errorf("inference failed on sequence [%d]: %w", k, err)
		}
		if err := checkLabels(labels, len(obs), trained.N); err != nil {
			return nil, fmt.Errorf("sequence [%d]: %w", k, err)
		}
		results[k] = &Result{
			Obs:    obs,
			Labels: labels,
			Names:  d.assigner.Assign(labels),
			Params: trained,
		}
	}
	return results, nil
}

func checkLabels(labels []int, T, N int) error {

	if len(labels) != T {
		return fmt.Errorf("got %d labels for %d observations", len(labels), T)
	}
	for t, l := range labels {
		if l < 0 || l >= N {
			return fmt.Errorf("label [%d] at t=%d is out of range [0, %d]", l, t, N-1)
		}
	}
	return nil
}
