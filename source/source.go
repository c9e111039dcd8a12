// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package source provides observation sequences for regime detection.

All sources implement

	Generate(count int) ([]float64, error)

Synthetic and HMM also keep the hidden regime of the last generated
sequence, which is useful to evaluate a detector.
*/
package source

import (
	"fmt"
	"math/rand"

	"github.com/akualab/regime/model"
	"github.com/akualab/regime/model/hmm"
	"github.com/akualab/regime/series"
	"github.com/golang/glog"
)

// Regime labels used by Synthetic.
const (
	Bear = 0
	Bull = 1
)

// DefaultRegimeLength is the number of observations between regime switches.
const DefaultRegimeLength = 50

// Regime is a normal return distribution.
type Regime struct {
	Mean   float64 `yaml:"mean" json:"mean"`
	StdDev float64 `yaml:"std_dev" json:"std_dev" validate:"gt=0"`
}

var (
	// DefaultBull has positive mean returns and low volatility.
	DefaultBull = Regime{Mean: 0.005, StdDev: 0.01}
	// DefaultBear has negative mean returns and higher volatility.
	DefaultBear = Regime{Mean: -0.005, StdDev: 0.02}
)

// Synthetic generates returns that alternate between a bear and a bull
// regime every RegimeLength observations, starting with bear.
type Synthetic struct {
	bull, bear Regime
	length     int
	r          *rand.Rand
	states     []int
}

// NewSynthetic creates a synthetic source.
func NewSynthetic(bull, bear Regime, regimeLength int, seed int64) (*Synthetic, error) {

	if regimeLength < 1 {
		return nil, fmt.Errorf("regime length must be positive, got %d", regimeLength)
	}
	if !(bull.StdDev > 0) || !(bear.StdDev > 0) {
		return nil, fmt.Errorf("regime std devs must be positive, got bull %v bear %v", bull.StdDev, bear.StdDev)
	}
	return &Synthetic{
		bull:   bull,
		bear:   bear,
		length: regimeLength,
		r:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Generate returns count returns. Every call restarts the regime schedule.
func (s *Synthetic) Generate(count int) ([]float64, error) {

	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	obs := make([]float64, count)
	s.states = make([]int, count)
	for t := range obs {
		state, reg := Bear, s.bear
		if (t/s.length)%2 == 1 {
			state, reg = Bull, s.bull
		}
		s.states[t] = state
		obs[t] = model.RandNormal(reg.Mean, reg.StdDev, s.r)
	}
	glog.V(2).Infof("synthetic: generated %d returns, regime length %d", count, s.length)
	return obs, nil
}

// States returns the regimes of the last generated sequence.
func (s *Synthetic) States() []int { return s.states }

// HMM samples observations from an hmm.
type HMM struct {
	gen    *hmm.Generator
	states []int
}

// NewHMM creates a source that samples from p.
func NewHMM(p *hmm.Params, seed int64) (*HMM, error) {

	gen, err := hmm.NewGenerator(p, seed)
	if err != nil {
		return nil, err
	}
	return &HMM{gen: gen}, nil
}

// Generate samples a sequence of length count.
func (h *HMM) Generate(count int) ([]float64, error) {

	obs, states, err := h.gen.Next(count)
	if err != nil {
		return nil, err
	}
	h.states = states
	return obs, nil
}

// States returns the hidden states of the last generated sequence.
func (h *HMM) States() []int { return h.states }

// Prices turns a price series into returns.
type Prices struct {
	returns []float64
}

// NewPrices computes returns from prices. Log returns are used when logReturns
// is true. Returns whose z-score is not below outlierZ are dropped; zero
// disables the filter.
func NewPrices(prices []float64, logReturns bool, outlierZ float64) (*Prices, error) {

	var r []float64
	var err error
	if logReturns {
		r, err = series.LogReturns(prices)
	} else {
		r, err = series.Returns(prices)
	}
	if err != nil {
		return nil, err
	}
	if outlierZ > 0 {
		n := len(r)
		r = series.DropOutliers(r, outlierZ)
		if dropped := n - len(r); dropped > 0 {
			glog.Warningf("prices: dropped %d outliers out of %d returns", dropped, n)
		}
	}
	return &Prices{returns: r}, nil
}

// Len returns the number of available returns.
func (p *Prices) Len() int { return len(p.returns) }

// Generate returns the most recent count returns.
func (p *Prices) Generate(count int) ([]float64, error) {

	if count <= 0 || count > len(p.returns) {
		return nil, fmt.Errorf("count must be in [1, %d], got %d", len(p.returns), count)
	}
	out := make([]float64, count)
	copy(out, p.returns[len(p.returns)-count:])
	return out, nil
}
