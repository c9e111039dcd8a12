// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"fmt"
	"math/rand"

	"github.com/akualab/regime/model"
)

// Generator samples observation sequences from an HMM. Emissions are
// drawn from N(Means[i], StdDevs[i]^2); a nil StdDevs emits the means.
type Generator struct {
	p *Params
	r *rand.Rand
}

// NewGenerator returns an hmm data generator.
func NewGenerator(p *Params, seed int64) (*Generator, error) {

	if err := p.Check(); err != nil {
		return nil, err
	}
	if err := p.checkNonNegative(); err != nil {
		return nil, err
	}
	return &Generator{
		p: p,
		r: rand.New(rand.NewSource(seed)),
	}, nil
}

// Next returns a sequence of length n and the hidden states that produced it.
func (gen *Generator) Next(n int) (obs []float64, states []int, err error) {

	if n <= 0 {
		return nil, nil, fmt.Errorf("sequence length must be positive, got %d", n)
	}
	obs = make([]float64, n)
	states = make([]int, n)

	s, err := model.RandIntFromDist(gen.p.Init, gen.r)
	if err != nil {
		return nil, nil, err
	}
	for t := 0; t < n; t++ {
		if t > 0 {
			if s, err = model.RandIntFromDist(gen.p.Trans[s], gen.r); err != nil {
				return nil, nil, err
			}
		}
		states[t] = s
		obs[t] = gen.emit(s)
	}
	return obs, states, nil
}

func (gen *Generator) emit(s int) float64 {

	em := gen.p.Emission
	if em.StdDevs == nil {
		return em.Means[s]
	}
	return model.RandNormal(em.Means[s], em.StdDevs[s], gen.r)
}
