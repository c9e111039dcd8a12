// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regime

import "github.com/akualab/regime/model/hmm"

// Result of a detector run.
type Result struct {
	// Observations used for training and inference.
	Obs []float64 `json:"obs"`
	// One label in [0, N-1] per observation.
	Labels []int `json:"labels"`
	// Regime names for the labels.
	Names []string `json:"names"`
	// Trained parameters.
	Params *hmm.Params `json:"-"`
}

// Counts returns the number of observations per label.
func (r *Result) Counts(n int) []int {

	counts := make([]int, n)
	for _, l := range r.Labels {
		if l >= 0 && l < n {
			counts[l]++
		}
	}
	return counts
}
