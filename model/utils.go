package model

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats/scalar"
)

const distTolerance = 0.001

// RandNormal draws from N(mean, sd^2).
func RandNormal(mean, sd float64, r *rand.Rand) float64 {
	return r.NormFloat64()*sd + mean
}

// RandIntFromDist draws an index given a discrete prob distribution.
// This is not optimal but should work for sampling test data.
func RandIntFromDist(dist []float64, r *rand.Rand) (int, error) {
	N := len(dist)
	if N == 0 {
		return -1, fmt.Errorf("prob distribution has len 0")
	}
	ran := r.Float64()
	cum := 0.0
	for i := 0; i < N; i++ {
		cum = cum + dist[i]
		if ran < cum {
			return i, nil
		}
	}
	if !scalar.EqualWithinAbs(cum, 1.0, distTolerance) {
		return -1, fmt.Errorf("distribution doesn't sum to 1: %f", cum)
	}
	return N - 1, nil
}
