// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package series turns price series into the return series used as HMM
observations.

Functions return new slices and never modify their input. Windowed
functions return a slice of the same length as the input; positions
without a full window are NaN.
*/
package series

import (
	"fmt"
	"math"

	"github.com/akualab/regime/floatx"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultZScore is the outlier threshold used by DropOutliers callers.
const DefaultZScore = 3.0

// Returns computes simple returns r(t) = p(t)/p(t-1) - 1. The result has
// one element less than prices.
func Returns(prices []float64) ([]float64, error) {

	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	r := make([]float64, len(prices)-1)
	for t := 1; t < len(prices); t++ {
		r[t-1] = prices[t]/prices[t-1] - 1
	}
	return r, nil
}

// LogReturns computes r(t) = log(p(t)/p(t-1)). The result has one element
// less than prices.
func LogReturns(prices []float64) ([]float64, error) {

	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	r := make([]float64, len(prices)-1)
	for t := 1; t < len(prices); t++ {
		r[t-1] = math.Log(prices[t] / prices[t-1])
	}
	return r, nil
}

func checkPrices(prices []float64) error {

	if len(prices) < 2 {
		return fmt.Errorf("need at least 2 prices, got %d", len(prices))
	}
	for i, p := range prices {
		if !(p > 0) || math.IsInf(p, 0) {
			return fmt.Errorf("price [%d] must be positive and finite, got %v", i, p)
		}
	}
	return nil
}

// DropNaN returns x without NaN values.
func DropNaN(x []float64) []float64 {

	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// DropOutliers removes the values whose z-score |x - mean| / sd is not
// below z. The input is returned unchanged (as a copy) when it has fewer
// than two values or zero spread.
func DropOutliers(x []float64, z float64) []float64 {

	if len(x) < 2 {
		return floatx.Clone(x)
	}
	mean, sd := stat.MeanStdDev(x, nil)
	if sd == 0 || math.IsNaN(sd) {
		return floatx.Clone(x)
	}
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if math.Abs(v-mean)/sd < z {
			out = append(out, v)
		}
	}
	return out
}

// RollingStdDev computes the sample standard deviation over a trailing
// window of size w.
func RollingStdDev(x []float64, w int) ([]float64, error) {
	return rolling(x, w, func(win []float64) float64 { return stat.StdDev(win, nil) })
}

// MovingAverage computes the mean over a trailing window of size w.
func MovingAverage(x []float64, w int) ([]float64, error) {
	return rolling(x, w, func(win []float64) float64 { return stat.Mean(win, nil) })
}

func rolling(x []float64, w int, fn func([]float64) float64) ([]float64, error) {

	if w < 1 {
		return nil, fmt.Errorf("window must be positive, got %d", w)
	}
	out := make([]float64, len(x))
	for t := range out {
		if t+1 < w {
			out[t] = math.NaN()
			continue
		}
		out[t] = fn(x[t+1-w : t+1])
	}
	return out, nil
}

// Summary describes a return series.
type Summary struct {
	N        int
	Mean     float64
	StdDev   float64
	Min, Max float64
}

// Summarize returns summary statistics of x.
func Summarize(x []float64) (Summary, error) {

	if len(x) == 0 {
		return Summary{}, fmt.Errorf("empty series")
	}
	mean, sd := stat.MeanStdDev(x, nil)
	return Summary{
		N:      len(x),
		Mean:   mean,
		StdDev: sd,
		Min:    floats.Min(x),
		Max:    floats.Max(x),
	}, nil
}
