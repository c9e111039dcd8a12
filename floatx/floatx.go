// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package floatx provides helpers for the dense float64 slices used to
// store HMM parameters and forward-backward buffers.
package floatx

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

type Error string

func (err Error) Error() string { return string(err) }

const (
	ErrZeroLength = Error("floatx: zero length in slice definition")
	ErrLength     = Error("floatx: length mismatch")
)

// ApplyFunc transforms the value at index n.
type ApplyFunc func(n int, v float64) float64

var Sqrt = func(n int, v float64) float64 { return math.Sqrt(v) }
var Sq = func(n int, v float64) float64 { return v * v }

func FloorFunc(f float64) ApplyFunc {
	return func(n int, v float64) float64 {
		if v < f {
			return f
		}
		return v
	}
}

// MakeFloat2D allocates an n1 x n2 matrix.
func MakeFloat2D(n1, n2 int) [][]float64 {

	s := make([][]float64, n1)
	for i := 0; i < n1; i++ {
		s[i] = make([]float64, n2)
	}
	return s
}

// Clone returns a copy of s. Returns nil when s is nil.
func Clone(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append([]float64(nil), s...)
}

// Clone2D returns a deep copy of s.
func Clone2D(s [][]float64) [][]float64 {
	if s == nil {
		return nil
	}
	out := make([][]float64, len(s))
	for i, row := range s {
		out[i] = Clone(row)
	}
	return out
}

// Shape returns the dimensions of s. ok is false when s is empty or
// rows have different lengths.
func Shape(s [][]float64) (rows, cols int, ok bool) {

	rows = len(s)
	if rows == 0 {
		return 0, 0, false
	}
	cols = len(s[0])
	for _, row := range s {
		if len(row) != cols {
			return rows, cols, false
		}
	}
	return rows, cols, cols > 0
}

// Apply function to 1D slice. If out slice is empty, the function is applied in place.
func Apply(fn ApplyFunc, in, out []float64) []float64 {

	n := len(in)
	if n == 0 {
		panic(ErrZeroLength)
	}
	if len(out) == 0 {
		out = in
	}
	if len(out) != n {
		panic(ErrLength)
	}
	for i := 0; i < n; i++ {
		out[i] = fn(i, in[i])
	}
	return out
}

// AbsSum returns the sum of absolute values.
func AbsSum(s []float64) float64 {
	var sum float64
	for _, v := range s {
		sum += math.Abs(v)
	}
	return sum
}

// Normalize scales s in place so that it sums to one and returns the
// original sum. s is left untouched when the sum is zero or not finite.
func Normalize(s []float64) float64 {

	sum := floats.Sum(s)
	if sum == 0 || !IsFinite(sum) {
		return sum
	}
	floats.Scale(1/sum, s)
	return sum
}

// IsFinite returns true if no value is NaN or infinite.
func IsFinite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// SumsToOne returns true if s is finite and its sum is within tol of one.
func SumsToOne(s []float64, tol float64) bool {
	if len(s) == 0 || !IsFinite(s...) {
		return false
	}
	return scalar.EqualWithinAbs(floats.Sum(s), 1, tol)
}
