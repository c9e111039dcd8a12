// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

// Error is the type of the failure conditions raised by this package.
// Returned errors wrap one of the constants below; use errors.Is to test.
type Error string

func (err Error) Error() string { return string(err) }

const (
	// ErrInvalidModel: dimension mismatch between transition matrix, emission
	// parameters and initial probabilities, fewer than two states, or values
	// that are not a valid distribution.
	ErrInvalidModel = Error("hmm: invalid model")

	// ErrDivisionByZero: all states have zero joint probability at some t.
	ErrDivisionByZero = Error("hmm: division by zero")

	// ErrStateCollapse: a state has zero expected occupancy, so its
	// transition row (or emission) cannot be re-estimated.
	ErrStateCollapse = Error("hmm: state collapse")

	// ErrEmptySequence: the observation sequence has zero length.
	ErrEmptySequence = Error("hmm: empty observation sequence")
)
