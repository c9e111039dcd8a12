// Copyright (c) 2015 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import "strconv"

// Assigner assigns a sequence of regime names to a sequence of state labels.
// This interface hides the details of how the assignment is done. For example,
// a trivial assigner uses the state index:
//
//   Input labels: []int{0, 0, 1}
//   Output names: []string{"0", "0", "1"}
//
// or it may use a table of regime names:
//
//   Input labels: []int{0, 0, 1}
//   Output names: []string{"bull", "bull", "bear"}
//
type Assigner interface {
	Assign(labels []int) (names []string)
}

// DirectAssigner implements the Assigner interface.
// Names are the decimal state indices.
type DirectAssigner struct{}

// Assign returns a sequence of names.
func (a DirectAssigner) Assign(labels []int) []string {

	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = strconv.Itoa(l)
	}
	return names
}

// MapAssigner implements the Assigner interface.
// Labels index into the table. Labels outside the table fall back to the
// state index.
type MapAssigner []string

// Assign returns a sequence of names.
func (a MapAssigner) Assign(labels []int) []string {

	names := make([]string, len(labels))
	for i, l := range labels {
		if l >= 0 && l < len(a) {
			names[i] = a[l]
			continue
		}
		names[i] = strconv.Itoa(l)
	}
	return names
}
