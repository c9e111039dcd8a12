// Copyright (c) 2015 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regime

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Segment is a maximal run of observations with the same regime.
// Consecutive segments cover the full sequence without gaps.
type Segment struct {
	// Start index (inclusive)
	Start int `json:"s"`
	// End index (exclusive)
	End int `json:"e"`
	// State label.
	State int `json:"state"`
	// Regime name.
	Name string `json:"n,omitempty"`
}

// Len returns the number of observations in the segment.
func (s Segment) Len() int { return s.End - s.Start }

// Segments merges consecutive equal labels. names may be nil; otherwise it
// must be parallel to labels.
func Segments(labels []int, names []string) []Segment {

	if len(labels) == 0 {
		return nil
	}
	name := func(i int) string {
		if i < len(names) {
			return names[i]
		}
		return ""
	}
	seg := Segment{Start: 0, State: labels[0], Name: name(0)}
	var segs []Segment
	for idx, v := range labels {
		if v != seg.State {
			seg.End = idx
			segs = append(segs, seg)
			seg = Segment{Start: idx, State: v, Name: name(idx)}
		}
	}
	seg.End = len(labels)
	return append(segs, seg)
}

// Segments returns the regime segments of the result.
func (r *Result) Segments() []Segment {
	return Segments(r.Labels, r.Names)
}

// Switches returns the number of regime changes in the result.
func (r *Result) Switches() int {
	if n := len(r.Segments()); n > 0 {
		return n - 1
	}
	return 0
}

// SegmentsJSON returns the segments as a json string.
func SegmentsJSON(segs []Segment) (string, error) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(segs); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s Segment) String() string {
	return fmt.Sprintf("[%d,%d) %d %s", s.Start, s.End, s.State, s.Name)
}
