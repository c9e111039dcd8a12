// Copyright (c) 2015 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testLabels = []int{0, 0, 1, 1, 0}

func TestAssigner(t *testing.T) {

	var a Assigner = DirectAssigner{}
	assert.Equal(t, []string{"0", "0", "1", "1", "0"}, a.Assign(testLabels))

	a = MapAssigner{"bull", "bear"}
	assert.Equal(t, []string{"bull", "bull", "bear", "bear", "bull"}, a.Assign(testLabels))

	a = MapAssigner{"bull"}
	assert.Equal(t, []string{"bull", "bull", "1", "1", "bull"}, a.Assign(testLabels))
	assert.Empty(t, a.Assign(nil))
}
