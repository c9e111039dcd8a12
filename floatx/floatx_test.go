package floatx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {

	r, c, ok := Shape([][]float64{{11, 22}, {33, 44}, {55, 66}})
	assert.True(t, ok)
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)

	_, _, ok = Shape([][]float64{{1, 2}, {3}})
	assert.False(t, ok, "ragged matrix")

	_, _, ok = Shape(nil)
	assert.False(t, ok, "empty matrix")
}

func TestNormalize(t *testing.T) {

	s := []float64{1, 3}
	sum := Normalize(s)
	assert.Equal(t, 4.0, sum)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, s, 1e-15)

	z := []float64{0, 0}
	assert.Equal(t, 0.0, Normalize(z))
	assert.Equal(t, []float64{0, 0}, z)

	// Signed values keep their signs.
	n := []float64{1.5, -0.5}
	Normalize(n)
	assert.InDeltaSlice(t, []float64{1.5, -0.5}, n, 1e-15)
}

func TestSumsToOne(t *testing.T) {

	assert.True(t, SumsToOne([]float64{0.9, 0.1}, 1e-9))
	assert.False(t, SumsToOne([]float64{0.9, 0.2}, 1e-9))
	assert.True(t, SumsToOne([]float64{0.5, 0.5 + 1e-12}, 1e-9))
	assert.False(t, SumsToOne([]float64{0.5, 0.5 + 1e-6}, 1e-9))
	assert.False(t, SumsToOne([]float64{math.NaN(), 1}, 1e-9))
	assert.False(t, SumsToOne(nil, 1e-9))
}

func TestClone2D(t *testing.T) {

	s := [][]float64{{1, 2}, {3, 4}}
	c := Clone2D(s)
	c[0][0] = 100
	assert.Equal(t, 1.0, s[0][0])
	assert.Nil(t, Clone2D(nil))
}

func TestApply(t *testing.T) {

	out := make([]float64, 3)
	Apply(Sq, []float64{1, 2, 3}, out)
	assert.Equal(t, []float64{1, 4, 9}, out)

	in := []float64{0.5, 2}
	Apply(FloorFunc(1), in, nil)
	assert.Equal(t, []float64{1, 2}, in)

	require.Panics(t, func() { Apply(Sq, nil, nil) })
	require.Panics(t, func() { Apply(Sq, []float64{1, 2}, []float64{1}) })
}

func TestIsFinite(t *testing.T) {

	assert.True(t, IsFinite(1, 2, 3))
	assert.False(t, IsFinite(1, math.Inf(-1)))
	assert.Equal(t, 3.0, AbsSum([]float64{1, -2}))
}
