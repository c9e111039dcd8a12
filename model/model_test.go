package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanEmitter(t *testing.T) {

	em := Emission{Means: []float64{0.005, -0.005}}
	var e Emitter = Mean{}

	require.NoError(t, e.Validate(em))
	assert.Equal(t, "mean", e.Name())

	// Observation values are ignored.
	for _, x := range []float64{-1, 0, 0.3, 100} {
		assert.Equal(t, 0.005, e.Prob(em, 0, x))
		assert.Equal(t, -0.005, e.Prob(em, 1, x))
	}
	assert.Error(t, e.Validate(Emission{}))
}

func TestEmissionCheck(t *testing.T) {

	em := Emission{Means: []float64{1, 2}, StdDevs: []float64{1, 1}}
	assert.Equal(t, 2, em.NumStates())
	assert.NoError(t, em.Check(2))
	assert.Error(t, em.Check(3))
	assert.Error(t, Emission{Means: []float64{1, 2}, StdDevs: []float64{1}}.Check(2))
	assert.NoError(t, Emission{Means: []float64{1, 2}}.Check(2))

	c := em.Clone()
	c.Means[0] = 10
	c.StdDevs[0] = 10
	assert.Equal(t, 1.0, em.Means[0])
	assert.Equal(t, 1.0, em.StdDevs[0])
	assert.Nil(t, Emission{Means: []float64{1}}.Clone().StdDevs)
}

func TestRandIntFromDist(t *testing.T) {
	dist := []float64{0.5, 0.5}
	freq := []int{0, 0}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		n, err := RandIntFromDist(dist, r)
		require.NoError(t, err)
		freq[n]++
	}
	ratio := float64(freq[0]) / 5000.0
	assert.InDelta(t, 0.5, ratio, 0.05)

	_, err := RandIntFromDist(nil, r)
	assert.Error(t, err)
	_, err = RandIntFromDist([]float64{0.1, 0.1}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)

	// Rounding short of one is tolerated; the last index absorbs the gap.
	short := []float64{0.5, 0.4995}
	for i := 0; i < 10000; i++ {
		n, err := RandIntFromDist(short, r)
		require.NoError(t, err)
		assert.True(t, n == 0 || n == 1)
	}
}
