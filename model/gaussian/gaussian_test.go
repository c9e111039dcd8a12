package gaussian

import (
	"math"
	"math/rand"
	"testing"

	"github.com/akualab/regime/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterProb(t *testing.T) {

	em := model.Emission{Means: []float64{1, 4}, StdDevs: []float64{1, 2}}
	e := Emitter{}
	require.NoError(t, e.Validate(em))

	// N(1; 1, 1) = 1/sqrt(2 pi)
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), e.Prob(em, 0, 1), 1e-12)

	// N(2; 4, 4) = exp(-0.5) / (2 sqrt(2 pi))
	expected := math.Exp(-0.5) / (2 * math.Sqrt(2*math.Pi))
	assert.InDelta(t, expected, e.Prob(em, 1, 2), 1e-12)
}

func TestEmitterValidate(t *testing.T) {

	e := Emitter{}
	assert.Error(t, e.Validate(model.Emission{Means: []float64{1, 2}}))
	assert.Error(t, e.Validate(model.Emission{Means: []float64{1, 2}, StdDevs: []float64{1}}))
	assert.Error(t, e.Validate(model.Emission{Means: []float64{1, 2}, StdDevs: []float64{1, 0}}))
	assert.Error(t, e.Validate(model.Emission{Means: []float64{1, 2}, StdDevs: []float64{1, math.NaN()}}))
}

func TestTrainGaussian(t *testing.T) {

	r := rand.New(rand.NewSource(model.DefaultSeed))
	s := NewStats(2)
	for i := 0; i < 20000; i++ {
		s.Update(0, model.RandNormal(0.5, 1, r), 1)
		s.Update(1, model.RandNormal(-2, 3, r), 0.5)
	}

	prev := model.Emission{Means: []float64{0, 0}, StdDevs: []float64{1, 1}}
	em, collapsed := s.Estimate(prev)
	assert.Empty(t, collapsed)
	assert.InDelta(t, 0.5, em.Means[0], 0.05)
	assert.InDelta(t, -2, em.Means[1], 0.1)
	assert.InDelta(t, 1, em.StdDevs[0], 0.05)
	assert.InDelta(t, 3, em.StdDevs[1], 0.1)

	// prev is not modified.
	assert.Equal(t, []float64{0, 0}, prev.Means)
}

func TestEstimateCollapsedState(t *testing.T) {

	s := NewStats(2)
	s.Update(0, 1, 1)
	s.Update(0, 3, 1)

	em, collapsed := s.Estimate(model.Emission{Means: []float64{7, 8}})
	assert.Equal(t, []int{1}, collapsed)
	assert.Equal(t, []float64{2, 8}, em.Means)
	assert.Nil(t, em.StdDevs)
}

func TestEstimateVarianceFloor(t *testing.T) {

	s := NewStats(1)
	s.Update(0, 2, 1)
	s.Update(0, 2, 1)
	em, _ := s.Estimate(model.Emission{Means: []float64{0}, StdDevs: []float64{1}})
	assert.InDelta(t, SmallSD, em.StdDevs[0], 1e-15)
}

func TestMerge(t *testing.T) {

	a, b := NewStats(2), NewStats(2)
	a.Update(0, 1, 1)
	b.Update(0, 3, 1)
	b.Update(1, 5, 2)
	a.Merge(b)
	assert.Equal(t, []float64{2, 2}, a.NSamples)
	assert.Equal(t, []float64{4, 10}, a.Sumx)
	assert.Equal(t, []float64{10, 50}, a.Sumxsq)
}
