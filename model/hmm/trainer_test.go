package hmm

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/akualab/regime/model"
	"github.com/akualab/regime/model/gaussian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	logProbs []float64
	failures []error
	done     int
}

func (r *recorder) Iteration(n int, logProb float64) { r.logProbs = append(r.logProbs, logProb) }
func (r *recorder) Failure(err error)                { r.failures = append(r.failures, err) }
func (r *recorder) Done(n int, _ time.Duration)      { r.done = n }

func TestTrainZeroIterations(t *testing.T) {

	p := baselineParams(t)
	out, err := NewTrainer().Train(p, synthetic(100, 1), 0)
	require.NoError(t, err)
	assert.Same(t, p, out)

	_, err = NewTrainer().Train(p, synthetic(100, 1), -1)
	assert.True(t, errors.Is(err, ErrInvalidModel))
}

func TestTrainOneIteration(t *testing.T) {

	p := baselineParams(t)
	obs := synthetic(100, model.DefaultSeed)

	post, err := NewEngine().ForwardBackward(p, obs)
	require.NoError(t, err)

	out, err := NewTrainer().Train(p, obs, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, post.Gamma[0], out.Init, eps)
	assertStochastic(t, out)
}

func TestTrainCollapse(t *testing.T) {

	p := collapsingParams(t)
	rec := &recorder{}
	out, err := NewTrainer(WithMonitor(rec)).Train(p, synthetic(100, model.DefaultSeed), 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStateCollapse), "got %v", err)
	assert.Same(t, p, out)
	assert.Len(t, rec.failures, 1)
	assert.Empty(t, rec.logProbs)
}

func TestTrainEmptySequence(t *testing.T) {

	_, err := NewTrainer().Train(baselineParams(t), nil, 3)
	assert.True(t, errors.Is(err, ErrEmptySequence))
}

func TestTrainGaussian(t *testing.T) {

	gen, err := NewGenerator(separatedParams(t), model.DefaultSeed)
	require.NoError(t, err)
	obs, _, err := gen.Next(3000)
	require.NoError(t, err)

	start, err := NewParams(
		[][]float64{{0.6, 0.4}, {0.4, 0.6}},
		[]float64{0.5, 0.5},
		model.Emission{Means: []float64{-1, 3}, StdDevs: []float64{2, 2}},
	)
	require.NoError(t, err)

	rec := &recorder{}
	tr := NewTrainer(Emitter(gaussian.Emitter{}), UpdateOP(true), WithMonitor(rec))
	out, err := tr.Train(start, obs, 30)
	require.NoError(t, err)

	assert.Len(t, rec.logProbs, 30)
	assert.Equal(t, 30, rec.done)
	for i := 1; i < len(rec.logProbs); i++ {
		assert.GreaterOrEqual(t, rec.logProbs[i], rec.logProbs[i-1]-1e-6, "iteration %d", i)
	}

	assert.InDelta(t, 0, out.Emission.Means[0], 0.15)
	assert.InDelta(t, 8, out.Emission.Means[1], 0.15)
	assert.InDelta(t, 1, out.Emission.StdDevs[0], 0.15)
	assert.InDelta(t, 1.5, out.Emission.StdDevs[1], 0.15)
	assert.InDelta(t, 0.9, out.Trans[0][0], 0.05)
	assert.InDelta(t, 0.8, out.Trans[1][1], 0.05)
	assertStochastic(t, out)
}

func TestTrainTolerance(t *testing.T) {

	p := separatedParams(t)
	gen, err := NewGenerator(p, model.DefaultSeed)
	require.NoError(t, err)
	obs, _, err := gen.Next(500)
	require.NoError(t, err)

	rec := &recorder{}
	tr := NewTrainer(Emitter(gaussian.Emitter{}), UpdateOP(true), Tolerance(1e-3), WithMonitor(rec))
	_, err = tr.Train(p, obs, 1000)
	require.NoError(t, err)
	assert.Less(t, len(rec.logProbs), 1000)
	assert.Equal(t, len(rec.logProbs), rec.done)
}

func TestTrainBatch(t *testing.T) {

	p := gaussianParams(t)
	gen, err := NewGenerator(p, model.DefaultSeed)
	require.NoError(t, err)
	obs, _, err := gen.Next(300)
	require.NoError(t, err)

	start, err := NewParams(
		[][]float64{{0.5, 0.5}, {0.5, 0.5}},
		[]float64{0.6, 0.4},
		model.Emission{Means: []float64{0, 3}, StdDevs: []float64{1.5, 1.5}},
	)
	require.NoError(t, err)

	tr := NewTrainer(Emitter(gaussian.Emitter{}), UpdateOP(true))
	single, err := tr.Train(start, obs, 5)
	require.NoError(t, err)

	// Duplicated sequences double every count and leave the estimates unchanged.
	batch, err := tr.TrainBatch(start, [][]float64{obs, obs, obs}, 5)
	require.NoError(t, err)

	assert.InDeltaSlice(t, single.Init, batch.Init, 1e-9)
	for i := range single.Trans {
		assert.InDeltaSlice(t, single.Trans[i], batch.Trans[i], 1e-9)
	}
	assert.InDeltaSlice(t, single.Emission.Means, batch.Emission.Means, 1e-9)
	assert.InDeltaSlice(t, single.Emission.StdDevs, batch.Emission.StdDevs, 1e-9)
}

func TestTrainBatchErrors(t *testing.T) {

	p := baselineParams(t)
	_, err := NewTrainer().TrainBatch(p, nil, 1)
	assert.True(t, errors.Is(err, ErrEmptySequence))
	_, err = NewTrainer().TrainBatch(p, [][]float64{{1, 2}, {}}, 1)
	assert.True(t, errors.Is(err, ErrEmptySequence))

	zero, err := NewParams(
		[][]float64{{0.9, 0.1}, {0.2, 0.8}},
		[]float64{0.5, 0.5},
		model.Emission{Means: []float64{0, 0}},
	)
	require.NoError(t, err)
	out, err := NewTrainer().TrainBatch(zero, [][]float64{{1, 2}, {3, 4}}, 2)
	assert.True(t, errors.Is(err, ErrDivisionByZero), "got %v", err)
	assert.Same(t, zero, out)
}

func TestTrainBatchDeterministic(t *testing.T) {

	p := gaussianParams(t)
	var seqs [][]float64
	for k := int64(0); k < 4; k++ {
		gen, err := NewGenerator(p, model.DefaultSeed+k)
		require.NoError(t, err)
		obs, _, err := gen.Next(200)
		require.NoError(t, err)
		seqs = append(seqs, obs)
	}

	tr := NewTrainer(Emitter(gaussian.Emitter{}), UpdateOP(true))
	first, err := tr.TrainBatch(p, seqs, 3)
	require.NoError(t, err)
	for run := 0; run < 5; run++ {
		again, err := tr.TrainBatch(p, seqs, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again, "run %d", run)
	}

	// Observations far from both means have zero likelihood. The lowest
	// failing sequence is reported.
	bad := [][]float64{seqs[0], {1e6}, {1, 1e6}}
	for run := 0; run < 5; run++ {
		_, err = tr.TrainBatch(p, bad, 1)
		require.True(t, errors.Is(err, ErrDivisionByZero), "got %v", err)
		assert.True(t, strings.Contains(err.Error(), "sequence [1]"), "got %v", err)
	}
}
