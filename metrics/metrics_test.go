package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/akualab/regime/model"
	"github.com/akualab/regime/model/hmm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {

	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "regime")

	c.Iteration(0, -12.5)
	c.Iteration(1, -10)
	c.Done(2, 3*time.Millisecond)
	c.Failure(fmt.Errorf("iteration 3: %w", hmm.ErrStateCollapse))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.iterations.WithLabelValues("default")))
	assert.Equal(t, -10.0, testutil.ToFloat64(c.logProb.WithLabelValues("default")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues("default", "state_collapse")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))

	other := c.For("spy")
	other.Iteration(0, -1)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.iterations.WithLabelValues("spy")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.iterations.WithLabelValues("default")))
}

func TestKind(t *testing.T) {

	assert.Equal(t, "division_by_zero", Kind(fmt.Errorf("x: %w", hmm.ErrDivisionByZero)))
	assert.Equal(t, "empty_sequence", Kind(hmm.ErrEmptySequence))
	assert.Equal(t, "invalid_model", Kind(hmm.ErrInvalidModel))
	assert.Equal(t, "other", Kind(errors.New("boom")))
}

func TestTrainerMonitor(t *testing.T) {

	p, err := hmm.NewParams(
		[][]float64{{0.9, 0.1}, {0.2, 0.8}},
		[]float64{0.5, 0.5},
		model.Emission{Means: []float64{0.005, 0.002}},
	)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "regime")
	_, err = hmm.NewTrainer(hmm.WithMonitor(c)).Train(p, make([]float64, 50), 4)
	require.NoError(t, err)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.iterations.WithLabelValues("default")))
	n, err := testutil.GatherAndCount(reg, "regime_training_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
