package source

import (
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stream = `{"id": "a", "returns": [0.01, -0.02, 0.03]}
{"id": "b", "prices": [100, 110, 121]}
{"id": "c", "prices": [100, 110], "log": true}
`

func TestReader(t *testing.T) {

	rd := NewReader(strings.NewReader(stream))
	obs, err := rd.Generate(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.02, 0.03}, obs)

	obs, err = rd.Generate(2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.1}, obs, 1e-12)

	_, err = rd.Generate(5)
	assert.Error(t, err)

	_, err = rd.Generate(1)
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, rd.Close())
}

func TestReaderReadAll(t *testing.T) {

	ids, seqs, err := NewReader(strings.NewReader(stream)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	require.Len(t, seqs, 3)
	assert.InDelta(t, math.Log(1.1), seqs[2][0], 1e-12)

	_, _, err = NewReader(strings.NewReader(`{"id": "x", "prices": [1]}`)).ReadAll()
	assert.Error(t, err)
	_, _, err = NewReader(strings.NewReader(`{"id": `)).ReadAll()
	assert.Error(t, err)
}
