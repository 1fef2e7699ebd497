package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/infiniopt/internal/interval"
)

func TestSingleMeasureData_SupportRange(t *testing.T) {
	d := SingleMeasureData{
		Parameter:    1,
		Coefficients: []float64{0.5, 0.5, 0.5},
		Supports:     []float64{3, 0, 10},
	}

	span, ok := d.SupportRange(1)
	require.True(t, ok)
	assert.Equal(t, interval.Interval{Lower: 0, Upper: 10}, span)

	_, ok = d.SupportRange(2)
	assert.False(t, ok)
}

func TestMultiMeasureData_SupportRange(t *testing.T) {
	d := MultiMeasureData{
		Parameters:   []int64{1, 2},
		Coefficients: []float64{1, 1},
		SupportRows:  [][]float64{{0, 5}, {2, 7}},
	}

	span, ok := d.SupportRange(2)
	require.True(t, ok)
	assert.Equal(t, interval.Interval{Lower: 5, Upper: 7}, span)

	_, ok = d.SupportRange(9)
	assert.False(t, ok)
}

func TestMeasureData_ParameterIndexes(t *testing.T) {
	single := SingleMeasureData{Parameter: 4}
	assert.Equal(t, []int64{4}, single.ParameterIndexes())

	multi := MultiMeasureData{Parameters: []int64{1, 2}}
	idx := multi.ParameterIndexes()
	assert.Equal(t, []int64{1, 2}, idx)

	// Returned slice must be a copy.
	idx[0] = 99
	assert.Equal(t, int64(1), multi.Parameters[0])
}
