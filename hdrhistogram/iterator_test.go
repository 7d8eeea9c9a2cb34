package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordedIteratorOnlyVisitsNonZeroEntries(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 100000, 3)
	require.NoError(t, err)
	require.True(t, h.RecordN(10, 2))
	require.True(t, h.RecordN(5000, 3))

	it := h.RecordedValues()
	var total int64
	seen := 0
	for it.Next() {
		seen++
		total += it.CountAtValueIteratedTo()
	}
	assert.Equal(t, 2, seen)
	assert.EqualValues(t, 5, total)
}

func TestAllIteratorCoversWholeRangeAndAggregatesTotalCount(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 100000, 3)
	require.NoError(t, err)
	require.True(t, h.RecordN(10, 2))
	require.True(t, h.RecordN(5000, 3))

	it := h.AllValues()
	var total int64
	entries := 0
	for it.Next() {
		entries++
		total += it.CountAtValueIteratedTo()
	}
	assert.EqualValues(t, 5, total)
	assert.EqualValues(t, int(h.CountsLen()), entries)
}

func TestLinearIteratorAggregatesStepsExactly(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 255, 2)
	require.NoError(t, err)
	for _, v := range []int64{0, 1, 64, 128, 193, 255} {
		require.True(t, h.Record(v))
	}

	it := h.LinearValues(64)
	var total int64
	steps := 0
	for it.Next() {
		steps++
		total += it.CountAddedInThisStep()
	}
	assert.Equal(t, 4, steps)
	assert.EqualValues(t, 6, total)
}

func TestLogarithmicIteratorStepsGrowGeometrically(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)
	for _, v := range []int64{1, 10, 100, 1000, 10000, 100000} {
		require.True(t, h.Record(v))
	}

	it := h.LogarithmicValues(1, 10)
	prevValue := int64(-1)
	var total int64
	for it.Next() {
		assert.Greater(t, it.ValueIteratedTo(), prevValue)
		prevValue = it.ValueIteratedTo()
		total += it.CountAddedInThisStep()
	}
	assert.EqualValues(t, 6, total)
}

func TestPercentileIteratorEndsAt100(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 100000, 3)
	require.NoError(t, err)
	for i := int64(1); i <= 10; i++ {
		require.True(t, h.Record(i * 10))
	}

	it := h.PercentileValues(4)
	var last float64
	var lastCumulative int64
	for it.Next() {
		last = it.Percentile()
		lastCumulative = it.CountToIndex()
	}
	assert.Equal(t, 100.0, last)
	assert.EqualValues(t, h.TotalCount(), lastCumulative)
}
