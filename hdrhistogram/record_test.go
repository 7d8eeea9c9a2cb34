package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordN(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 100000, 3)
	require.NoError(t, err)

	assert.False(t, h.RecordN(-1, 1), "negative values are always rejected")
	assert.True(t, h.RecordN(42, 5))
	assert.EqualValues(t, 5, h.TotalCount())
	assert.EqualValues(t, 5, h.CountAtValue(42))
}

func TestRecordCorrectedBackfillsMissingSamples(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)

	ok := h.RecordCorrected(1000, 100)
	require.True(t, ok)

	// one real sample at 1000, plus synthesized samples at 900, 800, ..., 100
	assert.EqualValues(t, 10, h.TotalCount())
}

func TestRecordCorrectedNoOpWhenValueWithinInterval(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)

	require.True(t, h.RecordCorrected(50, 100))
	assert.EqualValues(t, 1, h.TotalCount())
}

func TestRecordCorrectedSucceedsWhenBackfillStaysInRange(t *testing.T) {
	t.Parallel()

	h, err := Init(500, 2000, 3)
	require.NoError(t, err)

	// backfilled samples are always smaller than the real one, so once the
	// real sample is accepted the whole correction pass succeeds.
	ok := h.RecordCorrected(1900, 100)
	assert.True(t, ok)
	assert.EqualValues(t, h.HighestEquivalentValue(1900), h.Max())
}

func TestRecordCorrectedNAppliesCountToEachSynthesizedSample(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)

	require.True(t, h.RecordCorrectedN(1000, 3, 100))
	assert.EqualValues(t, 30, h.TotalCount())
}
