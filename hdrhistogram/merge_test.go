package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesCountsAndReportsDropped(t *testing.T) {
	t.Parallel()

	dst, err := Init(1, 1000, 3)
	require.NoError(t, err)
	src, err := Init(1, 1000000, 3)
	require.NoError(t, err)

	require.True(t, src.RecordN(500, 4))
	require.True(t, src.RecordN(999999, 2))

	dropped := dst.Add(src)

	assert.EqualValues(t, 2, dropped)
	assert.EqualValues(t, 4, dst.CountAtValue(500))
	assert.EqualValues(t, 4, dst.TotalCount())
}

func TestAddWhileCorrectingForCoordinatedOmissionAppliesCorrectionDuringMerge(t *testing.T) {
	t.Parallel()

	dst, err := Init(1, 1000000, 3)
	require.NoError(t, err)
	src, err := Init(1, 1000000, 3)
	require.NoError(t, err)

	require.True(t, src.Record(1000))

	dropped := dst.AddWhileCorrectingForCoordinatedOmission(src, 100)

	assert.EqualValues(t, 0, dropped)
	assert.EqualValues(t, 10, dst.TotalCount())
}
