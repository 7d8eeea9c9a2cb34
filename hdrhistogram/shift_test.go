package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftValuesLeftDoublesRecordedValues(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)
	require.True(t, h.RecordN(100, 5))

	require.NoError(t, h.ShiftValuesLeft(1))

	assert.EqualValues(t, 5, h.TotalCount())
	assert.True(t, h.ValuesAreEquivalent(200, h.Max()))
}

func TestShiftValuesRightHalvesRecordedValues(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)
	require.True(t, h.RecordN(400, 3))

	require.NoError(t, h.ShiftValuesRight(2))

	assert.EqualValues(t, 3, h.TotalCount())
	assert.True(t, h.ValuesAreEquivalent(100, h.Max()))
}

func TestShiftValuesLeftZeroIsNoOp(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)
	require.True(t, h.RecordN(100, 5))

	require.NoError(t, h.ShiftValuesLeft(0))
	assert.EqualValues(t, 5, h.TotalCount())
}

func TestShiftValuesLeftReportsDroppedOutOfRangeSamples(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 2000, 3)
	require.NoError(t, err)
	require.True(t, h.RecordN(1500, 1))

	err = h.ShiftValuesLeft(4)
	require.Error(t, err)
	var coded HasErrorCode
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeOutOfRange, coded.Code())
}

func TestShiftValuesRejectsNegativeMagnitude(t *testing.T) {
	t.Parallel()

	h, err := Init(1, 1000, 3)
	require.NoError(t, err)

	err = h.ShiftValuesLeft(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
