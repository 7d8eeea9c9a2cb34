package hdrhistogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("derives counts length for a typical latency range", func(t *testing.T) {
		t.Parallel()
		h, err := Init(1, 3600000000, 3)
		require.NoError(t, err)
		assert.EqualValues(t, 23552, h.CountsLen())
	})

	t.Run("rejects lowest below 1", func(t *testing.T) {
		t.Parallel()
		_, err := Init(0, 1000, 3)
		require.Error(t, err)
		var coded HasErrorCode
		require.ErrorAs(t, err, &coded)
		assert.Equal(t, ErrCodeInvalidArgument, coded.Code())
	})

	t.Run("rejects significant figures outside [1,5]", func(t *testing.T) {
		t.Parallel()
		_, err := Init(1, 1000, 6)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("rejects highest below 2*lowest", func(t *testing.T) {
		t.Parallel()
		_, err := Init(100, 150, 3)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Alloc defaults lowest to 1", func(t *testing.T) {
		t.Parallel()
		h, err := Alloc(1000, 3)
		require.NoError(t, err)
		assert.EqualValues(t, 1, h.LowestTrackableValue())
	})
}

func TestRecordBoundary(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 1000, 4)
	require.NoError(t, err)

	assert.True(t, h.Record(32767))
	assert.False(t, h.Record(32768))
}

func TestResetRestoresGeometryAndClearsData(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)

	require.True(t, h.Record(500))
	require.True(t, h.Record(5000))
	require.EqualValues(t, 2, h.TotalCount())

	h.Reset()

	assert.EqualValues(t, 0, h.TotalCount())
	assert.EqualValues(t, 0, h.Max())
	assert.EqualValues(t, 0, h.Min())
	assert.True(t, h.Record(10))
	assert.EqualValues(t, 1, h.TotalCount())
}

func TestByteSizeGrowsWithCountsLen(t *testing.T) {
	t.Parallel()
	small, err := Init(1, 1000, 2)
	require.NoError(t, err)
	large, err := Init(1, 1000000000, 4)
	require.NoError(t, err)

	assert.Greater(t, large.ByteSize(), small.ByteSize())
}
