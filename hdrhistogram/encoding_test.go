package hdrhistogram

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZigZagRoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []int64{0, 1, -1, 2, -2, 100, -100, 1 << 40, -(1 << 40)} {
		got := zigZagDecode(zigZagEncode(v))
		assert.Equal(t, v, got)
	}
}

func TestZigZagMapsSmallMagnitudesToCompactEncoding(t *testing.T) {
	t.Parallel()
	assert.EqualValues(t, 0, zigZagEncode(0))
	assert.EqualValues(t, 1, zigZagEncode(-1))
	assert.EqualValues(t, 2, zigZagEncode(1))
	assert.EqualValues(t, 3, zigZagEncode(-2))
	assert.EqualValues(t, 4, zigZagEncode(2))
}

func TestEncodeCompressedUsesPublishedV2Cookie(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 1000, 3)
	require.NoError(t, err)

	data, err := h.EncodeCompressed()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte{0x1c, 0x84, 0x93, 0x04}, data[0:4])
}

func TestEncodeCompressedRoundTrip(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 3600000000, 3)
	require.NoError(t, err)
	for i := int64(1); i <= 50; i++ {
		require.True(t, h.Record(i*7919))
	}

	data, err := h.EncodeCompressed()
	require.NoError(t, err)

	decoded, err := DecodeCompressed(data)
	require.NoError(t, err)

	assert.Equal(t, h.TotalCount(), decoded.TotalCount())
	assert.Equal(t, h.Max(), decoded.Max())
	assert.Equal(t, h.LowestTrackableValue(), decoded.LowestTrackableValue())
	assert.Equal(t, h.HighestTrackableValue(), decoded.HighestTrackableValue())
	assert.Equal(t, h.SignificantFigures(), decoded.SignificantFigures())

	it1 := h.RecordedValues()
	it2 := decoded.RecordedValues()
	for it1.Next() {
		require.True(t, it2.Next())
		assert.Equal(t, it1.ValueIteratedTo(), it2.ValueIteratedTo())
		assert.Equal(t, it1.CountAtValueIteratedTo(), it2.CountAtValueIteratedTo())
	}
	assert.False(t, it2.Next())
}

func TestEncodeCompressedRoundTripsEmptyHistogram(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 1000, 3)
	require.NoError(t, err)

	data, err := h.EncodeCompressed()
	require.NoError(t, err)

	decoded, err := DecodeCompressed(data)
	require.NoError(t, err)
	assert.EqualValues(t, 0, decoded.TotalCount())
}

func TestEncodeBase64RoundTrip(t *testing.T) {
	t.Parallel()
	h, err := Init(1, 1000000, 3)
	require.NoError(t, err)
	require.True(t, h.RecordN(12345, 7))

	s, err := h.EncodeBase64()
	require.NoError(t, err)

	decoded, err := DecodeBase64(s)
	require.NoError(t, err)
	assert.EqualValues(t, 7, decoded.TotalCount())
}

func TestDecodeCompressedRejectsUnrecognizedCookie(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], 0xdeadbeef)
	binary.BigEndian.PutUint32(buf[4:8], 0)

	_, err := DecodeCompressed(buf)
	require.Error(t, err)
	var coded HasErrorCode
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeEncodingInvalid, coded.Code())
}

func TestDecodeCompressedRejectsV1Cookie(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], encodingCookieBase|0x01)
	binary.BigEndian.PutUint32(buf[4:8], 0)

	_, err := DecodeCompressed(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncodingInvalid)
}

func TestDecodeBase64RejectsMalformedInput(t *testing.T) {
	t.Parallel()
	_, err := DecodeBase64("not valid base64!!")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncodingInvalid)
}
