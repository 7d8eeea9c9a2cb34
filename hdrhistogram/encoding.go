package hdrhistogram

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
)

const (
	v2EncodingHeaderSize = 40
)

// zigZagEncode maps a signed int64 to an unsigned one so that small-
// magnitude negative numbers still encode in few LEB128 bytes.
func zigZagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// zigZagDecode inverts zigZagEncode.
func zigZagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// EncodeCompressed serializes h into the V2 compressed wire format: a
// 40-byte big-endian header, followed by the zero-run-length-coalesced,
// ZigZag/LEB128-encoded counts array, deflate-compressed (zlib-wrapped),
// all framed behind a second 8-byte cookie+length header.
func (h *Histogram) EncodeCompressed() ([]byte, error) {
	inner, err := h.encodeUncompressed()
	if err != nil {
		return nil, err
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(inner); err != nil {
		return nil, newError(ErrCodeEncodingInvalid, "failed to deflate histogram payload", err)
	}
	if err := zw.Close(); err != nil {
		return nil, newError(ErrCodeEncodingInvalid, "failed to finalize deflate stream", err)
	}

	out := make([]byte, 8+compressed.Len())
	binary.BigEndian.PutUint32(out[0:4], compressedCookieV2)
	binary.BigEndian.PutUint32(out[4:8], uint32(compressed.Len()))
	copy(out[8:], compressed.Bytes())
	return out, nil
}

func (h *Histogram) encodeUncompressed() ([]byte, error) {
	payload, err := h.encodeCounts()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, v2EncodingHeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], encodingCookieV2)
	binary.BigEndian.PutUint32(buf[4:8], uint32(v2EncodingHeaderSize+len(payload)))
	binary.BigEndian.PutUint32(buf[8:12], uint32(h.normalizingIndexOffset))
	binary.BigEndian.PutUint32(buf[12:16], uint32(h.significantFigures))
	binary.BigEndian.PutUint64(buf[16:24], uint64(h.lowestTrackableValue))
	binary.BigEndian.PutUint64(buf[24:32], uint64(h.highestTrackableValue))
	binary.BigEndian.PutUint64(buf[32:40], math.Float64bits(h.conversionRatio))
	copy(buf[40:], payload)
	return buf, nil
}

// encodeCounts writes the counts array as ZigZag/LEB128 values, coalescing
// runs of consecutive zeros into a single negative run-length value per
// spec.md §4.5.
func (h *Histogram) encodeCounts() ([]byte, error) {
	var buf bytes.Buffer
	scratch := make([]byte, binary.MaxVarintLen64)

	i := int32(0)
	for i < h.countsLen {
		if h.counts[i] == 0 {
			run := int64(0)
			for i < h.countsLen && h.counts[i] == 0 {
				run++
				i++
			}
			n := binary.PutUvarint(scratch, zigZagEncode(-run))
			buf.Write(scratch[:n])
			continue
		}
		n := binary.PutUvarint(scratch, zigZagEncode(h.counts[i]))
		buf.Write(scratch[:n])
		i++
	}
	return buf.Bytes(), nil
}

// DecodeCompressed parses the V2 compressed wire format produced by
// EncodeCompressed, allocating and returning a new Histogram of the
// encoded geometry with counts, totalCount, min and max recomputed by
// scanning the decoded counts array.
func DecodeCompressed(data []byte) (*Histogram, error) {
	if len(data) < 8 {
		return nil, newError(ErrCodeEncodingInvalid, "compressed payload too short", nil)
	}
	cookie := binary.BigEndian.Uint32(data[0:4])
	if cookie == encodingCookieBase|0x01 || cookie == encodingCookieBase|0x02 {
		return nil, newError(ErrCodeEncodingInvalid, "unsupported V1 histogram encoding", nil)
	}
	if cookie != compressedCookieV2 {
		return nil, newError(ErrCodeEncodingInvalid, fmt.Sprintf("unrecognized compressed cookie 0x%x", cookie), nil)
	}
	length := binary.BigEndian.Uint32(data[4:8])
	if int(length) > len(data)-8 {
		return nil, newError(ErrCodeEncodingInvalid, "declared compressed length exceeds payload", nil)
	}

	zr, err := zlib.NewReader(bytes.NewReader(data[8 : 8+length]))
	if err != nil {
		return nil, newError(ErrCodeEncodingInvalid, "failed to open deflate stream", err)
	}
	defer zr.Close()

	inner, err := io.ReadAll(zr)
	if err != nil {
		return nil, newError(ErrCodeEncodingInvalid, "failed to inflate histogram payload", err)
	}

	return decodeUncompressed(inner)
}

func decodeUncompressed(data []byte) (*Histogram, error) {
	if len(data) < v2EncodingHeaderSize {
		return nil, newError(ErrCodeEncodingInvalid, "header too short", nil)
	}
	cookie := binary.BigEndian.Uint32(data[0:4])
	if cookie != encodingCookieV2 {
		return nil, newError(ErrCodeEncodingInvalid, fmt.Sprintf("unrecognized histogram cookie 0x%x", cookie), nil)
	}
	payloadLen := binary.BigEndian.Uint32(data[4:8])
	if payloadLen < v2EncodingHeaderSize || int(payloadLen) > len(data) {
		return nil, newError(ErrCodeEncodingInvalid, "declared payload length exceeds buffer", nil)
	}
	normalizingIndexOffset := int32(binary.BigEndian.Uint32(data[8:12]))
	significantFigures := int(binary.BigEndian.Uint32(data[12:16]))
	lowest := int64(binary.BigEndian.Uint64(data[16:24]))
	highest := int64(binary.BigEndian.Uint64(data[24:32]))
	conversionRatio := math.Float64frombits(binary.BigEndian.Uint64(data[32:40]))

	if significantFigures < 1 || significantFigures > 5 {
		return nil, newError(ErrCodeEncodingInvalid, "significant figures out of range", nil)
	}
	if lowest < 1 {
		return nil, newError(ErrCodeEncodingInvalid, "lowest trackable value out of range", nil)
	}
	if highest < 2*lowest {
		return nil, newError(ErrCodeEncodingInvalid, "highest trackable value out of range", nil)
	}

	h, err := Init(lowest, highest, significantFigures)
	if err != nil {
		return nil, newError(ErrCodeEncodingInvalid, "decoded geometry is invalid", err)
	}
	h.normalizingIndexOffset = normalizingIndexOffset
	h.conversionRatio = conversionRatio

	if err := h.decodeCounts(data[v2EncodingHeaderSize:int(payloadLen)]); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Histogram) decodeCounts(payload []byte) error {
	var idx int32
	r := bytes.NewReader(payload)
	for r.Len() > 0 {
		raw, err := binary.ReadUvarint(r)
		if err != nil {
			return newError(ErrCodeEncodingInvalid, "malformed varint in counts payload", err)
		}
		v := zigZagDecode(raw)
		if v < 0 {
			run := -v
			if int64(idx)+run > int64(h.countsLen) {
				return newError(ErrCodeEncodingInvalid, "zero-run expansion overruns counts length", nil)
			}
			idx += int32(run)
			continue
		}
		if idx >= h.countsLen {
			return newError(ErrCodeEncodingInvalid, "counts payload overruns counts length", nil)
		}
		h.counts[idx] = v
		h.totalCount += v
		if v > 0 {
			value := h.valueFromCountsIndex(idx)
			if value > h.maxValue {
				h.maxValue = value
			}
			if value > 0 && value < h.minNonZero {
				h.minNonZero = value
			}
		}
		idx++
	}
	return nil
}

// EncodeBase64 encodes h as EncodeCompressed's compressed framing and then
// wraps it in standard, padded base64, for embedding in text logs.
func (h *Histogram) EncodeBase64() (string, error) {
	compressed, err := h.EncodeCompressed()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(compressed), nil
}

// DecodeBase64 inverts EncodeBase64.
func DecodeBase64(s string) (*Histogram, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, newError(ErrCodeEncodingInvalid, "invalid base64 histogram envelope", err)
	}
	return DecodeCompressed(data)
}
