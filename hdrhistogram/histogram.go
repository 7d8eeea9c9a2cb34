package hdrhistogram

import (
	"fmt"
	"math"
	"math/bits"
)

const (
	encodingCookieBase     = 0x1c849300
	compressedEncodingBase = 0x1c849300
	encodingCookieV2       = encodingCookieBase | 0x03
	compressedCookieV2     = compressedEncodingBase | 0x04
)

// Histogram is a lossy, fixed-memory data structure used to record the
// distribution of non-negative integer samples (such as latency) with a
// configurable number of significant decimal digits across a wide dynamic
// range. It is not safe for concurrent mutation; see hdrrecorder for the
// sanctioned multi-writer pattern.
type Histogram struct {
	lowestTrackableValue  int64
	highestTrackableValue int64
	significantFigures    int64

	unitMagnitude               int32
	subBucketHalfCountMagnitude int32
	subBucketHalfCount          int32
	subBucketMask               int64
	subBucketCount              int32
	bucketCount                 int32
	countsLen                   int32

	normalizingIndexOffset int32
	conversionRatio        float64

	totalCount    int64
	minNonZero    int64
	maxValue      int64
	counts        []int64
}

// Init validates the given configuration and returns a new, zeroed
// Histogram capable of tracking values in [0, highestTrackableValue] with
// significantFigures decimal digits of precision preserved at every
// magnitude. lowestTrackableValue must be >= 1 and highestTrackableValue
// must be >= 2*lowestTrackableValue; significantFigures must be in [1,5].
func Init(lowestTrackableValue, highestTrackableValue int64, significantFigures int) (*Histogram, error) {
	if lowestTrackableValue < 1 {
		return nil, newError(ErrCodeInvalidArgument, fmt.Sprintf("lowestTrackableValue must be >= 1 (was %d)", lowestTrackableValue), nil)
	}
	if significantFigures < 1 || significantFigures > 5 {
		return nil, newError(ErrCodeInvalidArgument, fmt.Sprintf("significantFigures must be in [1,5] (was %d)", significantFigures), nil)
	}
	if highestTrackableValue < 2*lowestTrackableValue {
		return nil, newError(ErrCodeInvalidArgument, fmt.Sprintf("highestTrackableValue (%d) must be >= 2*lowestTrackableValue (%d)", highestTrackableValue, 2*lowestTrackableValue), nil)
	}

	largestValueWithSingleUnitResolution := 2 * pow10(int64(significantFigures))

	subBucketCountMagnitude := int32(math.Ceil(math.Log2(float64(largestValueWithSingleUnitResolution))))
	subBucketHalfCountMagnitude := subBucketCountMagnitude - 1
	if subBucketHalfCountMagnitude < 0 {
		subBucketHalfCountMagnitude = 0
	}

	unitMagnitude := int32(math.Floor(math.Log2(float64(lowestTrackableValue))))
	if unitMagnitude < 0 {
		unitMagnitude = 0
	}

	subBucketCount := int32(1) << uint(subBucketHalfCountMagnitude+1)
	subBucketHalfCount := subBucketCount / 2
	subBucketMask := int64(subBucketCount-1) << uint(unitMagnitude)

	// Determine the number of buckets needed so that
	// subBucketCount << (bucketCount-1+unitMagnitude) >= highestTrackableValue.
	smallestUntrackableValue := int64(subBucketCount) << uint(unitMagnitude)
	bucketsNeeded := int32(1)
	for smallestUntrackableValue < highestTrackableValue {
		smallestUntrackableValue <<= 1
		bucketsNeeded++
	}
	bucketCount := bucketsNeeded

	countsLen := (bucketCount + 1) * (subBucketCount / 2)

	h := &Histogram{
		lowestTrackableValue:        lowestTrackableValue,
		highestTrackableValue:       highestTrackableValue,
		significantFigures:          int64(significantFigures),
		unitMagnitude:               unitMagnitude,
		subBucketHalfCountMagnitude: subBucketHalfCountMagnitude,
		subBucketHalfCount:          subBucketHalfCount,
		subBucketMask:               subBucketMask,
		subBucketCount:              subBucketCount,
		bucketCount:                 bucketCount,
		countsLen:                   countsLen,
		conversionRatio:             1.0,
		counts:                      make([]int64, countsLen),
	}
	h.resetMinMax()
	return h, nil
}

// Alloc is sugar for Init(1, highestTrackableValue, significantFigures).
func Alloc(highestTrackableValue int64, significantFigures int) (*Histogram, error) {
	return Init(1, highestTrackableValue, significantFigures)
}

func (h *Histogram) resetMinMax() {
	h.minNonZero = math.MaxInt64
	h.maxValue = 0
}

// Reset zeroes all recorded counts and restores min/max to their initial
// state, preserving the histogram's geometry.
func (h *Histogram) Reset() {
	h.totalCount = 0
	for i := range h.counts {
		h.counts[i] = 0
	}
	h.resetMinMax()
}

// ByteSize returns an estimate, in bytes, of the memory held by the
// histogram's backing counts array and fixed fields. It does not account
// for slice-header overhead, which is small and compiler-specific.
func (h *Histogram) ByteSize() int {
	const fixedFields = 6*8 + 6*4
	return fixedFields + len(h.counts)*8
}

// LowestTrackableValue returns the configured lower bound.
func (h *Histogram) LowestTrackableValue() int64 { return h.lowestTrackableValue }

// HighestTrackableValue returns the configured upper bound.
func (h *Histogram) HighestTrackableValue() int64 { return h.highestTrackableValue }

// SignificantFigures returns the configured decimal precision.
func (h *Histogram) SignificantFigures() int { return int(h.significantFigures) }

// CountsLen returns the fixed length of the backing counts array.
func (h *Histogram) CountsLen() int32 { return h.countsLen }

// NormalizingIndexOffset returns the index rotation offset stored with the
// histogram and carried through the wire encoding. Indexing in this package
// does not read it; ShiftValuesLeft/Right rebuild the counts array instead.
func (h *Histogram) NormalizingIndexOffset() int32 { return h.normalizingIndexOffset }

// ConversionRatio returns the cached scale factor relating this histogram's
// integer counts-array positions to an external unit. It is 1.0 unless the
// histogram backs an hdrfloat.Histogram.
func (h *Histogram) ConversionRatio() float64 { return h.conversionRatio }

// SetConversionRatio overrides the cached scale factor. It exists for
// hdrfloat, which rescales this histogram's counts array directly and must
// keep the cached ratio in sync; ordinary integer use never needs it.
func (h *Histogram) SetConversionRatio(ratio float64) { h.conversionRatio = ratio }

func (h *Histogram) bucketIndex(v int64) int32 {
	pow2Ceiling := int64(bits.Len64(uint64(v | h.subBucketMask)))
	return int32(pow2Ceiling - int64(h.unitMagnitude) - int64(h.subBucketHalfCountMagnitude+1))
}

func (h *Histogram) subBucketIndex(v int64, bucketIdx int32) int32 {
	return int32(v >> uint(int64(bucketIdx)+int64(h.unitMagnitude)))
}

func (h *Histogram) countsIndex(bucketIdx, subBucketIdx int32) int32 {
	bucketBaseIdx := (bucketIdx + 1) << uint(h.subBucketHalfCountMagnitude)
	offsetInBucket := subBucketIdx - h.subBucketHalfCount
	return bucketBaseIdx + offsetInBucket
}

// countsIndexFor returns the counts-array index for v, or -1 if v cannot be
// represented by this histogram's geometry.
func (h *Histogram) countsIndexFor(v int64) int32 {
	bucketIdx := h.bucketIndex(v)
	subBucketIdx := h.subBucketIndex(v, bucketIdx)
	if bucketIdx >= h.bucketCount {
		return -1
	}
	return h.countsIndex(bucketIdx, subBucketIdx)
}

func (h *Histogram) valueFromIndex(bucketIdx, subBucketIdx int32) int64 {
	return int64(subBucketIdx) << uint(int64(bucketIdx)+int64(h.unitMagnitude))
}

// valueFromCountsIndex inverts countsIndex, recovering the representative
// (lowest-equivalent) value for a given position in the counts array.
func (h *Histogram) valueFromCountsIndex(index int32) int64 {
	bucketIdx := (index >> uint(h.subBucketHalfCountMagnitude)) - 1
	subBucketIdx := (index & (h.subBucketHalfCount - 1)) + h.subBucketHalfCount
	if bucketIdx < 0 {
		subBucketIdx = index
		bucketIdx = 0
	}
	return h.valueFromIndex(bucketIdx, subBucketIdx)
}

func pow10(exp int64) int64 {
	n := int64(1)
	for ; exp > 0; exp-- {
		n *= 10
	}
	return n
}
