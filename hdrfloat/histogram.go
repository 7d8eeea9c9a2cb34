// Package hdrfloat provides a double-precision-valued histogram backed by
// an integer hdrhistogram.Histogram. Its trackable window moves to cover
// each value it is asked to record, by shifting the underlying integer
// histogram's counts array left or right, rather than by allocating a new
// one. When a shift would push already-recorded values out of the integer
// histogram's range, the shift fails and the record call returns false.
package hdrfloat

import (
	"math"
	"math/bits"

	"github.com/hdrhistogram/hdrhistogram-go"
)

// highestValueEverAllowed mirrors the reference implementation's ceiling on
// the largest double value this histogram family will ever attempt to
// cover, chosen so the repeated range-doubling in adjustRangeForValue
// cannot itself overflow.
const highestValueEverAllowed = 4.49423283715579e307

// Histogram records non-negative double-precision samples across a ratio
// of highestToLowestValueRatio between its lowest and highest trackable
// value, preserving significantFigures decimal digits of resolution at
// every magnitude, by delegating to an integer hdrhistogram.Histogram
// whose trackable window is rescaled (shifted) as needed.
type Histogram struct {
	values *hdrhistogram.Histogram

	highestToLowestValueRatio int64
	significantFigures        int

	currentLowestValue  float64
	currentHighestValue float64

	intToDblConversionRatio float64
	dblToIntConversionRatio float64
}

// Init returns a new Histogram able to track any non-negative double value
// whose ratio to the smallest distinguishable value does not exceed
// highestToLowestValueRatio, with significantFigures decimal digits of
// precision. highestToLowestValueRatio must be >= 2; significantFigures
// must be in [1,5].
func Init(highestToLowestValueRatio int64, significantFigures int) (*Histogram, error) {
	if highestToLowestValueRatio < 2 {
		return nil, hdrhistogram.ErrInvalidArgument
	}
	if significantFigures < 1 || significantFigures > 5 {
		return nil, hdrhistogram.ErrInvalidArgument
	}

	internalRatio := internalHighestToLowestValueRatio(highestToLowestValueRatio)
	lowestTrackingIntegerValue := int64(subBucketCount(significantFigures)) / 2
	integerValueRange := lowestTrackingIntegerValue * internalRatio

	values, err := hdrhistogram.Init(1, integerValueRange-1, significantFigures)
	if err != nil {
		return nil, err
	}

	h := &Histogram{
		values:                    values,
		highestToLowestValueRatio: highestToLowestValueRatio,
		significantFigures:        significantFigures,
	}

	lowestValue := math.Pow(2, 800)
	h.setTrackableValueRange(lowestValue, lowestValue*float64(internalRatio))
	return h, nil
}

func subBucketCount(significantFigures int) int32 {
	largestValueWithSingleUnitResolution := 2 * int64(math.Pow(10, float64(significantFigures)))
	subBucketCountMagnitude := int32(math.Ceil(math.Log2(float64(largestValueWithSingleUnitResolution))))
	return int32(1) << uint(subBucketCountMagnitude)
}

func containingBinaryOrderOfMagnitude(value int64) int32 {
	return int32(bits.Len64(uint64(value)))
}

func internalHighestToLowestValueRatio(externalRatio int64) int64 {
	return int64(1) << uint(containingBinaryOrderOfMagnitude(externalRatio)+1)
}

func (h *Histogram) setTrackableValueRange(lowest, highest float64) {
	h.currentLowestValue = lowest
	h.currentHighestValue = highest
	subBucketHalfCount := float64(subBucketCount(h.significantFigures) / 2)
	h.intToDblConversionRatio = lowest / subBucketHalfCount
	h.dblToIntConversionRatio = 1.0 / h.intToDblConversionRatio
	h.values.SetConversionRatio(h.intToDblConversionRatio)
}

func (h *Histogram) cappedContainingBinaryOrderOfMagnitude(d float64) int32 {
	if d > float64(h.highestToLowestValueRatio) {
		return int32(math.Log2(float64(h.highestToLowestValueRatio)))
	}
	if d > math.Pow(2, 50) {
		return 50
	}
	return containingBinaryOrderOfMagnitude(int64(d))
}

func (h *Histogram) shiftCoveredRangeRight(shift int32) bool {
	multiplier := 1.0 / float64(int64(1)<<uint(shift))
	if h.values.TotalCount() == h.values.CountAtIndex(0) || h.values.ShiftValuesLeft(shift) == nil {
		h.setTrackableValueRange(h.currentLowestValue*multiplier, h.currentHighestValue*multiplier)
		return true
	}
	return false
}

func (h *Histogram) shiftCoveredRangeLeft(shift int32) bool {
	multiplier := float64(int64(1) << uint(shift))
	if h.values.TotalCount() == h.values.CountAtIndex(0) || h.values.ShiftValuesRight(shift) == nil {
		h.setTrackableValueRange(h.currentLowestValue*multiplier, h.currentHighestValue*multiplier)
		return true
	}
	return false
}

// adjustRangeForValue grows the trackable window, by repeatedly shifting
// the integer core's counts array, until value falls within
// [currentLowestValue, currentHighestValue).
func (h *Histogram) adjustRangeForValue(value float64) bool {
	if value == 0 {
		return true
	}
	if value < h.currentLowestValue {
		if value < 0 {
			return false
		}
		for value < h.currentLowestValue {
			rVal := math.Ceil(h.currentLowestValue/value) - 1.0
			shiftAmount := h.cappedContainingBinaryOrderOfMagnitude(rVal)
			if !h.shiftCoveredRangeRight(shiftAmount) {
				return false
			}
		}
		return true
	}
	if value >= h.currentHighestValue {
		if value > highestValueEverAllowed {
			return false
		}
		for value >= h.currentHighestValue {
			rVal := math.Ceil(math.Nextafter(value, math.MaxFloat64)/h.currentHighestValue) - 1.0
			shiftAmount := h.cappedContainingBinaryOrderOfMagnitude(rVal)
			if !h.shiftCoveredRangeLeft(shiftAmount) {
				return false
			}
		}
	}
	return true
}

// RecordValue records a single occurrence of value.
func (h *Histogram) RecordValue(value float64) bool { return h.RecordValues(value, 1) }

// RecordValues records count occurrences of value.
func (h *Histogram) RecordValues(value float64, count int64) bool {
	if count == 0 {
		return true
	}
	if value < h.currentLowestValue || value >= h.currentHighestValue {
		if !h.adjustRangeForValue(value) {
			return false
		}
	}
	intValue := int64(value * h.dblToIntConversionRatio)
	return h.values.RecordN(intValue, count)
}

// RecordCorrectedValue records value with coordinated-omission correction:
// if it exceeds expectedInterval, synthetic samples are backfilled at
// value-expectedInterval, value-2*expectedInterval, and so on, down to the
// smallest such value that is still >= expectedInterval. Each backfilled
// value is computed from an integer step count rather than by repeated
// subtraction, so it does not accumulate floating-point drift.
func (h *Histogram) RecordCorrectedValue(value, expectedInterval float64) bool {
	return h.RecordCorrectedValues(value, 1, expectedInterval)
}

// RecordCorrectedValues is RecordCorrectedValue with an explicit count.
func (h *Histogram) RecordCorrectedValues(value float64, count int64, expectedInterval float64) bool {
	if !h.RecordValues(value, count) {
		return false
	}
	if expectedInterval <= 0 {
		return true
	}
	// missing is derived from an integer step count rather than by
	// repeated floating-point subtraction, so it never accumulates drift
	// across many iterations.
	for step := int64(1); ; step++ {
		missing := value - float64(step)*expectedInterval
		if missing < expectedInterval {
			return true
		}
		if !h.RecordValues(missing, count) {
			return false
		}
	}
}

// Add merges addend's recorded values into h, returning the number of
// samples dropped because they could not be represented.
func (h *Histogram) Add(addend *Histogram) (dropped int64) {
	it := addend.values.RecordedValues()
	for it.Next() {
		value := float64(it.ValueIteratedTo()) * addend.intToDblConversionRatio
		count := it.CountAtValueIteratedTo()
		if !h.RecordValues(value, count) {
			dropped += count
		}
	}
	return dropped
}

// AddWhileCorrectingForCoordinatedOmission merges addend into h the same
// way Add does, but replays each sample through the coordinated-omission
// correction for the given expected interval.
func (h *Histogram) AddWhileCorrectingForCoordinatedOmission(addend *Histogram, expectedInterval float64) (dropped int64) {
	it := addend.values.RecordedValues()
	for it.Next() {
		value := float64(it.ValueIteratedTo()) * addend.intToDblConversionRatio
		count := it.CountAtValueIteratedTo()
		if !h.RecordCorrectedValues(value, count, expectedInterval) {
			dropped += count
		}
	}
	return dropped
}

// Reset clears all recorded samples and restores the initial trackable
// value range.
func (h *Histogram) Reset() {
	h.values.Reset()
	internalRatio := internalHighestToLowestValueRatio(h.highestToLowestValueRatio)
	lowestValue := math.Pow(2, 800)
	h.setTrackableValueRange(lowestValue, lowestValue*float64(internalRatio))
}

// TotalCount returns the number of samples recorded.
func (h *Histogram) TotalCount() int64 { return h.values.TotalCount() }

// Mean returns the approximate arithmetic mean of recorded values.
func (h *Histogram) Mean() float64 { return h.values.Mean() * h.intToDblConversionRatio }

func (h *Histogram) toIntValue(value float64) int64 {
	return int64(value * h.dblToIntConversionRatio)
}

// LowestEquivalentValue returns the lowest value that falls in the same
// equivalence range as value.
func (h *Histogram) LowestEquivalentValue(value float64) float64 {
	return float64(h.values.LowestEquivalentValue(h.toIntValue(value))) * h.intToDblConversionRatio
}

// NextNonEquivalentValue returns the lowest value that is not equivalent
// to value.
func (h *Histogram) NextNonEquivalentValue(value float64) float64 {
	return float64(h.values.NextNonEquivalentValue(h.toIntValue(value))) * h.intToDblConversionRatio
}

// HighestEquivalentValue returns the highest value equivalent to value.
func (h *Histogram) HighestEquivalentValue(value float64) float64 {
	return h.NextNonEquivalentValue(value) - h.intToDblConversionRatio
}

// MedianEquivalentValue returns the representative midpoint value of
// value's equivalence range.
func (h *Histogram) MedianEquivalentValue(value float64) float64 {
	return float64(h.values.MedianEquivalentValue(h.toIntValue(value))) * h.intToDblConversionRatio
}

// SizeOfEquivalentValueRange returns the width of value's equivalence
// range, computed in the underlying integer histogram's domain and then
// scaled, matching spec.md's resolved precision requirement rather than
// truncating value to an integer before scaling.
func (h *Histogram) SizeOfEquivalentValueRange(value float64) float64 {
	rangeSize := h.values.SizeOfEquivalentValueRange(h.toIntValue(value))
	return float64(rangeSize) * h.intToDblConversionRatio
}
