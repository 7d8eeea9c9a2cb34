package hdrhistogram

import "math"

// iterator holds the state shared by every iterator kind: the current
// position in the counts array, the value it corresponds to, and the
// running cumulative count. Each kind differs only in how it advances this
// shared state (spec.md §9: "a sum type with a common header and a
// per-variant advance function").
type iterator struct {
	h *Histogram

	bucketIdx, subBucketIdx int32
	countAtIdx              int64
	countToIdx              int64
	valueFromIdx            int64
	highestEquivalentValue  int64
	countAddedInThisStep    int64
}

// ValueIteratedTo returns the representative value of the current step.
func (it *iterator) ValueIteratedTo() int64 { return it.h.HighestEquivalentValue(it.valueFromIdx) }

// CountAtValueIteratedTo returns the raw count stored at the current
// step's counts-array index.
func (it *iterator) CountAtValueIteratedTo() int64 { return it.countAtIdx }

// CountAddedInThisStep returns the number of samples this step accounted
// for, which for Linear/Logarithmic iterators may aggregate several
// underlying counts-array entries.
func (it *iterator) CountAddedInThisStep() int64 { return it.countAddedInThisStep }

// CountToIndex returns the cumulative count of all samples up to and
// including the current step.
func (it *iterator) CountToIndex() int64 { return it.countToIdx }

// Percentile returns the percentile (0..100) reached by CountToIndex.
func (it *iterator) Percentile() float64 {
	if it.h.totalCount == 0 {
		return 0
	}
	return 100.0 * float64(it.countToIdx) / float64(it.h.totalCount)
}

func newIterator(h *Histogram) iterator {
	return iterator{h: h, bucketIdx: 0, subBucketIdx: -1}
}

// next advances to the next position in the counts array, visiting every
// index in order regardless of count; it is the shared cursor used by the
// All and Recorded iterators and underlies Linear/Logarithmic/Percentile.
func (it *iterator) next() bool {
	it.subBucketIdx++
	if it.subBucketIdx >= it.h.subBucketCount {
		it.subBucketIdx = it.h.subBucketHalfCount
		it.bucketIdx++
	}
	if it.bucketIdx >= it.h.bucketCount {
		return false
	}

	it.countAtIdx = it.h.CountAtIndex(it.h.countsIndex(it.bucketIdx, it.subBucketIdx))
	it.countToIdx += it.countAtIdx
	it.valueFromIdx = it.h.valueFromIndex(it.bucketIdx, it.subBucketIdx)
	it.highestEquivalentValue = it.h.HighestEquivalentValue(it.valueFromIdx)
	it.countAddedInThisStep = it.countAtIdx
	return true
}

// AllIterator visits every counts-array index in order, including those
// with a zero count.
type AllIterator struct{ iterator }

// AllValues returns a fresh iterator over every index of h, in order.
func (h *Histogram) AllValues() *AllIterator {
	return &AllIterator{newIterator(h)}
}

// Next advances the iterator, returning false once exhausted.
func (it *AllIterator) Next() bool { return it.iterator.next() }

func (h *Histogram) allIterator() *AllIterator { return h.AllValues() }

// RecordedIterator visits only counts-array indices with a non-zero count.
type RecordedIterator struct{ iterator }

// RecordedValues returns a fresh iterator over h's non-zero indices.
func (h *Histogram) RecordedValues() *RecordedIterator {
	return &RecordedIterator{newIterator(h)}
}

// RecordedIterator is an alias kept for call sites that prefer a verb-free
// constructor name matching the iterator kind.
func (h *Histogram) RecordedIterator() *RecordedIterator { return h.RecordedValues() }

// Next advances to the next non-zero index, returning false once exhausted.
func (it *RecordedIterator) Next() bool {
	for it.iterator.next() {
		if it.countAtIdx != 0 {
			return true
		}
	}
	return false
}

// LinearIterator advances in equal steps of a fixed value width,
// aggregating the counts of every underlying counts-array entry whose
// highest-equivalent-value falls within the current step.
type LinearIterator struct {
	iterator
	valueUnitsPerStep int64
	nextValueReported int64
	done              bool
}

// LinearValues returns a fresh iterator that advances in steps of
// valueUnitsPerStep value units. valueUnitsPerStep must be > 0.
func (h *Histogram) LinearValues(valueUnitsPerStep int64) *LinearIterator {
	return &LinearIterator{
		iterator:          newIterator(h),
		valueUnitsPerStep: valueUnitsPerStep,
		nextValueReported: valueUnitsPerStep - 1,
	}
}

// Next advances to the next step boundary, returning false once the whole
// histogram range has been covered.
func (it *LinearIterator) Next() bool {
	if it.done {
		return false
	}
	it.countAddedInThisStep = 0
	for {
		if !it.iterator.next() {
			it.done = true
			return false
		}
		it.countAddedInThisStep += it.countAtIdx
		if it.highestEquivalentValue >= it.nextValueReported {
			it.valueFromIdx = it.nextValueReported
			it.nextValueReported += it.valueUnitsPerStep
			return true
		}
	}
}

// ValueIteratedTo overrides the embedded iterator: a linear step's value is
// the step boundary itself, not the underlying counts-array entry.
func (it *LinearIterator) ValueIteratedTo() int64 { return it.valueFromIdx }

// LogarithmicIterator advances in steps that grow geometrically: the first
// step spans firstValueUnitsPerStep value units, and each subsequent step
// is factor times wider than the last (factor must be >= 1.0).
type LogarithmicIterator struct {
	iterator
	nextValueReported int64
	levelValue        float64
	factor            float64
	done              bool
}

// LogarithmicValues returns a fresh logarithmic iterator.
func (h *Histogram) LogarithmicValues(firstValueUnitsPerStep int64, factor float64) *LogarithmicIterator {
	return &LogarithmicIterator{
		iterator:          newIterator(h),
		nextValueReported: firstValueUnitsPerStep - 1,
		levelValue:        float64(firstValueUnitsPerStep),
		factor:            factor,
	}
}

// Next advances to the next logarithmic step boundary.
func (it *LogarithmicIterator) Next() bool {
	if it.done {
		return false
	}
	it.countAddedInThisStep = 0
	for {
		if !it.iterator.next() {
			it.done = true
			return false
		}
		it.countAddedInThisStep += it.countAtIdx
		if it.highestEquivalentValue >= it.nextValueReported {
			it.valueFromIdx = it.nextValueReported
			it.levelValue *= it.factor
			it.nextValueReported = int64(it.levelValue) - 1
			return true
		}
	}
}

// ValueIteratedTo returns the step boundary reached.
func (it *LogarithmicIterator) ValueIteratedTo() int64 { return it.valueFromIdx }

// PercentileIterator advances so that, every ticksPerHalfDistance ticks,
// half of the remaining distance to the 100th percentile is covered.
type PercentileIterator struct {
	iterator
	ticksPerHalfDistance  int32
	percentileToIterateTo float64
	percentile            float64
	seenLastValue         bool
}

// PercentileValues returns a fresh percentile iterator. ticksPerHalfDistance
// must be >= 1.
func (h *Histogram) PercentileValues(ticksPerHalfDistance int32) *PercentileIterator {
	return &PercentileIterator{
		iterator:             newIterator(h),
		ticksPerHalfDistance: ticksPerHalfDistance,
	}
}

// Next advances to the next percentile tick, returning false once the 100th
// percentile step has already been emitted.
func (it *PercentileIterator) Next() bool {
	if !(it.countToIdx < it.h.totalCount) {
		if it.seenLastValue {
			return false
		}
		it.seenLastValue = true
		it.percentile = 100
		return true
	}

	if it.subBucketIdx == -1 && !it.iterator.next() {
		return false
	}

	for {
		currentPercentile := 100.0 * float64(it.countToIdx) / float64(it.h.totalCount)
		if it.countAtIdx != 0 && it.percentileToIterateTo <= currentPercentile {
			it.percentile = it.percentileToIterateTo
			halfDistance := math.Pow(2, math.Floor(math.Log2(100.0/(100.0-it.percentileToIterateTo)))+1)
			percentileReportingTicks := float64(it.ticksPerHalfDistance) * halfDistance
			it.percentileToIterateTo += 100.0 / percentileReportingTicks
			return true
		}
		if !it.iterator.next() {
			return true
		}
	}
}

// Percentile returns the percentile this step represents. It overrides the
// embedded iterator's cumulative-count-derived value because the final,
// synthetic 100th-percentile step has no corresponding counts-array entry.
func (it *PercentileIterator) Percentile() float64 { return it.percentile }
