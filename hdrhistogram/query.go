package hdrhistogram

import (
	"math"
	"sort"
)

// Min returns the lowest recorded value, or 0 if the histogram is empty.
func (h *Histogram) Min() int64 {
	if h.totalCount == 0 {
		return 0
	}
	if h.counts[0] > 0 {
		return 0
	}
	if h.minNonZero == math.MaxInt64 {
		return 0
	}
	return h.LowestEquivalentValue(h.minNonZero)
}

// MinNonZero returns the lowest recorded non-zero value, or MaxInt64 if
// none was recorded.
func (h *Histogram) MinNonZero() int64 { return h.minNonZero }

// Max returns the highest recorded value, or 0 if the histogram is empty.
func (h *Histogram) Max() int64 {
	if h.totalCount == 0 {
		return 0
	}
	return h.HighestEquivalentValue(h.maxValue)
}

// TotalCount returns the number of samples recorded (including
// coordinated-omission backfill and merged counts).
func (h *Histogram) TotalCount() int64 { return h.totalCount }

// Mean returns the approximate arithmetic mean of recorded values.
func (h *Histogram) Mean() float64 {
	if h.totalCount == 0 {
		return 0
	}
	var total float64
	it := h.RecordedIterator()
	for it.Next() {
		total += float64(it.CountAtValueIteratedTo()) * float64(h.MedianEquivalentValue(it.ValueIteratedTo()))
	}
	return total / float64(h.totalCount)
}

// StdDev returns the approximate standard deviation of recorded values.
func (h *Histogram) StdDev() float64 {
	if h.totalCount == 0 {
		return 0
	}
	mean := h.Mean()
	var sumSquares float64
	it := h.RecordedIterator()
	for it.Next() {
		dev := float64(h.MedianEquivalentValue(it.ValueIteratedTo())) - mean
		sumSquares += dev * dev * float64(it.CountAtValueIteratedTo())
	}
	return math.Sqrt(sumSquares / float64(h.totalCount))
}

// ValueAtPercentile returns the highest equivalent value of the first
// counts-array entry at which the cumulative recorded count reaches the
// given percentile (clamped to [0,100]) of the total count, that target
// count being rounded to the nearest whole sample and never below 1.
// Returns 0 for an empty histogram.
func (h *Histogram) ValueAtPercentile(percentile float64) int64 {
	return h.valueAtPercentile(clampPercentile(percentile))
}

func clampPercentile(p float64) float64 {
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

func (h *Histogram) valueAtPercentile(percentile float64) int64 {
	if h.totalCount == 0 {
		return 0
	}
	countAtPercentile := int64((percentile/100.0)*float64(h.totalCount) + 0.5)
	if countAtPercentile < 1 {
		countAtPercentile = 1
	}

	var total int64
	it := h.allIterator()
	for it.next() {
		total += it.countAtIdx
		if total >= countAtPercentile {
			return h.HighestEquivalentValue(it.valueFromIdx)
		}
	}
	return h.HighestEquivalentValue(h.maxValue)
}

// ValueAtPercentiles returns the value at each requested percentile in a
// single linear pass. The input need not be sorted; a defensive sorted copy
// is used internally when it isn't already non-decreasing, and results are
// returned in the same order as the input.
func (h *Histogram) ValueAtPercentiles(percentiles []float64) []int64 {
	out := make([]int64, len(percentiles))
	if len(percentiles) == 0 {
		return out
	}
	if h.totalCount == 0 {
		return out
	}

	order := make([]int, len(percentiles))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return percentiles[order[a]] < percentiles[order[b]]
	})

	var total int64
	it := h.allIterator()
	oi := 0
	for oi < len(order) {
		target := clampPercentile(percentiles[order[oi]])
		countAtPercentile := int64((target/100.0)*float64(h.totalCount) + 0.5)
		if countAtPercentile < 1 {
			countAtPercentile = 1
		}
		for total < countAtPercentile && it.next() {
			total += it.countAtIdx
		}
		out[order[oi]] = h.HighestEquivalentValue(it.valueFromIdx)
		oi++
	}
	return out
}

// CountAtValue returns the number of recorded samples equivalent to value.
func (h *Histogram) CountAtValue(value int64) int64 {
	idx := h.countsIndexFor(value)
	if idx < 0 || idx >= h.countsLen {
		return 0
	}
	return h.counts[idx]
}

// CountAtIndex returns the raw count stored at the given counts-array
// index.
func (h *Histogram) CountAtIndex(index int32) int64 {
	if index < 0 || index >= h.countsLen {
		return 0
	}
	return h.counts[index]
}

// ValueAtIndex returns the lowest-equivalent value represented by the given
// counts-array index.
func (h *Histogram) ValueAtIndex(index int32) int64 {
	return h.valueFromCountsIndex(index)
}

// ValuesAreEquivalent reports whether a and b fall in the same equivalence
// range, i.e. map to the same counts-array index.
func (h *Histogram) ValuesAreEquivalent(a, b int64) bool {
	return h.LowestEquivalentValue(a) == h.LowestEquivalentValue(b)
}

// LowestEquivalentValue returns the lowest value that maps to the same
// counts-array index as v.
func (h *Histogram) LowestEquivalentValue(v int64) int64 {
	bucketIdx := h.bucketIndex(v)
	subBucketIdx := h.subBucketIndex(v, bucketIdx)
	return h.valueFromIndex(bucketIdx, subBucketIdx)
}

// SizeOfEquivalentValueRange returns the width, in raw value units, of the
// equivalence range that v falls into.
func (h *Histogram) SizeOfEquivalentValueRange(v int64) int64 {
	bucketIdx := h.bucketIndex(v)
	subBucketIdx := h.subBucketIndex(v, bucketIdx)
	adjustedBucket := bucketIdx
	if subBucketIdx >= h.subBucketCount {
		adjustedBucket++
	}
	return int64(1) << uint(int64(h.unitMagnitude)+int64(adjustedBucket))
}

// NextNonEquivalentValue returns the lowest value that is not equivalent to
// v, i.e. the start of the next equivalence range.
func (h *Histogram) NextNonEquivalentValue(v int64) int64 {
	return h.LowestEquivalentValue(v) + h.SizeOfEquivalentValueRange(v)
}

// HighestEquivalentValue returns the highest value equivalent to v.
func (h *Histogram) HighestEquivalentValue(v int64) int64 {
	return h.NextNonEquivalentValue(v) - 1
}

// MedianEquivalentValue returns the value at the midpoint of v's
// equivalence range, used as the representative value for mean/stddev.
func (h *Histogram) MedianEquivalentValue(v int64) int64 {
	return h.LowestEquivalentValue(v) + (h.SizeOfEquivalentValueRange(v) >> 1)
}
