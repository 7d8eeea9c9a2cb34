package hdrhistogram

// ShiftValuesLeft multiplies every recorded value's effective position by
// 2^binaryOrdersOfMagnitude, rebuilding the counts array in place. This is
// the counts-array half of the double-precision wrapper's coupling
// contract (spec.md §9): hdrfloat rescales its dynamic window by shifting
// the underlying integer histogram rather than by touching
// conversionRatio alone. binaryOrdersOfMagnitude must be >= 0.
func (h *Histogram) ShiftValuesLeft(binaryOrdersOfMagnitude int32) error {
	if binaryOrdersOfMagnitude < 0 {
		return newError(ErrCodeInvalidArgument, "binaryOrdersOfMagnitude must be >= 0", nil)
	}
	if binaryOrdersOfMagnitude == 0 {
		return nil
	}
	return h.rebucket(func(v int64) int64 { return v << uint(binaryOrdersOfMagnitude) })
}

// ShiftValuesRight divides every recorded value's effective position by
// 2^binaryOrdersOfMagnitude, rounding toward zero, rebuilding the counts
// array in place. See ShiftValuesLeft.
func (h *Histogram) ShiftValuesRight(binaryOrdersOfMagnitude int32) error {
	if binaryOrdersOfMagnitude < 0 {
		return newError(ErrCodeInvalidArgument, "binaryOrdersOfMagnitude must be >= 0", nil)
	}
	if binaryOrdersOfMagnitude == 0 {
		return nil
	}
	return h.rebucket(func(v int64) int64 { return v >> uint(binaryOrdersOfMagnitude) })
}

// rebucket replays every recorded sample through transform and re-records
// it, dropping (and reporting via error) any that no longer fit. It trades
// the reference C implementation's O(1) circular-buffer rotation of
// normalizingIndexOffset for a straightforward rebuild: the spec's coupling
// contract only requires the counts array to reflect the rescaled values,
// not the specific O(1) technique used to get there.
func (h *Histogram) rebucket(transform func(int64) int64) error {
	snapshot := make([][2]int64, 0, 64)
	it := h.RecordedValues()
	for it.Next() {
		snapshot = append(snapshot, [2]int64{it.ValueIteratedTo(), it.CountAtValueIteratedTo()})
	}

	for i := range h.counts {
		h.counts[i] = 0
	}
	h.totalCount = 0
	h.resetMinMax()

	var dropped int64
	for _, sample := range snapshot {
		v := transform(sample[0])
		if !h.RecordN(v, sample[1]) {
			dropped += sample[1]
		}
	}
	if dropped > 0 {
		return newError(ErrCodeOutOfRange, "shift dropped samples that no longer fit the histogram's range", nil)
	}
	return nil
}
