package hdrhistogram

// Add merges the counts recorded in src into h, returning the number of
// samples dropped because their value exceeded h's trackable range.
func (h *Histogram) Add(src *Histogram) (dropped int64) {
	it := src.RecordedValues()
	for it.Next() {
		if !h.RecordN(it.ValueIteratedTo(), it.CountAtValueIteratedTo()) {
			dropped += it.CountAtValueIteratedTo()
		}
	}
	return dropped
}

// AddWhileCorrectingForCoordinatedOmission merges src into h the same way
// Add does, but replays each source sample through the coordinated-omission
// correction for the given expected interval, as if it had originally been
// recorded with RecordCorrected.
func (h *Histogram) AddWhileCorrectingForCoordinatedOmission(src *Histogram, expectedInterval int64) (dropped int64) {
	it := src.RecordedValues()
	for it.Next() {
		v := it.ValueIteratedTo()
		c := it.CountAtValueIteratedTo()
		if !h.RecordCorrectedN(v, c, expectedInterval) {
			dropped += c
		}
	}
	return dropped
}
