package hdrhistogram

// Option configures a Histogram at construction time.
type Option func(*Histogram)

// WithNormalizingIndexOffset sets the initial index rotation offset. The
// offset is stored and written by EncodeCompressed; indexing in this
// package does not read it.
func WithNormalizingIndexOffset(offset int32) Option {
	return func(h *Histogram) { h.normalizingIndexOffset = offset }
}

// InitWithOptions is Init followed by the application of each Option, in
// order.
func InitWithOptions(lowestTrackableValue, highestTrackableValue int64, significantFigures int, opts ...Option) (*Histogram, error) {
	h, err := Init(lowestTrackableValue, highestTrackableValue, significantFigures)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}
