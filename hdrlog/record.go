// Package hdrlog implements the portable interval log text format: a
// commented header followed by one line per recorded interval, each
// carrying a base64-encoded compressed histogram.
package hdrlog

import (
	"github.com/hdrhistogram/hdrhistogram-go"
)

// Record is a single interval entry: the wall-clock offset and duration of
// the interval it covers, an informational max value, and the histogram
// recorded during it.
type Record struct {
	StartTimestamp float64
	IntervalLength float64
	IntervalMax    float64
	Histogram      *hdrhistogram.Histogram
}
