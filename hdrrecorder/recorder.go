package hdrrecorder

import (
	"sync/atomic"
	"time"

	"github.com/hdrhistogram/hdrhistogram-go"
)

// IntervalRecorder holds two histograms of identical geometry, exactly one
// of which (the active one) is mutated by writers at any moment. Sample
// freezes the active histogram, handing it to the caller, and promotes the
// previously-frozen histogram to active.
//
// record* operations are wait-free and safe to call from any number of
// goroutines concurrently. Sample must only be called from a single
// goroutine at a time (it is the "one reader" of the writer/reader
// phaser); concurrent Sample calls serialize on the phaser's reader mutex.
type IntervalRecorder struct {
	phaser     *Phaser
	histograms [2]*hdrhistogram.Histogram
	activeIdx  int32
}

// NewIntervalRecorder allocates the pair of histograms backing the
// recorder, each built via hdrhistogram.Init(lowest, highest, sigfigs).
func NewIntervalRecorder(lowestTrackableValue, highestTrackableValue int64, significantFigures int) (*IntervalRecorder, error) {
	h0, err := hdrhistogram.Init(lowestTrackableValue, highestTrackableValue, significantFigures)
	if err != nil {
		return nil, err
	}
	h1, err := hdrhistogram.Init(lowestTrackableValue, highestTrackableValue, significantFigures)
	if err != nil {
		return nil, err
	}
	return &IntervalRecorder{
		phaser:     NewPhaser(),
		histograms: [2]*hdrhistogram.Histogram{h0, h1},
	}, nil
}

func (r *IntervalRecorder) active() *hdrhistogram.Histogram {
	return r.histograms[atomic.LoadInt32(&r.activeIdx)]
}

// RecordValue records value in the currently-active histogram.
func (r *IntervalRecorder) RecordValue(value int64) bool {
	cv := r.phaser.WriterEnter()
	defer r.phaser.WriterExit(cv)
	return r.active().Record(value)
}

// RecordValues records count occurrences of value in the currently-active
// histogram.
func (r *IntervalRecorder) RecordValues(value, count int64) bool {
	cv := r.phaser.WriterEnter()
	defer r.phaser.WriterExit(cv)
	return r.active().RecordN(value, count)
}

// RecordCorrectedValue records value with coordinated-omission correction
// in the currently-active histogram.
func (r *IntervalRecorder) RecordCorrectedValue(value, expectedInterval int64) bool {
	cv := r.phaser.WriterEnter()
	defer r.phaser.WriterExit(cv)
	return r.active().RecordCorrected(value, expectedInterval)
}

// RecordCorrectedValues is RecordCorrectedValue with an explicit count.
func (r *IntervalRecorder) RecordCorrectedValues(value, count, expectedInterval int64) bool {
	cv := r.phaser.WriterEnter()
	defer r.phaser.WriterExit(cv)
	return r.active().RecordCorrectedN(value, count, expectedInterval)
}

// Sample freezes the active histogram and returns it, promoting the
// previously-frozen histogram to active. sleepBetweenChecks is passed
// through to the phaser's drain spin; zero means yield instead of
// sleeping. After Sample returns, no writer mutates the returned histogram
// until this IntervalRecorder's next Sample call. The two backing
// histograms alternate, so the one returned here becomes the active,
// writer-owned histogram again on the call after next: callers that want
// each interval's counts in isolation must Reset the returned histogram
// themselves before that point.
func (r *IntervalRecorder) Sample(sleepBetweenChecks time.Duration) *hdrhistogram.Histogram {
	r.phaser.Lock()
	defer r.phaser.Unlock()

	oldActiveIdx := atomic.LoadInt32(&r.activeIdx)
	newActiveIdx := 1 - oldActiveIdx
	atomic.StoreInt32(&r.activeIdx, newActiveIdx)

	r.phaser.FlipPhase(sleepBetweenChecks)

	return r.histograms[oldActiveIdx]
}

// Reset clears both histograms under the phaser's protection. It is safe
// to call concurrently with writers, but, like Sample, only from a single
// reader goroutine at a time.
func (r *IntervalRecorder) Reset() {
	r.phaser.Lock()
	defer r.phaser.Unlock()

	// Clear the inactive histogram, make it active, wait for writers still
	// using the old one to drain, and only then clear the old one.
	inactiveIdx := 1 - atomic.LoadInt32(&r.activeIdx)
	r.histograms[inactiveIdx].Reset()
	atomic.StoreInt32(&r.activeIdx, inactiveIdx)
	r.phaser.FlipPhase(0)
	r.histograms[1-inactiveIdx].Reset()
}
