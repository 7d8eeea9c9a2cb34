// Package hdrrecorder provides the sanctioned many-writer/one-reader
// concurrency pattern for a histogram: a wait-free writer/reader phaser
// coordinating access to a pair of histograms that are flipped between an
// active (writer-owned) and inactive (reader-owned) role.
package hdrrecorder

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Phaser is a wait-free-writer, blocking-single-reader epoch coordination
// primitive. Many goroutines may call WriterEnter/WriterExit concurrently
// and without blocking; FlipPhase blocks until every writer observed before
// the call has exited.
//
// The zero value is not usable; construct with NewPhaser.
type Phaser struct {
	startEpoch   int64
	evenEndEpoch int64
	oddEndEpoch  int64
	readerMu     sync.Mutex
}

// NewPhaser returns a ready-to-use Phaser.
func NewPhaser() *Phaser {
	return &Phaser{oddEndEpoch: math.MinInt64}
}

// WriterEnter records that a writer critical section has begun, returning
// a critical value that must be passed to the matching WriterExit.
func (p *Phaser) WriterEnter() int64 {
	return atomic.AddInt64(&p.startEpoch, 1)
}

// WriterExit records that the writer critical section identified by
// criticalValue (as returned from WriterEnter) has completed.
func (p *Phaser) WriterExit(criticalValue int64) {
	if criticalValue < 0 {
		atomic.AddInt64(&p.oddEndEpoch, 1)
	} else {
		atomic.AddInt64(&p.evenEndEpoch, 1)
	}
}

// Lock acquires the reader-side mutex. Only one reader may be flipping the
// phase at a time.
func (p *Phaser) Lock() { p.readerMu.Lock() }

// Unlock releases the reader-side mutex.
func (p *Phaser) Unlock() { p.readerMu.Unlock() }

// FlipPhase must be called with the reader lock held. It blocks until
// every writer critical section observed before the call has exited.
// sleepBetweenChecks is the duration slept between drain checks; zero
// means yield the processor instead of sleeping.
func (p *Phaser) FlipPhase(sleepBetweenChecks time.Duration) {
	startEpoch := atomic.LoadInt64(&p.startEpoch)
	nextPhaseIsEven := startEpoch < 0

	var initialStartValue int64
	if nextPhaseIsEven {
		initialStartValue = 0
		atomic.StoreInt64(&p.evenEndEpoch, 0)
	} else {
		initialStartValue = math.MinInt64
		atomic.StoreInt64(&p.oddEndEpoch, math.MinInt64)
	}

	startValueAtFlip := atomic.SwapInt64(&p.startEpoch, initialStartValue)

	for {
		var endEpoch *int64
		if nextPhaseIsEven {
			endEpoch = &p.oddEndEpoch
		} else {
			endEpoch = &p.evenEndEpoch
		}
		if atomic.LoadInt64(endEpoch) == startValueAtFlip {
			return
		}
		if sleepBetweenChecks <= 0 {
			runtime.Gosched()
		} else {
			time.Sleep(sleepBetweenChecks)
		}
	}
}
