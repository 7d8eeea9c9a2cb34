// Package hdrhistogram provides a fixed-memory, constant-time implementation
// of Gil Tene's HDR Histogram data structure. It records non-negative
// integer samples across a wide dynamic range (for example, nanoseconds to
// hours) while preserving a configurable number of significant decimal
// digits at every magnitude, making it suitable for latency and throughput
// measurement in performance-sensitive systems.
//
// A Histogram is created once with Init or Alloc and then mutated only
// through Record*, Add, or Reset; it is not safe for concurrent mutation by
// multiple goroutines. The hdrrecorder subpackage provides the sanctioned
// many-writer/one-reader concurrency pattern, and the hdrlog subpackage
// provides a portable interval-log text format built on top of this
// package's wire codec.
package hdrhistogram
