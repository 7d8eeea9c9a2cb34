package hdrlog

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

const writerFormatVersion = "1.3"

// WriterOption configures a Writer at construction time.
type WriterOption func(*Writer)

// WithWriterLogger overrides the default logger used for diagnostic
// messages. Writer never uses the logger for control flow; write failures
// are always returned as errors.
func WithWriterLogger(logger logrus.FieldLogger) WriterOption {
	return func(w *Writer) { w.logger = logger }
}

// Writer emits the interval log text format described by the HDR Histogram
// log v1.3 header and per-interval record shape.
type Writer struct {
	w      io.Writer
	logger logrus.FieldLogger
}

// NewWriter returns a Writer that appends to w.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	writer := &Writer{w: w, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(writer)
	}
	return writer
}

// WriteHeader writes the comment header and the quoted CSV column-name row.
// description may be empty, in which case the description comment line is
// omitted.
func (w *Writer) WriteHeader(description string, startTime time.Time) error {
	if description != "" {
		if _, err := fmt.Fprintf(w.w, "#[%s]\n", description); err != nil {
			return ioError(err)
		}
	}
	if _, err := fmt.Fprintf(w.w, "#[Histogram log format version %s]\n", writerFormatVersion); err != nil {
		return ioError(err)
	}
	epochSeconds := float64(startTime.UnixNano()) / 1e9
	if _, err := fmt.Fprintf(w.w, "#[StartTime: %.3f (seconds since epoch), %s]\n",
		epochSeconds, startTime.UTC().Format("Mon Jan  2 15:04:05 2006")); err != nil {
		return ioError(err)
	}
	if _, err := fmt.Fprintln(w.w, `"StartTimestamp","Interval_Length","Interval_Max","Interval_Compressed_Histogram"`); err != nil {
		return ioError(err)
	}
	w.logger.Debugf("wrote interval log header (version %s)", writerFormatVersion)
	return nil
}

// WriteIntervalRecord encodes r.Histogram and appends one data line.
func (w *Writer) WriteIntervalRecord(r Record) error {
	encoded, err := r.Histogram.EncodeBase64()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w.w, "%.3f,%.3f,%.3f,%s\n", r.StartTimestamp, r.IntervalLength, r.IntervalMax, encoded)
	if err != nil {
		return ioError(err)
	}
	return nil
}
