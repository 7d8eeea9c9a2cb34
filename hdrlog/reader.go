package hdrlog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hdrhistogram/hdrhistogram-go"
)

var supportedVersions = map[string]bool{
	"1.0": true,
	"1.1": true,
	"1.2": true,
	"1.3": true,
}

// ReaderOption configures a Reader at construction time.
type ReaderOption func(*Reader)

// WithReaderLogger overrides the default logger used for diagnostic
// messages. The Reader logs only the header version it reads; skipped
// lines are not logged and malformed lines are returned as errors.
func WithReaderLogger(logger logrus.FieldLogger) ReaderOption {
	return func(r *Reader) { r.logger = logger }
}

// Reader parses the interval log text format written by Writer, accepting
// any header version from 1.0 through 1.3.
type Reader struct {
	scanner *bufio.Scanner
	logger  logrus.FieldLogger
	version string
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	reader := &Reader{scanner: bufio.NewScanner(r), logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// ReadHeader consumes the comment header and the quoted column-name row,
// returning the declared format version. It must be called once, before
// the first call to Read.
func (r *Reader) ReadHeader() (string, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			// first non-comment line: the quoted column-name row.
			return r.version, nil
		}
		if version, ok := parseVersionComment(line); ok {
			if !supportedVersions[version] {
				return "", invalidVersionError(version)
			}
			r.version = version
			r.logger.Debugf("interval log header declares version %s", version)
		}
	}
	if err := r.scanner.Err(); err != nil {
		return "", ioError(err)
	}
	return "", io.EOF
}

func parseVersionComment(line string) (string, bool) {
	const prefix = "#[Histogram log format version "
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(line, prefix)
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// Read returns the next interval record, or io.EOF once the stream is
// exhausted. Blank lines and lines starting with # are skipped.
func (r *Reader) Read() (*Record, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return parseRecordLine(line)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, ioError(err)
	}
	return nil, io.EOF
}

func parseRecordLine(line string) (*Record, error) {
	fields := strings.SplitN(line, ",", 4)
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: interval record %q does not have 4 fields", hdrhistogram.ErrEncodingInvalid, line)
	}

	start, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start timestamp %q", hdrhistogram.ErrEncodingInvalid, fields[0])
	}
	length, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid interval length %q", hdrhistogram.ErrEncodingInvalid, fields[1])
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid interval max %q", hdrhistogram.ErrEncodingInvalid, fields[2])
	}

	h, err := hdrhistogram.DecodeBase64(strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, err
	}

	return &Record{
		StartTimestamp: start,
		IntervalLength: length,
		IntervalMax:    max,
		Histogram:      h,
	}, nil
}
