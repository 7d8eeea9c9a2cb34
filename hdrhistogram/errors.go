package hdrhistogram

import "errors"

// ErrorCode identifies the class of a failure in a stable, language-neutral
// way so callers can branch on it without string matching.
type ErrorCode int

const (
	// ErrCodeInvalidArgument marks a histogram configuration or iterator
	// parameter that violates an invariant (e.g. significant figures
	// outside [1,5], or highest < 2*lowest).
	ErrCodeInvalidArgument ErrorCode = iota + 1
	// ErrCodeOutOfMemory marks an allocation failure.
	ErrCodeOutOfMemory
	// ErrCodeOutOfRange marks a value outside the histogram's trackable
	// range.
	ErrCodeOutOfRange
	// ErrCodeEncodingInvalid marks a malformed or inconsistent wire
	// encoding.
	ErrCodeEncodingInvalid
	// ErrCodeLogInvalidVersion marks an unsupported interval-log header
	// version.
	ErrCodeLogInvalidVersion
	// ErrCodeIO marks a failure reading or writing an underlying stream.
	ErrCodeIO
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "invalid_arg"
	case ErrCodeOutOfMemory:
		return "out_of_memory"
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeEncodingInvalid:
		return "encoding_invalid"
	case ErrCodeLogInvalidVersion:
		return "log_invalid_version"
	case ErrCodeIO:
		return "io_error"
	default:
		return "unknown"
	}
}

// HasErrorCode is implemented by every error this package returns, letting
// callers recover the stable ErrorCode without depending on a concrete
// type. The subpackages' errors wrap one of these (io.EOF from the log
// reader excepted), so errors.As recovers the code from them too.
type HasErrorCode interface {
	error
	Code() ErrorCode
}

type codedError struct {
	code ErrorCode
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *codedError) Code() ErrorCode { return e.code }

func (e *codedError) Unwrap() error { return e.err }

// newError builds a HasErrorCode wrapping an optional cause.
func newError(code ErrorCode, msg string, cause error) error {
	return &codedError{code: code, msg: msg, err: cause}
}

// Strerror returns a human-readable description of err, matching the
// programmatic surface's strerror-like operation (spec.md §6). Errors not
// produced by this module are rendered via their own Error method.
func Strerror(err error) string {
	if err == nil {
		return "success"
	}
	var coded HasErrorCode
	if errors.As(err, &coded) {
		return coded.Code().String() + ": " + err.Error()
	}
	return err.Error()
}

// Sentinel errors for callers that prefer errors.Is over Code() switches.
var (
	ErrInvalidArgument   = newError(ErrCodeInvalidArgument, "invalid argument", nil)
	ErrOutOfRange        = newError(ErrCodeOutOfRange, "value out of range", nil)
	ErrEncodingInvalid   = newError(ErrCodeEncodingInvalid, "invalid encoding", nil)
	ErrLogInvalidVersion = newError(ErrCodeLogInvalidVersion, "unsupported log version", nil)
	ErrIO                = newError(ErrCodeIO, "i/o failure", nil)
)

// Is reports whether e carries the same ErrorCode as target, which is
// how the sentinel errors above compare equal under errors.Is even though
// each call site builds its own wrapped instance.
func (e *codedError) Is(target error) bool {
	var other *codedError
	if errors.As(target, &other) {
		return e.code == other.code
	}
	return false
}
