package hdrlog

import (
	"fmt"

	"github.com/hdrhistogram/hdrhistogram-go"
)

func ioError(cause error) error {
	return fmt.Errorf("%w: %v", hdrhistogram.ErrIO, cause)
}

func invalidVersionError(version string) error {
	return fmt.Errorf("%w: unsupported log format version %q", hdrhistogram.ErrLogInvalidVersion, version)
}
