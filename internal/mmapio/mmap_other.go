//go:build !unix

package mmapio

import (
	"errors"
	"os"
)

// ErrUnsupported is returned on platforms without a memory-mapping implementation; callers fall
// back to buffered copying.
var ErrUnsupported = errors.New("memory mapping is not supported on this platform")

func Map(_ *os.File, _ int64) ([]byte, func() error, error) {
	return nil, nil, ErrUnsupported
}
