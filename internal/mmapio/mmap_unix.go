//go:build unix

// Package mmapio maps whole files into memory for the large-file copy fast path.
package mmapio

import (
	"os"

	"golang.org/x/sys/unix"
)

// Map maps the first size bytes of f read-only.
//
// The returned function unmaps the region and must be called exactly once after the caller is
// done with the data. Callers treat any error as a cue to fall back to buffered reads.
func Map(f *os.File, size int64) ([]byte, func() error, error) {
	if size <= 0 || int64(int(size)) != size {
		return nil, nil, unix.EINVAL
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}

	return data, func() error { return unix.Munmap(data) }, nil
}
