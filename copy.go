package zipt

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/nguyengg/zipt/internal/mmapio"
)

const (
	// SmallBufferSize seeds transfers whose total size is known to be under 1 MiB.
	SmallBufferSize = 32 * 1024
	// LargeBufferSize seeds transfers of unknown size or of at least 1 MiB.
	LargeBufferSize = 64 * 1024
	// MaxBufferSize caps buffer growth for a single transfer.
	MaxBufferSize = 2 * 1024 * 1024
	// DefaultMmapThreshold is the whole-file size at and above which CopyFile prefers the
	// memory-mapped path over chunked reads.
	DefaultMmapThreshold = 100 * 1024 * 1024

	smallFileCutoff = 1024 * 1024
)

// mapFile is indirect so tests can force the mapped path to fail and exercise the fallback.
var mapFile = mmapio.Map

// Copier moves all remaining bytes from a source to a destination with an adaptive buffer,
// reporting every chunk transferred to Relay.
//
// The buffer starts at SmallBufferSize or LargeBufferSize depending on the size class of the
// transfer, doubles after every read that fills it completely, never exceeds MaxBufferSize, and
// never shrinks within one transfer.
//
// The zero value is ready for use.
type Copier struct {
	// MaxBufferSize caps buffer growth. Defaults to MaxBufferSize.
	MaxBufferSize int

	// MmapThreshold is the whole-file size at and above which CopyFile memory-maps the source
	// instead of reading it in chunks. Defaults to DefaultMmapThreshold.
	MmapThreshold int64

	// Relay receives a byte-count delta for every chunk written. May be nil, in which case
	// progress is simply not reported.
	Relay *Relay

	// Logger receives the mapping-failure warning. Defaults to log.Default().
	Logger *log.Logger
}

// Copy copies every remaining byte from src to dst, sending per-chunk deltas to the relay.
//
// size is the total transfer size if known, or -1; it only seeds the initial buffer length.
// The context is checked after every write, so cancellation takes effect at chunk granularity.
func (c Copier) Copy(ctx context.Context, dst io.Writer, src io.Reader, size int64) (written int64, err error) {
	buf := make([]byte, initialBufferSize(size))
	ceil := c.MaxBufferSize
	if ceil <= 0 {
		ceil = MaxBufferSize
	}

	var nr, nw int
	for {
		nr, err = src.Read(buf)

		if nr > 0 {
			switch nw, err = dst.Write(buf[0:nr]); {
			case err != nil:
				return written, err
			case nw < nr:
				return written, io.ErrShortWrite
			case nw != nr:
				return written, fmt.Errorf("invalid write: expected to write %d bytes, wrote %d bytes instead", nr, nw)
			}

			written += int64(nw)
			c.Relay.Add(int64(nw))

			select {
			case <-ctx.Done():
				return written, ctx.Err()
			default:
			}

			// a completely filled buffer means the source can feed a bigger one.
			if nr == len(buf) && len(buf) < ceil {
				buf = make([]byte, min(len(buf)*2, ceil))
			}
		}

		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}

// CopyFile copies the entire regular file f into dst.
//
// Files at or above MmapThreshold are mapped into memory read-only and written in one pass; if
// mapping fails, CopyFile logs a warning and falls back to the chunked Copy, never treating the
// failure as fatal.
func (c Copier) CopyFile(ctx context.Context, dst io.Writer, f *os.File) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}

	size := fi.Size()
	threshold := c.MmapThreshold
	if threshold <= 0 {
		threshold = DefaultMmapThreshold
	}

	if size >= threshold && size > 0 {
		data, unmap, err := mapFile(f, size)
		if err == nil {
			defer unmap()

			nw, err := dst.Write(data)
			switch {
			case err != nil:
				return int64(nw), err
			case int64(nw) < size:
				return int64(nw), io.ErrShortWrite
			}

			c.Relay.Add(size)
			return size, nil
		}

		c.logger().Printf(`mmap "%s" error: %v; falling back to buffered copy`, f.Name(), err)
	}

	return c.Copy(ctx, dst, f, size)
}

func (c Copier) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return log.Default()
}

// initialBufferSize picks the starting buffer length by size class: SmallBufferSize for
// transfers known to be under 1 MiB, LargeBufferSize otherwise.
func initialBufferSize(size int64) int {
	if size >= 0 && size < smallFileCutoff {
		return SmallBufferSize
	}

	return LargeBufferSize
}
