package zipt

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"
)

// DefaultLevel is the compression level used when CompressOptions.Level is left alone.
const DefaultLevel = 6

// CompressOptions customises Compress.
type CompressOptions struct {
	// Level is the compression level, 0 to 9. 0 stores entries uncompressed; out-of-range
	// values are clamped rather than rejected. Defaults to DefaultLevel.
	Level int

	// FollowSymlinks archives the targets of symlinks to regular files instead of skipping
	// the links; linked directories are not descended into. The same policy applies to the
	// sizing pass and the content pass.
	FollowSymlinks bool

	// MmapThreshold overrides Copier.MmapThreshold for the large-file fast path.
	MmapThreshold int64

	// Relay receives byte-count deltas as entries are written. Compress creates one if nil,
	// and always closes the relay on return since the job owns it for its lifetime.
	Relay *Relay

	// Logger is the sink for warnings such as a failed memory mapping. Defaults to
	// log.Default().
	Logger *log.Logger
}

// Compress archives the named file or directory into a zip container at dst.
//
// The pipeline runs in phases: validate that the source exists, tally the total byte count for
// progress scaling (directories contribute nothing), then append entries strictly sequentially
// in walker order. Entry names are computed relative to the source's parent directory so the
// archive's top level mirrors the source's own name. Only regular files become entries; the
// directory structure is implied by their names.
//
// The container is written to a temporary file next to dst and renamed into place only after
// the central directory has been flushed, so a crash mid-write never leaves a partial file at
// dst. The first error aborts the whole job: entries already written are not rolled back, the
// temporary file is simply removed.
func Compress(ctx context.Context, source, dst string, optFns ...func(*CompressOptions)) (*Summary, error) {
	opts := &CompressOptions{
		Level:  DefaultLevel,
		Logger: log.Default(),
	}
	for _, fn := range optFns {
		fn(opts)
	}
	opts.Level = clampLevel(opts.Level)

	start := time.Now()

	// the job owns the relay for its entire lifetime, including failures during Init, so
	// consumers polling Done always terminate.
	relay := opts.Relay
	if relay == nil {
		relay = NewRelay()
	}
	defer relay.Close()

	// Init: the source must exist before any output is created.
	fi, err := os.Stat(source)
	if err != nil {
		return nil, &IOError{Op: "stat", Path: source, Err: err}
	}

	walkOpt := func(o *WalkOptions) { o.FollowSymlinks = opts.FollowSymlinks }

	// Sizing: one full pass for the progress total before any output exists, so the temporary
	// container never counts toward its own total.
	if fi.IsDir() {
		_, size, err := TallyTree(ctx, source, walkOpt)
		if err != nil {
			return nil, err
		}
		relay.SetMax(size)
	} else {
		relay.SetMax(fi.Size())
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return nil, &IOError{Op: "create", Path: dst, Err: err}
	}
	success := false
	defer func() {
		if !success {
			_, _ = tmp.Close(), os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	method := uint16(zip.Store)
	if level := opts.Level; level > 0 {
		method = zip.Deflate
		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		})
	}

	copier := Copier{MmapThreshold: opts.MmapThreshold, Relay: relay, Logger: opts.Logger}
	summary := &Summary{Output: dst}
	base := filepath.Dir(filepath.Clean(source))

	addFile := func(path string, fi os.FileInfo) error {
		name, err := entryName(base, path)
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return &IOError{Op: "open", Path: path, Err: err}
		}
		defer src.Close()

		w, err := zw.CreateHeader(fileHeader(fi, name, method))
		if err != nil {
			return &IOError{Op: "append", Path: path, Err: err}
		}

		n, err := copier.CopyFile(ctx, w, src)
		summary.Bytes += n
		if err != nil {
			return &IOError{Op: "write", Path: path, Err: err}
		}

		summary.Entries++
		return nil
	}

	if fi.IsDir() {
		// Writing: the container requires single-writer sequential appends, so entries go
		// in strictly in walker order. The growing temporary file is skipped so a
		// destination inside the source tree is never appended into itself.
		err = Walk(ctx, source, func(path string, fi os.FileInfo) error {
			if fi.IsDir() || path == tmp.Name() {
				return nil
			}

			return addFile(path, fi)
		}, walkOpt)
		if err != nil {
			return nil, err
		}
	} else if err = addFile(source, fi); err != nil {
		return nil, err
	}

	// Finalized: flush the central directory, then move the finished container into place.
	if err = zw.Close(); err != nil {
		return nil, &IOError{Op: "finalize", Path: dst, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return nil, &IOError{Op: "close", Path: tmp.Name(), Err: err}
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return nil, &IOError{Op: "rename", Path: dst, Err: err}
	}

	success = true
	summary.Duration = time.Since(start)
	return summary, nil
}

// clampLevel bounds a compression level to the container's 0-9 range.
func clampLevel(level int) int {
	switch {
	case level < 0:
		return 0
	case level > 9:
		return 9
	default:
		return level
	}
}

// entryName computes the forward-slash relative name of path in the container.
//
// Names must be valid UTF-8, relative, and free of "." or ".." segments; anything else fails
// with a *PathError.
func entryName(base, path string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", &PathError{Name: path, Err: err}
	}

	name := filepath.ToSlash(rel)
	if !utf8.ValidString(name) || !fs.ValidPath(name) {
		return "", &PathError{Name: path}
	}

	return name, nil
}

// fileHeader builds the container header for one file, carrying its modified time (stored at
// the container's 2-second resolution) and permission bits.
func fileHeader(fi os.FileInfo, name string, method uint16) *zip.FileHeader {
	fh := &zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: fi.ModTime(),
	}
	fh.SetMode(fi.Mode())
	return fh
}
