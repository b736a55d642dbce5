package zipt

import (
	"archive/zip"
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExtractOptions customises Extract.
type ExtractOptions struct {
	// Overwrite replaces existing files at the target paths. When false (the default),
	// existing files are skipped, not overwritten; skipped entries still count toward the
	// progress total so aggregate numbers stay consistent.
	Overwrite bool

	// Relay receives byte-count deltas as entries are extracted. Extract creates one if nil,
	// and always closes the relay on return since the job owns it for its lifetime.
	Relay *Relay

	// Logger is the sink for per-entry notices such as skipped files. Defaults to
	// log.Default().
	Logger *log.Logger
}

// Extract recreates the contents of the named archive under dir, creating dir if needed.
//
// The pipeline runs in phases: open and validate the container (*FormatError if it does not
// parse as zip), sum declared uncompressed sizes for the progress total, then extract entries
// in container order. Every entry name is sanitized first: names that are absolute, contain
// ".." segments, or would otherwise resolve outside dir fail with a *PathError and are never
// written elsewhere. Entries ending in a separator become directories; recorded permission bits
// and modified times are restored on platforms that support them.
//
// The first error aborts the remaining entries; files already extracted are left in place.
func Extract(ctx context.Context, archive, dir string, optFns ...func(*ExtractOptions)) (*Summary, error) {
	opts := &ExtractOptions{
		Logger: log.Default(),
	}
	for _, fn := range optFns {
		fn(opts)
	}

	start := time.Now()

	// the job owns the relay for its entire lifetime, including failures during Init, so
	// consumers polling Done always terminate.
	relay := opts.Relay
	if relay == nil {
		relay = NewRelay()
	}
	defer relay.Close()

	// Init: the archive must parse as a zip container before any output is created.
	zr, err := zip.OpenReader(archive)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, &FormatError{Path: archive, Err: err}
		}

		return nil, &IOError{Op: "open", Path: archive, Err: err}
	}
	defer zr.Close()

	// Listing: declared uncompressed sizes scale the progress total. Unlike the writer's
	// sizing pass, this tolerates incomplete metadata; extraction itself does not.
	var total int64
	for _, f := range zr.File {
		total += int64(f.UncompressedSize64)
	}
	relay.SetMax(total)

	if err = os.MkdirAll(dir, 0755); err != nil {
		return nil, &IOError{Op: "create", Path: dir, Err: err}
	}

	copier := Copier{Relay: relay, Logger: opts.Logger}
	summary := &Summary{Output: dir}

	// Extracting: strictly sequential, container order.
	for _, f := range zr.File {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path, err := sanitizePath(dir, f.Name)
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir() {
			// the owner must always be able to descend into directories being populated.
			if err = os.MkdirAll(path, entryPerm(f, 0755)|0700); err != nil {
				return nil, &IOError{Op: "create", Path: path, Err: err}
			}

			summary.Entries++
			continue
		}

		if parent := filepath.Dir(path); parent != "." {
			if err = os.MkdirAll(parent, 0755); err != nil {
				return nil, &IOError{Op: "create", Path: parent, Err: err}
			}
		}

		switch written, err := extractFile(ctx, copier, f, path, opts.Overwrite); {
		case errors.Is(err, os.ErrExist):
			// skip, not overwrite; the entry's full size still counts toward progress.
			opts.Logger.Printf(`"%s" already exists, skipping`, path)
			relay.Add(int64(f.UncompressedSize64))
			summary.Skipped++

		case err != nil:
			return nil, err

		default:
			summary.Bytes += written
			summary.Entries++
		}
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// extractFile streams one entry to path, restoring its recorded permission bits and modified
// time. When overwrite is false and path already exists, the wrapped error is os.ErrExist.
func extractFile(ctx context.Context, copier Copier, f *zip.File, path string, overwrite bool) (int64, error) {
	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	dst, err := os.OpenFile(path, flag, entryPerm(f, 0644))
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, err
		}

		return 0, &IOError{Op: "create", Path: path, Err: err}
	}

	src, err := f.Open()
	if err != nil {
		_ = dst.Close()
		return 0, &FormatError{Path: f.Name, Err: err}
	}

	written, err := copier.Copy(ctx, dst, src, int64(f.UncompressedSize64))
	_, _ = src.Close(), dst.Close()
	if err != nil {
		return written, &IOError{Op: "write", Path: path, Err: err}
	}

	// container timestamps only carry 2-second resolution but beat "now".
	_ = os.Chtimes(path, time.Time{}, f.Modified)

	return written, nil
}

// entryPerm returns the entry's recorded permission bits, or fallback when the container did
// not record any. Platforms without Unix permissions simply ignore the bits.
func entryPerm(f *zip.File, fallback os.FileMode) os.FileMode {
	if perm := f.Mode().Perm(); perm != 0 {
		return perm
	}

	return fallback
}

// sanitizePath resolves an entry name inside dir, rejecting names that would escape it.
//
// Container names must be relative, forward-slash separated paths. Anything absolute,
// containing a ".." segment, or otherwise non-local is refused outright rather than rewritten
// to land elsewhere.
func sanitizePath(dir, name string) (string, error) {
	name = strings.TrimSuffix(name, "/")
	if name == "" || !fs.ValidPath(name) || !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", &PathError{Name: name}
	}

	return filepath.Join(dir, filepath.FromSlash(name)), nil
}
