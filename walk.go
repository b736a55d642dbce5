package zipt

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

// WalkFunc is called once for every filesystem entry reachable from the walk root.
type WalkFunc func(path string, fi os.FileInfo) error

// WalkOptions customises Walk and TallyTree.
type WalkOptions struct {
	// FollowSymlinks resolves symbolic links to their targets so that links to regular files
	// are walked as files. Links to directories are reported with the target's metadata but
	// never descended into. When false (the default), symlinks are skipped entirely.
	//
	// Whatever the choice, the same options must be used for the sizing pass and the content
	// pass of a job or the progress totals will not line up.
	FollowSymlinks bool
}

// Walk enumerates root depth-first in deterministic (lexical) order, calling fn with each
// entry's path and metadata. If root is a regular file, fn is called exactly once for it.
//
// A directory that cannot be read aborts the walk with an *IOError rather than skipping the
// subtree. The walk is lazy and can be restarted simply by reissuing it; no state is retained
// between calls. The context is checked between entries so cancellation takes effect at entry
// granularity.
func Walk(ctx context.Context, root string, fn WalkFunc, optFns ...func(*WalkOptions)) error {
	opts := &WalkOptions{}
	for _, f := range optFns {
		f(opts)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			// ctx.Err is not supposed to return nil here if ctx.Done() is closed.
			if err = ctx.Err(); err == nil {
				return filepath.SkipAll
			}
			return err
		default:
		}

		if err != nil {
			return &IOError{Op: "walk", Path: path, Err: err}
		}

		fi, err := statEntry(path, d, opts.FollowSymlinks)
		if err != nil {
			return &IOError{Op: "stat", Path: path, Err: err}
		}
		if fi == nil {
			// symlink or other irregular entry that is not being followed.
			return nil
		}

		return fn(path, fi)
	})
}

// TallyTree returns the number of non-directory entries under root and their total size in
// bytes. Directories contribute zero bytes. This is the sizing pass of the writer pipeline; it
// must run with the same options as the content pass.
func TallyTree(ctx context.Context, root string, optFns ...func(*WalkOptions)) (files int, size int64, err error) {
	err = Walk(ctx, root, func(path string, fi os.FileInfo) error {
		if !fi.IsDir() {
			files++
			size += fi.Size()
		}

		return nil
	}, optFns...)
	return
}

// statEntry resolves the metadata for one walked entry, returning nil for entries the walk
// skips (symlinks when not following, sockets, devices, and the like).
func statEntry(path string, d fs.DirEntry, follow bool) (os.FileInfo, error) {
	switch {
	case d.IsDir(), d.Type().IsRegular():
		return d.Info()

	case d.Type()&fs.ModeSymlink != 0 && follow:
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if fi.IsDir() || fi.Mode().IsRegular() {
			return fi, nil
		}

		return nil, nil

	default:
		return nil, nil
	}
}
