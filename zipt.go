// Package zipt compresses files and directories into zip archives, extracts archives, and lists
// their contents.
//
// The three pipelines (Compress, Extract, List) share one substrate: a deterministic tree walker
// (Walk, TallyTree), an adaptive-buffer stream copier with a memory-mapped fast path for very
// large files (Copier), and a progress relay that aggregates byte-count deltas off the I/O
// thread (Relay). Run is the uniform job-based entry point intended for command-line or
// graphical front-ends; the pipelines themselves are also usable directly.
package zipt
