package zipt

import (
	"context"
	"fmt"
	"log"
	"time"
)

// JobKind selects which pipeline a Job runs.
type JobKind int

const (
	// KindCompress runs the archive writer pipeline.
	KindCompress JobKind = iota
	// KindExtract runs the archive reader pipeline.
	KindExtract
	// KindList runs the read-only listing query.
	KindList
)

// CompressionJob describes one archive-writing invocation.
type CompressionJob struct {
	// SourcePath is the file or directory to archive.
	SourcePath string

	// DestinationPath is the output archive. When empty it is derived from SourcePath with
	// DefaultArchiveName.
	DestinationPath string

	// Level is the compression level, 0 (store) to 9 (best); out-of-range values are
	// clamped.
	Level int

	// FollowSymlinks archives the targets of symlinks to regular files instead of skipping
	// the links; linked directories are not descended into.
	FollowSymlinks bool
}

// ExtractionJob describes one archive-reading invocation.
type ExtractionJob struct {
	// ArchivePath is the archive to read.
	ArchivePath string

	// OutputDir is the directory entries are recreated under; every produced path resolves
	// inside it. When empty it is derived from ArchivePath with DefaultOutputDir.
	OutputDir string

	// Overwrite replaces existing files instead of skipping them.
	Overwrite bool
}

// ListJob describes one read-only listing query.
type ListJob struct {
	ArchivePath string
}

// Job is the tagged variant every front-end dispatches through: exactly the config field
// matching Kind must be set.
type Job struct {
	Kind JobKind

	Compress *CompressionJob
	Extract  *ExtractionJob
	List     *ListJob
}

// Summary is the terminal result of a writer or reader pipeline.
type Summary struct {
	// Entries is the number of entries written or extracted.
	Entries int

	// Skipped counts entries left untouched because the target already existed (extraction
	// with Overwrite=false only).
	Skipped int

	// Bytes is the total number of uncompressed bytes moved. Skipped entries contribute to
	// progress but not to Bytes.
	Bytes int64

	// Output is the archive path (compression) or the output directory (extraction).
	Output string

	// Duration is the wall-clock time of the job.
	Duration time.Duration
}

// Result is the terminal outcome of Run: Summary for compress/extract jobs, Report for list
// jobs.
type Result struct {
	Summary *Summary
	Report  *Report
}

// RunOptions customises Run.
type RunOptions struct {
	// Relay receives progress deltas for compress/extract jobs; the pipeline creates one when
	// nil. Either way the job owns the relay and closes it on every return path, validation
	// failures and list jobs included, so a polling consumer always terminates.
	Relay *Relay

	// Logger is the logging sink injected into the pipelines. Defaults to log.Default().
	Logger *log.Logger
}

// Run executes one job and returns its terminal result or the first fatal error, which carries
// the path that was being processed when the job failed.
//
// Run is the one uniform entry point shared by the CLI and any graphical front-end; both are
// thin callers that translate their own argument surface into a Job and render the relay.
func Run(ctx context.Context, job Job, optFns ...func(*RunOptions)) (*Result, error) {
	opts := &RunOptions{}
	for _, fn := range optFns {
		fn(opts)
	}

	switch job.Kind {
	case KindCompress:
		c := job.Compress
		if c == nil || c.SourcePath == "" {
			// the relay never reaches a pipeline on this path, so close it here or its
			// consumer waits forever.
			opts.Relay.Close()
			return nil, &ConfigError{Reason: "compress job requires a source path"}
		}

		dst := c.DestinationPath
		if dst == "" {
			dst = DefaultArchiveName(c.SourcePath)
		}

		summary, err := Compress(ctx, c.SourcePath, dst, func(o *CompressOptions) {
			o.Level = c.Level
			o.FollowSymlinks = c.FollowSymlinks
			o.Relay = opts.Relay
			if opts.Logger != nil {
				o.Logger = opts.Logger
			}
		})
		if err != nil {
			return nil, err
		}

		return &Result{Summary: summary}, nil

	case KindExtract:
		x := job.Extract
		if x == nil || x.ArchivePath == "" {
			opts.Relay.Close()
			return nil, &ConfigError{Reason: "extract job requires an archive path"}
		}

		dir := x.OutputDir
		if dir == "" {
			dir = DefaultOutputDir(x.ArchivePath)
		}

		summary, err := Extract(ctx, x.ArchivePath, dir, func(o *ExtractOptions) {
			o.Overwrite = x.Overwrite
			o.Relay = opts.Relay
			if opts.Logger != nil {
				o.Logger = opts.Logger
			}
		})
		if err != nil {
			return nil, err
		}

		return &Result{Summary: summary}, nil

	case KindList:
		// listing reports no progress; release any supplied relay so its consumer terminates.
		opts.Relay.Close()

		if job.List == nil || job.List.ArchivePath == "" {
			return nil, &ConfigError{Reason: "list job requires an archive path"}
		}

		report, err := List(job.List.ArchivePath)
		if err != nil {
			return nil, err
		}

		return &Result{Report: report}, nil

	default:
		opts.Relay.Close()
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown job kind %d", job.Kind)}
	}
}
