package zipt

import (
	"archive/zip"
	"errors"
	"strings"
	"time"
)

// Entry is the metadata of one container entry as reported by List.
type Entry struct {
	// Name is the entry's relative, forward-slash separated name as recorded in the central
	// directory.
	Name  string
	IsDir bool

	UncompressedSize uint64
	CompressedSize   uint64

	// Ratio is 100×(1−compressed/uncompressed) rounded toward zero, 0 for empty entries.
	Ratio int

	// Modified is decoded from the container's embedded MS-DOS timestamp and so carries at
	// best 2-second resolution.
	Modified time.Time

	// Deflated reports whether the entry uses the deflate method rather than store.
	Deflated bool
}

// Report is the read-only listing of a container.
type Report struct {
	Path    string
	Entries []Entry

	Files int
	Dirs  int

	UncompressedSize uint64
	CompressedSize   uint64

	// Ratio is the overall compression ratio across all entries.
	Ratio int
}

// List opens the named archive and reports per-entry and aggregate sizes, compression ratios,
// and last-modified timestamps. It is a pure query with no side effects.
func List(name string) (*Report, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, &FormatError{Path: name, Err: err}
		}

		return nil, &IOError{Op: "open", Path: name, Err: err}
	}
	defer zr.Close()

	report := &Report{Path: name, Entries: make([]Entry, 0, len(zr.File))}
	for _, f := range zr.File {
		e := Entry{
			Name:             f.Name,
			IsDir:            strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir(),
			UncompressedSize: f.UncompressedSize64,
			CompressedSize:   f.CompressedSize64,
			Ratio:            compressionRatio(f.CompressedSize64, f.UncompressedSize64),
			Modified:         f.Modified,
			Deflated:         f.Method == zip.Deflate,
		}

		report.Entries = append(report.Entries, e)
		report.UncompressedSize += e.UncompressedSize
		report.CompressedSize += e.CompressedSize
		if e.IsDir {
			report.Dirs++
		} else {
			report.Files++
		}
	}

	report.Ratio = compressionRatio(report.CompressedSize, report.UncompressedSize)
	return report, nil
}

// compressionRatio is 100×(1−compressed/uncompressed) rounded toward zero, 0 when uncompressed
// is 0. Stored entries with container overhead can yield a small negative ratio.
func compressionRatio(compressed, uncompressed uint64) int {
	if uncompressed == 0 {
		return 0
	}

	return int(100 * (1 - float64(compressed)/float64(uncompressed)))
}
