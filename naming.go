package zipt

import (
	"path/filepath"
	"strings"
)

// DefaultArchiveName derives an output archive name from the source: directory "path/to/docs"
// becomes "path/to/docs.zip", file "a.txt" becomes "a.zip", both beside the source.
func DefaultArchiveName(source string) string {
	source = filepath.Clean(source)
	return filepath.Join(filepath.Dir(source), stem(source)+".zip")
}

// DefaultOutputDir derives an extraction directory from the archive name: "path/to/docs.zip"
// becomes "docs" in the current directory.
func DefaultOutputDir(archive string) string {
	if s := stem(archive); s != "" && s != "." && s != string(filepath.Separator) {
		return s
	}

	return "."
}

// stem returns the base name of path without its extension ("path/to/docs.zip" -> "docs").
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
