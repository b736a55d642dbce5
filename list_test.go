package zipt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionRatio(t *testing.T) {
	tests := []struct {
		name         string
		compressed   uint64
		uncompressed uint64
		want         int
	}{
		{name: "empty entry", compressed: 0, uncompressed: 0, want: 0},
		{name: "half", compressed: 50, uncompressed: 100, want: 50},
		{name: "stored", compressed: 100, uncompressed: 100, want: 0},
		{name: "rounds down", compressed: 1, uncompressed: 3, want: 66},
		{name: "expanded by overhead", compressed: 125, uncompressed: 100, want: -25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compressionRatio(tt.compressed, tt.uncompressed))
		})
	}
}

func TestList_Report(t *testing.T) {
	work := t.TempDir()
	archive := filepath.Join(work, "a.zip")
	buildArchive(t, archive, map[string]string{
		"docs/":          "",
		"docs/a.txt":     "0123456789",
		"docs/sub/b.txt": "01234567890123456789",
	})

	report, err := List(archive)
	require.NoError(t, err)

	assert.Equal(t, archive, report.Path)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 1, report.Dirs)
	assert.Len(t, report.Entries, 3)
	assert.EqualValues(t, 30, report.UncompressedSize)

	var perEntryUncompressed, perEntryCompressed uint64
	for _, e := range report.Entries {
		perEntryUncompressed += e.UncompressedSize
		perEntryCompressed += e.CompressedSize
		assert.Equal(t, compressionRatio(e.CompressedSize, e.UncompressedSize), e.Ratio)
	}

	// aggregate totals equal the sum of per-entry sizes.
	assert.Equal(t, perEntryUncompressed, report.UncompressedSize)
	assert.Equal(t, perEntryCompressed, report.CompressedSize)
	assert.Equal(t, compressionRatio(report.CompressedSize, report.UncompressedSize), report.Ratio)
}

func TestList_StoredEntriesReportZeroRatio(t *testing.T) {
	work := t.TempDir()
	source := filepath.Join(work, "docs")
	writeTree(t, source, map[string]string{"a.txt": "0123456789"})

	archive := filepath.Join(work, "docs.zip")
	_, err := Compress(context.Background(), source, archive, func(o *CompressOptions) {
		o.Level = 0
	})
	require.NoError(t, err)

	report, err := List(archive)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	assert.False(t, report.Entries[0].Deflated)
	assert.Equal(t, 0, report.Entries[0].Ratio)

	// the embedded timestamp has 2-second resolution but must decode near the file's mod time.
	assert.WithinDuration(t, time.Now(), report.Entries[0].Modified, time.Minute)
}

func TestList_NotAZip(t *testing.T) {
	work := t.TempDir()
	name := filepath.Join(work, "not-a.zip")
	writeTree(t, work, map[string]string{"not-a.zip": "plain text"})

	_, err := List(name)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}
