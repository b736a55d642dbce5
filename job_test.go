package zipt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CompressThenExtractThenList(t *testing.T) {
	work := t.TempDir()
	source := filepath.Join(work, "docs")
	files := map[string]string{
		"a.txt":     "0123456789",
		"sub/b.txt": "01234567890123456789",
	}
	writeTree(t, source, files)

	ctx := context.Background()

	// DestinationPath left empty so the default naming kicks in.
	result, err := Run(ctx, Job{
		Kind:     KindCompress,
		Compress: &CompressionJob{SourcePath: source, Level: 6},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Summary)

	archive := filepath.Join(work, "docs.zip")
	assert.Equal(t, archive, result.Summary.Output)
	assert.FileExists(t, archive)

	out := filepath.Join(work, "out")
	result, err = Run(ctx, Job{
		Kind:    KindExtract,
		Extract: &ExtractionJob{ArchivePath: archive, OutputDir: out, Overwrite: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.Entries)
	assert.Equal(t, map[string]string{
		"docs/a.txt":     files["a.txt"],
		"docs/sub/b.txt": files["sub/b.txt"],
	}, readTree(t, out))

	result, err = Run(ctx, Job{Kind: KindList, List: &ListJob{ArchivePath: archive}})
	require.NoError(t, err)
	require.NotNil(t, result.Report)
	assert.Equal(t, 2, result.Report.Files)
	assert.EqualValues(t, 30, result.Report.UncompressedSize)
}

func TestRun_InvalidJobs(t *testing.T) {
	tests := []struct {
		name string
		job  Job
	}{
		{name: "compress without config", job: Job{Kind: KindCompress}},
		{name: "compress without source", job: Job{Kind: KindCompress, Compress: &CompressionJob{}}},
		{name: "extract without config", job: Job{Kind: KindExtract}},
		{name: "extract without archive", job: Job{Kind: KindExtract, Extract: &ExtractionJob{}}},
		{name: "list without config", job: Job{Kind: KindList}},
		{name: "unknown kind", job: Job{Kind: JobKind(99)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.job)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestRun_RejectedJobClosesRelay(t *testing.T) {
	tests := []struct {
		name string
		job  Job
	}{
		{name: "compress without config", job: Job{Kind: KindCompress}},
		{name: "extract without config", job: Job{Kind: KindExtract}},
		{name: "list without config", job: Job{Kind: KindList}},
		{name: "unknown kind", job: Job{Kind: JobKind(99)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := NewRelay()
			_, err := Run(context.Background(), tt.job, func(o *RunOptions) {
				o.Relay = relay
			})

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)

			// the relay never reached a pipeline but its consumer must still terminate.
			select {
			case <-relay.Done():
			case <-time.After(2 * time.Second):
				t.Fatal("relay was not closed after the rejected job")
			}
		})
	}
}

func TestRun_CallerOwnedRelayIsClosed(t *testing.T) {
	work := t.TempDir()
	source := filepath.Join(work, "docs")
	writeTree(t, source, map[string]string{"a.txt": "0123456789"})

	relay := NewRelay()
	_, err := Run(context.Background(), Job{
		Kind:     KindCompress,
		Compress: &CompressionJob{SourcePath: source},
	}, func(o *RunOptions) {
		o.Relay = relay
	})
	require.NoError(t, err)

	// the job owns the relay: by the time Run returns, a Wait must not hang and the total
	// must be final.
	relay.Wait()
	assert.EqualValues(t, 10, relay.Current())
}
