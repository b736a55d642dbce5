package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateLeft(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{name: "short", text: "a.txt", n: 10, want: "a.txt"},
		{name: "exact", text: "0123456789", n: 10, want: "0123456789"},
		{name: "truncated", text: "a/very/long/path/to/file.txt", n: 15, want: ".../to/file.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateLeft(tt.text, tt.n)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), tt.n)
		})
	}
}
