package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_LastRun(t *testing.T) {
	tests := []struct {
		name     string
		content  *string
		want     time.Time
		wantOK   bool
		wantFile string
	}{
		{
			name:     "missing file is created empty",
			wantFile: "{\n  \"lastRun\": null\n}",
		},
		{
			name:    "null",
			content: ptr(`{"lastRun": null}`),
		},
		{
			name:    "timestamp",
			content: ptr(`{"lastRun": "2025-03-04T05:06:07.891Z"}`),
			want:    time.Date(2025, 3, 4, 5, 6, 7, 891_000_000, time.UTC),
			wantOK:  true,
		},
		{
			name:    "corrupt file counts as empty",
			content: ptr(`{"lastRun": `),
		},
		{
			name:    "invalid timestamp counts as empty",
			content: ptr(`{"lastRun": "yesterday"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "language-files", "translation-tracker.json")
			if tt.content != nil {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0644))
			}

			got, ok, err := New(path).LastRun()
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)

			if tt.wantFile != "" {
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, tt.wantFile, string(data))
			}
		})
	}
}

func TestTracker_Stamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translation-tracker.json")
	tr := New(path)

	now := time.Date(2025, 6, 7, 8, 9, 10, 123_456_789, time.FixedZone("JST", 9*60*60))
	require.NoError(t, tr.Stamp(now))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"lastRun\": \"2025-06-06T23:09:10.123Z\"\n}", string(data))

	got, ok, err := tr.LastRun()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, now.Truncate(time.Millisecond).Equal(got))
}

func ptr(s string) *string {
	return &s
}
