package metadata

import (
	"os"
	"testing"
	"time"

	"github.com/dagslott/imagesort/testutil"
)

func TestReadCreationDateFallback(t *testing.T) {
	dir := testutil.TempDir(t, "metadata-test")
	path := testutil.CreateTestImage(t, dir, "plain.png", testutil.GradientImage(16, 16, 1))

	t.Run("no embedded date without fallback", func(t *testing.T) {
		if _, ok := ReadCreationDateWithFallback(path, false); ok {
			t.Error("PNG without EXIF should have no strict date")
		}
	})

	t.Run("mtime fallback", func(t *testing.T) {
		want := time.Date(2021, time.June, 15, 12, 30, 0, 0, time.Local)
		if err := os.Chtimes(path, want, want); err != nil {
			t.Fatalf("Chtimes failed: %v", err)
		}

		got, ok := ReadCreationDate(path)
		if !ok {
			t.Fatal("expected fallback date")
		}
		if !got.Equal(want) {
			t.Errorf("date = %v, want %v", got, want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, ok := ReadCreationDate(dir + "/ghost.jpg"); ok {
			t.Error("missing file should have no date")
		}
	})
}

func TestParseFfprobeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "full timestamp with fraction and zone",
			input: `{"format":{"tags":{"creation_time":"2023-12-29T00:33:00.000000Z"}}}`,
			want:  time.Date(2023, time.December, 29, 0, 33, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "timestamp without fraction",
			input: `{"format":{"tags":{"creation_time":"2019-07-04T18:00:01Z"}}}`,
			want:  time.Date(2019, time.July, 4, 18, 0, 1, 0, time.Local),
			ok:    true,
		},
		{
			name:  "no tags",
			input: `{"format":{}}`,
		},
		{
			name:  "empty creation time",
			input: `{"format":{"tags":{"creation_time":""}}}`,
		},
		{
			name:  "garbage timestamp",
			input: `{"format":{"tags":{"creation_time":"yesterday"}}}`,
		},
		{
			name:  "not json",
			input: `ffprobe exploded`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseFfprobeJSON([]byte(tt.input))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if tt.ok && !got.Equal(tt.want) {
				t.Errorf("time = %v, want %v", got, tt.want)
			}
		})
	}
}
