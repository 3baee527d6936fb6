package config

import (
	"path/filepath"
	"testing"

	"github.com/dagslott/imagesort/internal/sorter"
	"github.com/dagslott/imagesort/testutil"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		dir := testutil.TempDir(t, "config-missing-test")
		cfg, err := Load(filepath.Join(dir, "nope.yaml"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		want := Default()
		if *cfg != *want {
			t.Errorf("Load = %+v, want defaults %+v", cfg, want)
		}
	})

	t.Run("partial file keeps defaults for omitted keys", func(t *testing.T) {
		dir := testutil.TempDir(t, "config-partial-test")
		path := testutil.CreateTestFile(t, dir, "imagesort.yaml", "engine:\n  threshold: 3\n")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Engine.Threshold != 3 {
			t.Errorf("Threshold = %d, want 3", cfg.Engine.Threshold)
		}
		if cfg.Engine.Algorithm != "difference" {
			t.Errorf("Algorithm = %q, want default %q", cfg.Engine.Algorithm, "difference")
		}
		if cfg.Engine.HashWorkers != 16 {
			t.Errorf("HashWorkers = %d, want default 16", cfg.Engine.HashWorkers)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := testutil.TempDir(t, "config-invalid-test")
		path := testutil.CreateTestFile(t, dir, "imagesort.yaml", "engine: [broken")
		if _, err := Load(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})

	t.Run("threshold out of range", func(t *testing.T) {
		dir := testutil.TempDir(t, "config-range-test")
		for _, body := range []string{
			"engine:\n  threshold: -1\n",
			"engine:\n  threshold: 65\n",
		} {
			path := testutil.CreateTestFile(t, dir, "imagesort.yaml", body)
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %q", body)
			}
		}
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := testutil.TempDir(t, "config-roundtrip-test")
	path := filepath.Join(dir, "nested", "imagesort.yaml")

	want := &Config{
		Engine: EngineConfig{
			Threshold:     7,
			HashWorkers:   4,
			DecodeWorkers: 2,
			Algorithm:     "perception",
			CacheDir:      "/var/cache/imagesort",
		},
		Sort: sorter.Config{
			UseDayFolder:  true,
			UseMonthNames: true,
		},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	testutil.AssertFileExists(t, path)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
