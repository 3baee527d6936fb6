package sorter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dagslott/imagesort/testutil"
)

func TestSortImagesUndated(t *testing.T) {
	src := testutil.TempDir(t, "sorter-src")
	dst := testutil.TempDir(t, "sorter-dst")

	// PNG without EXIF data cannot be dated, so it lands in the Undated folder.
	img := testutil.CreateTestImage(t, src, "nodate.png", testutil.GradientImage(16, 16, 1))

	result := SortImages([]string{img}, dst, MethodCopy, Config{})
	if result.Errors != 0 {
		t.Fatalf("Errors = %d: %v", result.Errors, result.ErrorMessages)
	}
	if result.Success != 1 {
		t.Fatalf("Success = %d, want 1", result.Success)
	}
	testutil.AssertFileExists(t, filepath.Join(dst, undatedFolder, "nodate.png"))
	// Copy leaves the original in place.
	testutil.AssertFileExists(t, img)
}

func TestSortImagesMoveRemovesOriginal(t *testing.T) {
	src := testutil.TempDir(t, "sorter-move-src")
	dst := testutil.TempDir(t, "sorter-move-dst")
	img := testutil.CreateTestImage(t, src, "shot.png", testutil.GradientImage(16, 16, 2))

	result := SortImages([]string{img}, dst, MethodMove, Config{})
	if result.Success != 1 {
		t.Fatalf("Success = %d, want 1: %v", result.Success, result.ErrorMessages)
	}
	testutil.AssertFileNotExists(t, img)
	testutil.AssertFileExists(t, filepath.Join(dst, undatedFolder, "shot.png"))
}

func TestSortImagesErrors(t *testing.T) {
	t.Run("missing target folder", func(t *testing.T) {
		src := testutil.TempDir(t, "sorter-notarget-src")
		img := testutil.CreateTestFile(t, src, "a.jpg", "x")

		result := SortImages([]string{img}, "/no/such/target", MethodCopy, Config{})
		if result.Errors != 1 || result.Success != 0 {
			t.Errorf("result = %+v, want one error and no successes", result)
		}
	})

	t.Run("missing source file counted, batch continues", func(t *testing.T) {
		src := testutil.TempDir(t, "sorter-missing-src")
		dst := testutil.TempDir(t, "sorter-missing-dst")
		good := testutil.CreateTestImage(t, src, "good.png", testutil.GradientImage(16, 16, 3))

		result := SortImages([]string{filepath.Join(src, "ghost.jpg"), good}, dst, MethodCopy, Config{})
		if result.Errors != 1 {
			t.Errorf("Errors = %d, want 1", result.Errors)
		}
		if result.Success != 1 {
			t.Errorf("Success = %d, want 1", result.Success)
		}
		if result.Processed != 2 {
			t.Errorf("Processed = %d, want 2", result.Processed)
		}
	})
}

func TestMoveImages(t *testing.T) {
	src := testutil.TempDir(t, "moveimages-src")
	dst := testutil.TempDir(t, "moveimages-dst")

	a := testutil.CreateTestFile(t, src, "a.jpg", "aaa")
	b := testutil.CreateTestFile(t, src, "b.jpg", "bbb")

	result := MoveImages([]string{a, b}, dst)
	if result.Success != 2 || result.Errors != 0 {
		t.Fatalf("result = %+v, want 2 successes", result)
	}
	testutil.AssertFileNotExists(t, a)
	testutil.AssertFileExists(t, filepath.Join(dst, "a.jpg"))
	testutil.AssertFileExists(t, filepath.Join(dst, "b.jpg"))
}

func TestCollisionResolution(t *testing.T) {
	srcA := testutil.TempDir(t, "collision-src-a")
	srcB := testutil.TempDir(t, "collision-src-b")
	dst := testutil.TempDir(t, "collision-dst")

	a := testutil.CreateTestFile(t, srcA, "photo.jpg", "first")
	b := testutil.CreateTestFile(t, srcB, "photo.jpg", "second")

	if r := MoveImages([]string{a}, dst); r.Success != 1 {
		t.Fatalf("first move failed: %+v", r)
	}
	if r := MoveImages([]string{b}, dst); r.Success != 1 {
		t.Fatalf("second move failed: %+v", r)
	}

	testutil.AssertFileExists(t, filepath.Join(dst, "photo.jpg"))
	renamed := filepath.Join(dst, "photo_1.jpg")
	testutil.AssertFileExists(t, renamed)

	data, err := os.ReadFile(renamed)
	if err != nil {
		t.Fatalf("read renamed file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("renamed file holds %q, want %q", data, "second")
	}
}

func TestSidecarsTravelWithImage(t *testing.T) {
	t.Run("stem sidecar follows a rename", func(t *testing.T) {
		src := testutil.TempDir(t, "sidecar-move-src")
		dst := testutil.TempDir(t, "sidecar-move-dst")

		img := testutil.CreateTestFile(t, src, "photo.jpg", "img")
		testutil.CreateTestFile(t, src, "photo.xmp", "meta")
		// Occupy the destination name to force a collision rename.
		testutil.CreateTestFile(t, dst, "photo.jpg", "occupied")

		if r := MoveImages([]string{img}, dst); r.Success != 1 {
			t.Fatalf("move failed: %+v", r)
		}
		testutil.AssertFileExists(t, filepath.Join(dst, "photo_1.jpg"))
		testutil.AssertFileExists(t, filepath.Join(dst, "photo_1.xmp"))
		testutil.AssertFileNotExists(t, filepath.Join(src, "photo.xmp"))
	})

	t.Run("full-filename sidecar is rebuilt from the final name", func(t *testing.T) {
		src := testutil.TempDir(t, "takeout-move-src")
		dst := testutil.TempDir(t, "takeout-move-dst")

		img := testutil.CreateTestFile(t, src, "img.jpg", "img")
		testutil.CreateTestFile(t, src, "img.jpg.json", "{}")

		if r := MoveImages([]string{img}, dst); r.Success != 1 {
			t.Fatalf("move failed: %+v", r)
		}
		testutil.AssertFileExists(t, filepath.Join(dst, "img.jpg.json"))
	})

	t.Run("copy duplicates the sidecar", func(t *testing.T) {
		src := testutil.TempDir(t, "sidecar-copy-src")
		dst := testutil.TempDir(t, "sidecar-copy-dst")

		img := testutil.CreateTestImage(t, src, "pic.png", testutil.GradientImage(16, 16, 4))
		xmp := testutil.CreateTestFile(t, src, "pic.xmp", "meta")

		if r := SortImages([]string{img}, dst, MethodCopy, Config{}); r.Success != 1 {
			t.Fatalf("copy failed: %+v", r)
		}
		testutil.AssertFileExists(t, xmp)
		testutil.AssertFileExists(t, filepath.Join(dst, undatedFolder, "pic.xmp"))
	})
}

func TestDeleteImages(t *testing.T) {
	dir := testutil.TempDir(t, "delete-test")

	img := testutil.CreateTestFile(t, dir, "photo.jpg", "img")
	xmp := testutil.CreateTestFile(t, dir, "photo.xmp", "meta")
	missing := filepath.Join(dir, "ghost.jpg")

	result := DeleteImages([]string{img, missing})
	if result.Success != 1 {
		t.Errorf("Success = %d, want 1", result.Success)
	}
	if result.Errors != 1 {
		t.Errorf("Errors = %d, want 1", result.Errors)
	}
	testutil.AssertFileNotExists(t, img)
	testutil.AssertFileNotExists(t, xmp)
}

func TestResolveCollision(t *testing.T) {
	dir := testutil.TempDir(t, "resolve-test")

	t.Run("free name unchanged", func(t *testing.T) {
		got := resolveCollision(dir, "fresh.jpg")
		if got != filepath.Join(dir, "fresh.jpg") {
			t.Errorf("resolveCollision = %q", got)
		}
	})

	t.Run("counter skips taken names", func(t *testing.T) {
		testutil.CreateTestFile(t, dir, "busy.jpg", "1")
		testutil.CreateTestFile(t, dir, "busy_1.jpg", "2")

		got := resolveCollision(dir, "busy.jpg")
		if got != filepath.Join(dir, "busy_2.jpg") {
			t.Errorf("resolveCollision = %q, want busy_2.jpg", got)
		}
	})

	t.Run("extensionless file", func(t *testing.T) {
		testutil.CreateTestFile(t, dir, "noext", "1")
		got := resolveCollision(dir, "noext")
		if got != filepath.Join(dir, "noext_1") {
			t.Errorf("resolveCollision = %q, want noext_1", got)
		}
	})
}
