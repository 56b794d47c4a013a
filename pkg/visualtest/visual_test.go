package visualtest

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCompare_Identical(t *testing.T) {
	img := solid(10, 10, color.RGBA{255, 0, 0, 255})
	result, err := Compare(img, img, DefaultOptions())
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if !result.Match {
		t.Errorf("expected images to match")
	}
	if result.DifferentPixels != 0 {
		t.Errorf("expected 0 different pixels, got %d", result.DifferentPixels)
	}
	if result.Diff != nil {
		t.Errorf("expected no diff image unless requested")
	}
}

func TestCompareImages_Different(t *testing.T) {
	tmpDir := t.TempDir()
	path1 := filepath.Join(tmpDir, "img1.png")
	path2 := filepath.Join(tmpDir, "img2.png")
	saveTestImage(t, solid(10, 10, color.RGBA{255, 0, 0, 255}), path1)
	saveTestImage(t, solid(10, 10, color.RGBA{0, 0, 255, 255}), path2)

	opts := DefaultOptions()
	opts.DiffImagePath = filepath.Join(tmpDir, "diff.png")

	result, err := CompareImages(path1, path2, opts)
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if result.Match {
		t.Errorf("expected images to not match")
	}
	if result.DifferentPixels != 100 {
		t.Errorf("expected 100 different pixels, got %d", result.DifferentPixels)
	}
	if result.MaxDifference != 255 {
		t.Errorf("expected max difference 255, got %d", result.MaxDifference)
	}
	if _, err := os.Stat(opts.DiffImagePath); os.IsNotExist(err) {
		t.Errorf("diff image was not created")
	}
}

func TestCompare_WithTolerance(t *testing.T) {
	img1 := solid(10, 10, color.RGBA{100, 100, 100, 255})
	img2 := solid(10, 10, color.RGBA{102, 102, 102, 255})

	opts := DefaultOptions()
	opts.Tolerance = 2
	result, err := Compare(img1, img2, opts)
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if !result.Match {
		t.Errorf("expected images to match with tolerance=2")
	}

	opts.Tolerance = 0
	result, err = Compare(img1, img2, opts)
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if result.Match {
		t.Errorf("expected images to not match with tolerance=0")
	}
}

func TestCompare_FuzzyAndPercent(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	img1 := solid(10, 10, white)
	img2 := solid(10, 10, white)
	img1.SetRGBA(4, 4, color.RGBA{0, 0, 0, 255})
	img2.SetRGBA(5, 4, color.RGBA{0, 0, 0, 255})

	opts := CompareOptions{Diff: true}
	result, err := Compare(img1, img2, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Match || result.DifferentPixels != 2 {
		t.Errorf("expected 2 different pixels, got %d", result.DifferentPixels)
	}
	if got := result.Diff.RGBAAt(4, 4); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red diff pixel, got %v", got)
	}

	opts.FuzzyRadius = 1
	if result, _ = Compare(img1, img2, opts); !result.Match {
		t.Errorf("expected a one-pixel shift to match with radius 1")
	}

	opts = CompareOptions{MaxDifferentPercent: 2}
	if result, _ = Compare(img1, img2, opts); !result.Match {
		t.Errorf("expected 2%% different pixels to pass, got %.1f%%", result.DifferentPercent())
	}
}

func TestCompareImages_DifferentDimensions(t *testing.T) {
	tmpDir := t.TempDir()
	path1 := filepath.Join(tmpDir, "img1.png")
	path2 := filepath.Join(tmpDir, "img2.png")
	saveTestImage(t, image.NewRGBA(image.Rect(0, 0, 10, 10)), path1)
	saveTestImage(t, image.NewRGBA(image.Rect(0, 0, 20, 20)), path2)

	result, err := CompareImages(path1, path2, DefaultOptions())
	if err == nil {
		t.Errorf("expected error for different dimensions")
	}
	if result != nil && result.Match {
		t.Errorf("expected images with different dimensions to not match")
	}
}

func TestCompareImages_MissingFile(t *testing.T) {
	if _, err := CompareImages("nope.png", "nope.png", DefaultOptions()); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// Helper function to save test images
func saveTestImage(t *testing.T, img image.Image, path string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
}
