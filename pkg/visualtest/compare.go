package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// CompareResult contains the results of an image comparison
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // Max color channel difference found

	// Diff marks mismatching pixels in red over a grayscale copy of the
	// actual image. It is only set when CompareOptions.Diff is true.
	Diff *image.RGBA
}

// DifferentPercent returns the share of mismatching pixels, 0-100.
func (r *CompareResult) DifferentPercent() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DifferentPixels) / float64(r.TotalPixels) * 100
}

// CompareOptions configures the image comparison
type CompareOptions struct {
	// Tolerance: maximum allowed difference per color channel (0-255)
	Tolerance int

	// FuzzyRadius: if > 0, a pixel matches if it matches any pixel within this radius.
	// Absorbs one-pixel shifts from anti-aliased edges.
	FuzzyRadius int

	// MaxDifferentPercent: if > 0, pass if the percentage of different pixels is <= this value
	MaxDifferentPercent float64

	// Diff builds CompareResult.Diff.
	Diff bool

	// DiffImagePath, when set, receives the diff image of a failed comparison.
	DiffImagePath string
}

// DefaultOptions returns sensible defaults for image comparison
func DefaultOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

// Compare compares two images pixel by pixel.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &CompareResult{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &CompareResult{
		Match:       true,
		TotalPixels: bounds.Dx() * bounds.Dy(),
	}
	if opts.Diff || opts.DiffImagePath != "" {
		result.Diff = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := actual.At(x, y)
			diff := channelDiff(a, expected.At(x, y))
			result.MaxDifference = max(result.MaxDifference, diff)

			same := diff <= opts.Tolerance ||
				(opts.FuzzyRadius > 0 && fuzzyMatch(a, expected, x, y, opts.FuzzyRadius, opts.Tolerance))
			if !same {
				result.Match = false
				result.DifferentPixels++
			}
			if result.Diff != nil {
				result.Diff.Set(x, y, diffPixel(a, same))
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.DifferentPercent() <= opts.MaxDifferentPercent {
		result.Match = true
	}

	if !result.Match && opts.DiffImagePath != "" {
		if err := savePNG(result.Diff, opts.DiffImagePath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}
	if !opts.Diff {
		result.Diff = nil
	}
	return result, nil
}

// CompareImages compares two PNG files pixel by pixel.
func CompareImages(actualPath, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	actualImg, err := loadPNG(actualPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load actual image: %w", err)
	}
	expectedImg, err := loadPNG(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load expected image: %w", err)
	}
	return Compare(actualImg, expectedImg, opts)
}

// channelDiff returns the largest 8-bit channel difference between two colors.
func channelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(
		absDiff(ar, br),
		absDiff(ag, bg),
		absDiff(ab, bb),
		absDiff(aa, ba),
	)
}

func absDiff(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}

// fuzzyMatch checks if the actual pixel matches any expected pixel within radius
func fuzzyMatch(a color.Color, expected image.Image, x, y, radius, tolerance int) bool {
	bounds := expected.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(bounds) {
				continue
			}
			if channelDiff(a, expected.At(p.X, p.Y)) <= tolerance {
				return true
			}
		}
	}
	return false
}

func diffPixel(a color.Color, same bool) color.RGBA {
	if !same {
		return color.RGBA{R: 255, A: 255}
	}
	g := color.GrayModel.Convert(a).(color.Gray).Y
	return color.RGBA{R: g, G: g, B: g, A: 255}
}

func loadPNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return png.Decode(file)
}

// savePNG saves an image as PNG
func savePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
