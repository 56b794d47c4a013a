package geom

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Epsilon is the smallest extent a bounding box is allowed to have. Degenerate
// point sets (a horizontal line has zero height) are floored to it so scale
// factors derived from a box never divide by zero.
const Epsilon = 1e-4

// Point represents an (X, Y) coordinate.
type Point struct {
	X, Y float64
}

// Size represents a width/height pair.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned box in its parent's coordinate space.
type Rect struct {
	X, Y, W, H float64
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Bounds is the tight box around a point set.
type Bounds struct {
	MinX, MinY float64
	W, H       float64
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Sanitize returns v, or fallback when v is NaN or infinite.
func Sanitize(v, fallback float64) float64 {
	if !IsFinite(v) {
		return fallback
	}
	return v
}

// Clamp limits v to [lo, hi]. NaN becomes lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AtLeast returns v floored at min. NaN becomes min.
func AtLeast(v, min float64) float64 {
	if math.IsNaN(v) || v < min {
		return min
	}
	return v
}

// Number coerces a host value into a float64. Hosts hand us numbers in many
// shapes (JSON decoders produce float64 or json.Number, goja exports int64,
// hand-written fixtures use int), so all of them are accepted.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// NumberOr returns the coerced number, or fallback when v is missing,
// unparseable or non-finite.
func NumberOr(v any, fallback float64) float64 {
	f, ok := Number(v)
	if !ok || !IsFinite(f) {
		return fallback
	}
	return f
}
