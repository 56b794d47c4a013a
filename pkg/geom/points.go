package geom

import (
	"maps"
	"sort"
	"strconv"
)

// PointKind records which encoding a point-based shape stored its points in,
// so WriteBackPointGeometry can reproduce it.
type PointKind int

const (
	PointsArray    PointKind = iota // props.points = [{x, y}, ...]
	PointsKeyed                     // props.points = {id: {x, y, index}, ...}
	PointsHandles                   // props.handles = {id: {x, y}, ...}
	PointsStartEnd                  // props.start = {x, y}, props.end = {x, y}
)

func (k PointKind) String() string {
	switch k {
	case PointsArray:
		return "array"
	case PointsKeyed:
		return "keyed-map"
	case PointsHandles:
		return "handle-map"
	case PointsStartEnd:
		return "start-end"
	default:
		return "unknown"
	}
}

// PointGeometry is the ordered point list of a line-like shape, in the
// shape's local coordinates, tagged with its original encoding.
type PointGeometry struct {
	Kind   PointKind
	Points []Point

	// keys holds the map key of each entry for the keyed and handle encodings.
	keys []string
}

// WithPoints returns a copy of g carrying pts. pts must be in the same order
// and of the same length as g.Points.
func (g *PointGeometry) WithPoints(pts []Point) *PointGeometry {
	return &PointGeometry{Kind: g.Kind, Points: pts, keys: g.keys}
}

// Bounds returns the bounding box of the geometry's points.
func (g *PointGeometry) Bounds() (Bounds, bool) {
	if g == nil {
		return Bounds{}, false
	}
	return BoundsOf(g.Points)
}

// ReadPointGeometry recognizes the point encodings a host uses for lines,
// arrows and freehand shapes. It returns false for box shapes and for any
// encoding it does not recognize; callers then leave the shape's geometry
// alone.
func ReadPointGeometry(props map[string]any) (*PointGeometry, bool) {
	if props == nil {
		return nil, false
	}
	if raw, ok := props["points"]; ok {
		switch v := raw.(type) {
		case []any:
			return readPointArray(v)
		case []map[string]any:
			list := make([]any, len(v))
			for i, e := range v {
				list[i] = e
			}
			return readPointArray(list)
		case map[string]any:
			return readPointMap(v, PointsKeyed)
		}
		return nil, false
	}
	if raw, ok := props["handles"].(map[string]any); ok {
		return readPointMap(raw, PointsHandles)
	}
	start, okStart := readPoint(props["start"])
	end, okEnd := readPoint(props["end"])
	if okStart && okEnd {
		return &PointGeometry{Kind: PointsStartEnd, Points: []Point{start, end}}, true
	}
	return nil, false
}

func readPointArray(list []any) (*PointGeometry, bool) {
	if len(list) == 0 {
		return nil, false
	}
	pts := make([]Point, 0, len(list))
	for _, e := range list {
		p, ok := readPoint(e)
		if !ok {
			return nil, false
		}
		pts = append(pts, p)
	}
	return &PointGeometry{Kind: PointsArray, Points: pts}, true
}

func readPointMap(m map[string]any, kind PointKind) (*PointGeometry, bool) {
	if len(m) == 0 {
		return nil, false
	}
	keys := orderedKeys(m)
	pts := make([]Point, 0, len(keys))
	for _, k := range keys {
		p, ok := readPoint(m[k])
		if !ok {
			return nil, false
		}
		pts = append(pts, p)
	}
	return &PointGeometry{Kind: kind, Points: pts, keys: keys}, true
}

// orderedKeys sorts map entries by their fractional "index" field when every
// entry carries one, otherwise by key.
func orderedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	indexed := true
	for k, v := range m {
		keys = append(keys, k)
		e, ok := v.(map[string]any)
		if !ok {
			indexed = false
			continue
		}
		if _, ok := e["index"].(string); !ok {
			indexed = false
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if indexed {
			a := m[keys[i]].(map[string]any)["index"].(string)
			b := m[keys[j]].(map[string]any)["index"].(string)
			if a != b {
				return a < b
			}
		}
		return keys[i] < keys[j]
	})
	return keys
}

func readPoint(v any) (Point, bool) {
	e, ok := v.(map[string]any)
	if !ok {
		return Point{}, false
	}
	x, okX := Number(e["x"])
	y, okY := Number(e["y"])
	if !okX || !okY {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

// BoundsOf returns the tight box around points. It returns false for an empty
// set or when any coordinate is non-finite. Width and height are floored at
// Epsilon.
func BoundsOf(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points {
		if !IsFinite(p.X) || !IsFinite(p.Y) {
			return Bounds{}, false
		}
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Bounds{
		MinX: minX,
		MinY: minY,
		W:    max(maxX-minX, Epsilon),
		H:    max(maxY-minY, Epsilon),
	}, true
}

// ScaleAroundMin scales points about the origin of their bounding box and
// returns a new slice. Non-finite factors are treated as 1, and an axis whose
// factor is exactly 1 is copied without arithmetic so it stays bit-identical.
func ScaleAroundMin(points []Point, sx, sy float64) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	if !IsFinite(sx) {
		sx = 1
	}
	if !IsFinite(sy) {
		sy = 1
	}
	if sx == 1 && sy == 1 {
		return out
	}
	b, ok := BoundsOf(points)
	if !ok {
		return out
	}
	for i, p := range points {
		if sx != 1 {
			out[i].X = b.MinX + (p.X-b.MinX)*sx
		}
		if sy != 1 {
			out[i].Y = b.MinY + (p.Y-b.MinY)*sy
		}
	}
	return out
}

// WriteBackPointGeometry returns the props patch that stores g in the
// encoding recorded when it was read from props. Entries whose coordinates
// did not change are reused as-is, so writing back an unscaled geometry
// reproduces the original values exactly.
func WriteBackPointGeometry(props map[string]any, g *PointGeometry) map[string]any {
	if g == nil {
		return nil
	}
	switch g.Kind {
	case PointsArray:
		orig, _ := props["points"].([]any)
		if typed, ok := props["points"].([]map[string]any); ok {
			orig = make([]any, len(typed))
			for i, e := range typed {
				orig[i] = e
			}
		}
		list := make([]any, len(g.Points))
		for i, p := range g.Points {
			var prev any
			if i < len(orig) {
				prev = orig[i]
			}
			list[i] = rewritePoint(prev, p)
		}
		if _, ok := props["points"].([]map[string]any); ok {
			// Keep the host's slice type.
			typed := make([]map[string]any, len(list))
			for i, e := range list {
				typed[i] = e.(map[string]any)
			}
			return map[string]any{"points": typed}
		}
		return map[string]any{"points": list}
	case PointsKeyed, PointsHandles:
		field := "points"
		if g.Kind == PointsHandles {
			field = "handles"
		}
		orig, _ := props[field].(map[string]any)
		out := make(map[string]any, len(g.Points))
		for i, p := range g.Points {
			key := keyAt(g, i)
			out[key] = rewritePoint(orig[key], p)
		}
		return map[string]any{field: out}
	case PointsStartEnd:
		if len(g.Points) != 2 {
			return nil
		}
		return map[string]any{
			"start": rewritePoint(props["start"], g.Points[0]),
			"end":   rewritePoint(props["end"], g.Points[1]),
		}
	}
	return nil
}

func keyAt(g *PointGeometry, i int) string {
	if i < len(g.keys) {
		return g.keys[i]
	}
	return "p" + strconv.Itoa(i)
}

// rewritePoint keeps every field of the previous entry and replaces only the
// coordinates that moved.
func rewritePoint(prev any, p Point) any {
	e, ok := prev.(map[string]any)
	if !ok {
		return map[string]any{"x": p.X, "y": p.Y}
	}
	ox, okX := Number(e["x"])
	oy, okY := Number(e["y"])
	if okX && okY && ox == p.X && oy == p.Y {
		return prev
	}
	out := maps.Clone(e)
	if !okX || ox != p.X {
		out["x"] = p.X
	}
	if !okY || oy != p.Y {
		out["y"] = p.Y
	}
	return out
}
