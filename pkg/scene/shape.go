package scene

import (
	"flowframe/pkg/geom"
	"flowframe/pkg/meta"
)

// Shape is one node of the host's scene graph. X and Y are in the parent's
// coordinate space. Geometry beyond position lives in Props (w/h for boxes,
// points/handles/start/end for line-like shapes); Meta carries the layout
// metadata the engine interprets.
type Shape struct {
	ID       string
	Type     string
	ParentID string
	X, Y     float64
	Locked   bool
	Props    map[string]any
	Meta     map[string]any
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	if s == nil {
		return nil
	}
	c := *s
	c.Props = cloneMap(s.Props)
	c.Meta = cloneMap(s.Meta)
	return &c
}

// Size returns the box size stored in props, if any.
func (s *Shape) Size() (geom.Size, bool) {
	w, okW := geom.Number(s.Props["w"])
	h, okH := geom.Number(s.Props["h"])
	if !okW || !okH {
		return geom.Size{}, false
	}
	return geom.Size{W: w, H: h}, true
}

// Rect returns the shape's box in parent space. Point-based shapes report the
// bounds of their points; shapes without geometry report a 1x1 box.
func (s *Shape) Rect() geom.Rect {
	if size, ok := s.Size(); ok {
		return geom.Rect{X: s.X, Y: s.Y, W: size.W, H: size.H}
	}
	if g, ok := geom.ReadPointGeometry(s.Props); ok {
		if b, ok := g.Bounds(); ok {
			return geom.Rect{X: s.X + b.MinX, Y: s.Y + b.MinY, W: b.W, H: b.H}
		}
	}
	return geom.Rect{X: s.X, Y: s.Y, W: 1, H: 1}
}

// Hidden reports whether the shape's metadata hides it from layout.
func (s *Shape) Hidden() bool {
	return meta.IsHidden(s.Meta)
}

// Layout returns the container layout configuration, if the shape is a layout
// container.
func (s *Shape) Layout() (meta.ContainerLayout, bool) {
	return meta.ReadContainerLayout(s.Meta)
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			out[i] = cloneMap(e)
		}
		return out
	default:
		return v
	}
}
