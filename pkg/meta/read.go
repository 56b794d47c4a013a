package meta

import (
	"strings"

	"flowframe/pkg/geom"
)

// ReadSizing parses a child's sizing metadata. Each axis defaults to fixed.
func ReadSizing(raw any) Sizing {
	m := asMap(raw)
	return Sizing{
		X: readSizeMode(m["sizeX"], true),
		Y: readSizeMode(m["sizeY"], true),
	}
}

// ReadConstraints parses a child's anchor metadata, defaulting to left/top.
// The legacy token "scale" means stretch on either axis.
func ReadConstraints(raw any) Constraints {
	m := asMap(raw)
	return Constraints{
		H: readAnchor(m["h"]),
		V: readAnchor(m["v"]),
	}
}

// ReadContainerLayout reads the container layout configuration from a
// shape's metadata. It returns false when the shape carries no layout key,
// meaning the shape is not a layout container.
func ReadContainerLayout(shapeMeta map[string]any) (ContainerLayout, bool) {
	raw, ok := shapeMeta[KeyLayout]
	if !ok || raw == nil {
		return ContainerLayout{}, false
	}
	m := asMap(raw)
	if m == nil {
		// A bare token such as "auto" or "manual" is accepted.
		s, isString := raw.(string)
		if !isString {
			return ContainerLayout{}, false
		}
		m = map[string]any{"mode": s}
	}

	cl := ContainerLayout{
		Mode:       readMode(m["mode"]),
		Direction:  readDirection(m["direction"]),
		Gap:        geom.NumberOr(m["gap"], 0),
		Padding:    readEdges(m["padding"]),
		AlignCross: readAlign(m["alignCross"]),
		// Containers cannot fill their parent through this key.
		SizeX: readSizeMode(m["sizeX"], false),
		SizeY: readSizeMode(m["sizeY"], false),
	}
	return cl, true
}

// IsHidden reports whether the shape's metadata excludes it from layout.
func IsHidden(shapeMeta map[string]any) bool {
	switch v := shapeMeta[KeyHidden].(type) {
	case bool:
		return v
	case string:
		return token(v) == "true"
	}
	return false
}

func asMap(raw any) map[string]any {
	switch m := raw.(type) {
	case map[string]any:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	return nil
}

func token(v any) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}

func readSizeMode(v any, allowFill bool) SizeMode {
	switch token(v) {
	case "hug", "auto", "fit":
		return SizeHug
	case "fill":
		if allowFill {
			return SizeFill
		}
	}
	return SizeFixed
}

func readAnchor(v any) Anchor {
	switch token(v) {
	case "right", "bottom", "end":
		return AnchorEnd
	case "leftright", "topbottom", "left-right", "top-bottom", "stretch", "scale":
		return AnchorStretch
	case "center", "centre", "middle":
		return AnchorCenter
	}
	return AnchorStart
}

func readMode(v any) Mode {
	if token(v) == "manual" {
		return ModeManual
	}
	return ModeAuto
}

func readDirection(v any) Direction {
	switch token(v) {
	case "vertical", "column", "col", "v":
		return Vertical
	}
	return Horizontal
}

func readAlign(v any) Align {
	switch token(v) {
	case "center", "centre", "middle":
		return AlignCenter
	case "end", "right", "bottom":
		return AlignEnd
	}
	return AlignStart
}

func readEdges(v any) Edges {
	if m := asMap(v); m != nil {
		return Edges{
			Top:    geom.NumberOr(m["top"], 0),
			Right:  geom.NumberOr(m["right"], 0),
			Bottom: geom.NumberOr(m["bottom"], 0),
			Left:   geom.NumberOr(m["left"], 0),
		}
	}
	return EdgeAll(geom.NumberOr(v, 0))
}
