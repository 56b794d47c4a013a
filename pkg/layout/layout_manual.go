package layout

import (
	"flowframe/pkg/geom"
	"flowframe/pkg/meta"
)

// ComputeManualConstraints re-anchors children after their container was
// resized from oldSize to newSize. Each child is computed from its baseline
// alone, so the result only depends on the three inputs; a pure move
// (oldSize == newSize) returns no patches.
func ComputeManualConstraints(oldSize, newSize geom.Size, baselines []Child) []ChildPatch {
	if oldSize == newSize {
		return nil
	}
	if !geom.IsFinite(oldSize.W) || !geom.IsFinite(oldSize.H) ||
		!geom.IsFinite(newSize.W) || !geom.IsFinite(newSize.H) {
		return nil
	}

	patches := make([]ChildPatch, 0, len(baselines))
	for _, ch := range baselines {
		if !ch.Participates() {
			continue
		}
		it := naturalItem(ch)
		x, w := resolveAnchor(ch.Constraints.H, it.box.X, it.box.W, oldSize.W, newSize.W)
		y, h := resolveAnchor(ch.Constraints.V, it.box.Y, it.box.H, oldSize.H, newSize.H)
		patches = append(patches, it.place(x, y, w, h))
	}
	return patches
}

// resolveAnchor computes position and size along one axis from the child's
// baseline offsets to the old container edges.
func resolveAnchor(anchor meta.Anchor, pos, size, oldExtent, newExtent float64) (float64, float64) {
	startOffset := pos
	endOffset := oldExtent - (pos + size)

	switch anchor {
	case meta.AnchorEnd:
		return newExtent - endOffset - size, size
	case meta.AnchorStretch:
		return startOffset, geom.AtLeast(newExtent-startOffset-endOffset, 1)
	case meta.AnchorCenter:
		centerOffset := (pos + size/2) - oldExtent/2
		return newExtent/2 + centerOffset - size/2, size
	default:
		return pos, size
	}
}
