package layout

import (
	"flowframe/pkg/geom"
)

// layoutItem is a participating child with its resolved natural box.
type layoutItem struct {
	child  Child
	box    geom.Rect   // natural box in container space
	bounds geom.Bounds // point bounds in shape space (point children only)
	points bool
}

// naturalItem resolves a child's current box: explicit w/h first, then the
// bounds of its point geometry, then a 1x1 fallback.
func naturalItem(ch Child) layoutItem {
	it := layoutItem{child: ch}
	x := geom.Sanitize(ch.Box.X, 0)
	y := geom.Sanitize(ch.Box.Y, 0)

	if b, ok := ch.Points.Bounds(); ok {
		it.points = true
		it.bounds = b
		if !ch.HasSize {
			it.box = geom.Rect{X: x + b.MinX, Y: y + b.MinY, W: b.W, H: b.H}
			return it
		}
	}
	if ch.HasSize {
		it.box = geom.Rect{
			X: x,
			Y: y,
			W: geom.AtLeast(geom.Sanitize(ch.Box.W, 1), geom.Epsilon),
			H: geom.AtLeast(geom.Sanitize(ch.Box.H, 1), geom.Epsilon),
		}
		if it.points {
			it.box.X += it.bounds.MinX
			it.box.Y += it.bounds.MinY
		}
		return it
	}
	it.box = geom.Rect{X: x, Y: y, W: 1, H: 1}
	return it
}

// place builds the patch that moves the item's box to (x, y) with size
// (w, h). Point children are rescaled about their bounds origin and the shape
// origin is shifted so the bounds land on the slot. Box sizes are floored at 1;
// an unchanged point extent is kept so flat lines stay flat.
func (it layoutItem) place(x, y, w, h float64) ChildPatch {
	if !it.points {
		w = geom.AtLeast(w, 1)
		h = geom.AtLeast(h, 1)
	}
	p := ChildPatch{ID: it.child.ID, X: x, Y: y, W: w, H: h}

	switch {
	case it.points:
		sx, sy := 1.0, 1.0
		if w != it.box.W {
			sx = w / it.bounds.W
		}
		if h != it.box.H {
			sy = h / it.bounds.H
		}
		pts := geom.ScaleAroundMin(it.child.Points.Points, sx, sy)
		p.Kind = PatchPoints
		p.Points = it.child.Points.WithPoints(pts)
		p.X = x - it.bounds.MinX
		p.Y = y - it.bounds.MinY
	case it.child.HasSize:
		p.Kind = PatchBox
	default:
		p.Kind = PatchMove
	}
	return p
}
