package scene

import (
	"fmt"

	"flowframe/pkg/geom"
)

// gesture is an in-progress interactive resize. start holds the container
// and every descendant as they were when the gesture began; the editor's
// default transform always scales from that snapshot.
type gesture struct {
	containerID string
	start       map[string]*Shape
	startSize   geom.Size
}

// BeginResize starts an interactive resize of a box-shaped container.
func (s *Store) BeginResize(id string) error {
	if s.gesture != nil {
		return fmt.Errorf("begin resize %q: a resize of %q is already in progress", id, s.gesture.containerID)
	}
	sh, ok := s.shapes[id]
	if !ok {
		return fmt.Errorf("begin resize: shape %q not found", id)
	}
	size, ok := sh.Size()
	if !ok || size.W <= 0 || size.H <= 0 {
		return fmt.Errorf("begin resize %q: shape has no box size", id)
	}
	g := &gesture{containerID: id, start: make(map[string]*Shape), startSize: size}
	g.start[id] = sh.Clone()
	s.eachDescendant(id, func(d *Shape) { g.start[d.ID] = d.Clone() })
	s.gesture = g
	return nil
}

// ResizeTo moves the active gesture to a new container size. Like an editor's
// default resize, it scales every descendant's position, size and points by
// the same factors relative to the gesture start, and emits all of it as one
// change batch.
func (s *Store) ResizeTo(w, h float64) error {
	g := s.gesture
	if g == nil {
		return fmt.Errorf("resize: no resize in progress")
	}
	if !geom.IsFinite(w) || !geom.IsFinite(h) {
		return fmt.Errorf("resize: non-finite size %vx%v", w, h)
	}
	w, h = geom.AtLeast(w, 1), geom.AtLeast(h, 1)
	sx, sy := w/g.startSize.W, h/g.startSize.H

	var changes []Change
	container := s.shapes[g.containerID]
	if container == nil {
		s.gesture = nil
		return fmt.Errorf("resize: container %q was removed", g.containerID)
	}
	before := container.Clone()
	container.Props["w"] = w
	container.Props["h"] = h
	changes = append(changes, Change{Before: before, After: container.Clone()})

	s.eachDescendant(g.containerID, func(d *Shape) {
		orig, ok := g.start[d.ID]
		if !ok {
			return
		}
		before := d.Clone()
		scaleShape(d, orig, sx, sy)
		changes = append(changes, Change{Before: before, After: d.Clone()})
	})
	s.emit(ChangeBatch{Updated: changes})
	return nil
}

// EndResize finishes the gesture. It emits nothing: like real editors, the
// "resizing" flag drops on pointer up independently of any final commit.
func (s *Store) EndResize() {
	s.gesture = nil
}

// ResizingID returns the container of the active gesture.
func (s *Store) ResizingID() (string, bool) {
	if s.gesture == nil {
		return "", false
	}
	return s.gesture.containerID, true
}

func (s *Store) eachDescendant(id string, fn func(*Shape)) {
	for _, child := range s.children[id] {
		fn(s.shapes[child])
		s.eachDescendant(child, fn)
	}
}

// scaleShape sets d to orig scaled by (sx, sy) about its parent's origin.
func scaleShape(d, orig *Shape, sx, sy float64) {
	d.X = orig.X * sx
	d.Y = orig.Y * sy
	if size, ok := orig.Size(); ok {
		d.Props["w"] = size.W * sx
		d.Props["h"] = size.H * sy
		return
	}
	g, ok := geom.ReadPointGeometry(orig.Props)
	if !ok {
		return
	}
	pts := make([]geom.Point, len(g.Points))
	for i, p := range g.Points {
		pts[i] = geom.Point{X: p.X * sx, Y: p.Y * sy}
	}
	for k, v := range geom.WriteBackPointGeometry(orig.Props, g.WithPoints(pts)) {
		d.Props[k] = cloneValue(v)
	}
}
