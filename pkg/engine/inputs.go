package engine

import (
	"flowframe/pkg/geom"
	"flowframe/pkg/layout"
	"flowframe/pkg/meta"
	"flowframe/pkg/scene"
)

// childInput converts a host shape into the solvers' child view.
func childInput(sh *scene.Shape) layout.Child {
	ch := layout.Child{
		ID:          sh.ID,
		Box:         geom.Rect{X: sh.X, Y: sh.Y},
		Sizing:      meta.ReadSizing(sh.Meta[meta.KeySizing]),
		Constraints: meta.ReadConstraints(sh.Meta[meta.KeyConstraints]),
		Locked:      sh.Locked,
		Hidden:      sh.Hidden(),
	}
	if size, ok := sh.Size(); ok {
		ch.HasSize = true
		ch.Box.W, ch.Box.H = size.W, size.H
	}
	if g, ok := geom.ReadPointGeometry(sh.Props); ok {
		ch.Points = g
	}
	return ch
}

func containerInput(sh *scene.Shape, cl meta.ContainerLayout) layout.Container {
	return layout.Container{ID: sh.ID, Box: sh.Rect(), Layout: cl}
}

// childShapes returns snapshots of a container's direct children in order.
func childShapes(host scene.Host, id string) []*scene.Shape {
	ids := host.ChildIDs(id)
	out := make([]*scene.Shape, 0, len(ids))
	for _, cid := range ids {
		if sh, ok := host.Shape(cid); ok {
			out = append(out, sh)
		}
	}
	return out
}

func childInputs(shapes []*scene.Shape) []layout.Child {
	out := make([]layout.Child, len(shapes))
	for i, sh := range shapes {
		out[i] = childInput(sh)
	}
	return out
}

// autoLayout returns the configuration of an auto-mode container.
func autoLayout(sh *scene.Shape) (meta.ContainerLayout, bool) {
	cl, ok := sh.Layout()
	if !ok || cl.Mode != meta.ModeAuto {
		return meta.ContainerLayout{}, false
	}
	return cl, true
}
