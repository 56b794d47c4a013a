package script

import (
	"fmt"

	"github.com/dop251/goja"

	"flowframe/pkg/geom"
	"flowframe/pkg/scene"
)

// shapeProxy returns the live JS view of a shape.
func (r *Runner) shapeProxy(id string) goja.Value {
	if v, ok := r.proxies[id]; ok {
		return v
	}
	v := r.vm.NewDynamicObject(&shapeAccessor{r: r, id: id})
	r.proxies[id] = v
	return v
}

// shapeAccessor implements goja.DynamicObject. Every read goes to the store,
// so a proxy always reflects what the engine last wrote.
type shapeAccessor struct {
	r  *Runner
	id string
}

var shapeKeys = []string{
	"id", "type", "parent", "x", "y", "w", "h", "locked", "hidden",
	"rect", "points", "props", "meta", "children",
}

func (s *shapeAccessor) shape() (*scene.Shape, bool) {
	return s.r.store.Shape(s.id)
}

func (s *shapeAccessor) Get(key string) goja.Value {
	vm := s.r.vm
	if key == "id" {
		return vm.ToValue(s.id)
	}
	sh, ok := s.shape()
	if !ok {
		return goja.Undefined()
	}

	switch key {
	case "type":
		return vm.ToValue(sh.Type)
	case "parent":
		if sh.ParentID == "" {
			return goja.Null()
		}
		return vm.ToValue(sh.ParentID)
	case "x":
		return vm.ToValue(sh.X)
	case "y":
		return vm.ToValue(sh.Y)
	case "w":
		return vm.ToValue(sh.Rect().W)
	case "h":
		return vm.ToValue(sh.Rect().H)
	case "locked":
		return vm.ToValue(sh.Locked)
	case "hidden":
		return vm.ToValue(sh.Hidden())
	case "rect":
		rc := sh.Rect()
		return vm.ToValue(map[string]any{"x": rc.X, "y": rc.Y, "w": rc.W, "h": rc.H})
	case "points":
		g, ok := geom.ReadPointGeometry(sh.Props)
		if !ok {
			return goja.Null()
		}
		pts := make([]any, len(g.Points))
		for i, p := range g.Points {
			pts[i] = ptObj(p)
		}
		return vm.ToValue(pts)
	case "props":
		return vm.ToValue(sh.Props)
	case "meta":
		return vm.ToValue(sh.Meta)
	case "children":
		return vm.ToValue(s.r.store.ChildIDs(s.id))
	}
	return goja.Undefined()
}

func (s *shapeAccessor) Set(key string, val goja.Value) bool {
	var err error
	switch key {
	case "x", "y":
		sh, ok := s.shape()
		if !ok {
			return false
		}
		pos := geom.Point{X: sh.X, Y: sh.Y}
		if key == "x" {
			pos.X = val.ToFloat()
		} else {
			pos.Y = val.ToFloat()
		}
		err = s.r.store.Apply([]scene.Update{{ID: s.id, Position: &pos}})
	case "w", "h":
		err = s.r.store.Apply([]scene.Update{{ID: s.id, Props: map[string]any{key: val.ToFloat()}}})
	case "locked":
		err = s.r.store.SetLocked(s.id, val.ToBoolean())
	default:
		return false
	}
	if err != nil {
		s.r.throw(fmt.Errorf("set %s.%s: %w", s.id, key, err))
	}
	return true
}

func (s *shapeAccessor) Has(key string) bool {
	for _, k := range shapeKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (s *shapeAccessor) Delete(key string) bool {
	return false
}

func (s *shapeAccessor) Keys() []string {
	return shapeKeys
}
