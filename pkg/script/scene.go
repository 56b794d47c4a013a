package script

import (
	"fmt"

	"github.com/dop251/goja"

	"flowframe/pkg/geom"
	"flowframe/pkg/meta"
	"flowframe/pkg/scene"
)

// shapeDefaults are the geometry a shape kind gets when a script leaves it
// out.
var shapeDefaults = map[string]func() map[string]any{
	"frame": func() map[string]any { return map[string]any{"w": 200.0, "h": 100.0} },
	"geo":   func() map[string]any { return map[string]any{"w": 50.0, "h": 50.0} },
	"line": func() map[string]any {
		return map[string]any{"points": []any{ptObj(geom.Point{}), ptObj(geom.Point{X: 100})}}
	},
	"arrow": func() map[string]any {
		return map[string]any{"start": ptObj(geom.Point{}), "end": ptObj(geom.Point{X: 100})}
	},
}

// registerScene sets up the global `scene` object.
func (r *Runner) registerScene() {
	vm := r.vm
	obj := vm.NewObject()
	obj.Set("container", r.createFn("frame"))
	obj.Set("box", r.createFn("geo"))
	obj.Set("line", r.createFn("line"))
	obj.Set("arrow", r.createFn("arrow"))

	obj.Set("get", func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).String()
		if _, ok := r.store.Shape(id); !ok {
			return goja.Null()
		}
		return r.shapeProxy(id)
	})
	obj.Set("select", func(call goja.FunctionCall) goja.Value {
		ids := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			ids[i] = arg.String()
		}
		r.store.Select(ids...)
		return goja.Undefined()
	})
	obj.Set("setMeta", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			panic(vm.NewTypeError("Failed to execute 'setMeta': 3 arguments required"))
		}
		id, key := call.Argument(0).String(), call.Argument(1).String()
		r.apply("setMeta", scene.Update{ID: id, Meta: map[string]any{key: export(call.Argument(2))}})
		return goja.Undefined()
	})
	obj.Set("setProps", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'setProps': 2 arguments required"))
		}
		r.apply("setProps", scene.Update{ID: call.Argument(0).String(), Props: options(call, 1)})
		return goja.Undefined()
	})
	obj.Set("move", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			panic(vm.NewTypeError("Failed to execute 'move': 3 arguments required"))
		}
		pos := geom.Point{X: call.Argument(1).ToFloat(), Y: call.Argument(2).ToFloat()}
		r.apply("move", scene.Update{ID: call.Argument(0).String(), Position: &pos})
		return goja.Undefined()
	})
	obj.Set("lock", func(call goja.FunctionCall) goja.Value {
		locked := true
		if len(call.Arguments) > 1 {
			locked = call.Argument(1).ToBoolean()
		}
		if err := r.store.SetLocked(call.Argument(0).String(), locked); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).String()
		if err := r.store.Remove(id); err != nil {
			r.throw(err)
		}
		for pid := range r.proxies {
			if _, ok := r.store.Shape(pid); !ok {
				delete(r.proxies, pid)
			}
		}
		return goja.Undefined()
	})
	obj.Set("reparent", func(call goja.FunctionCall) goja.Value {
		index := -1
		if len(call.Arguments) > 2 {
			index = int(call.Argument(2).ToInteger())
		}
		if err := r.store.Reparent(call.Argument(0).String(), parentArg(call.Argument(1)), index); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("children", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(r.store.ChildIDs(parentArg(call.Argument(0))))
	})
	vm.Set("scene", obj)
}

func parentArg(v goja.Value) string {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

func (r *Runner) apply(op string, u scene.Update) {
	if err := r.store.Apply([]scene.Update{u}); err != nil {
		r.throw(fmt.Errorf("%s: %w", op, err))
	}
}

// createFn builds scene.container/box/line/arrow. The options object accepts
// parent, x, y, locked, the kind's geometry (w/h, points, start/end, handles),
// the metadata keys layout, sizing, constraints and hidden, and extra props.
func (r *Runner) createFn(kind string) func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(r.vm.NewTypeError(fmt.Sprintf("Failed to execute '%s': id required", kind)))
		}
		opts := options(call, 1)
		sh := &scene.Shape{
			ID:       call.Argument(0).String(),
			Type:     kind,
			ParentID: str(opts, "parent"),
			X:        number(opts, "x", 0),
			Y:        number(opts, "y", 0),
			Props:    shapeDefaults[kind](),
			Meta:     map[string]any{},
		}
		if locked, ok := opts["locked"].(bool); ok {
			sh.Locked = locked
		}
		if extra, ok := opts["props"].(map[string]any); ok {
			for k, v := range extra {
				sh.Props[k] = v
			}
		}
		for _, k := range []string{"w", "h", "points", "handles", "start", "end"} {
			if v, ok := opts[k]; ok {
				sh.Props[k] = v
			}
		}
		if _, ok := opts["handles"]; ok {
			delete(sh.Props, "points")
		}
		for _, k := range []string{meta.KeyLayout, meta.KeySizing, meta.KeyConstraints, meta.KeyHidden} {
			if v, ok := opts[k]; ok {
				sh.Meta[k] = v
			}
		}
		if kind == "frame" {
			if _, ok := sh.Meta[meta.KeyLayout]; !ok {
				sh.Meta[meta.KeyLayout] = map[string]any{"mode": meta.ModeAuto.String()}
			}
		}
		if err := r.store.Create(sh); err != nil {
			r.throw(err)
		}
		return r.shapeProxy(sh.ID)
	}
}
