package script

import (
	"errors"
	"fmt"
	"math"

	"github.com/dop251/goja"
)

// registerGesture sets up the global `gesture` object, which plays the part
// of an editor's resize handle: it drives the store's resize gesture and
// forwards the matching pointer hooks to the engine.
func (r *Runner) registerGesture() {
	vm := r.vm
	obj := vm.NewObject()
	obj.Set("begin", func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).String()
		r.store.Select(id)
		if err := r.store.BeginResize(id); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("resize", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'resize': 2 arguments required"))
		}
		if err := r.store.ResizeTo(call.Argument(0).ToFloat(), call.Argument(1).ToFloat()); err != nil {
			r.throw(err)
		}
		r.engine.PointerMove()
		return goja.Undefined()
	})
	obj.Set("move", func(call goja.FunctionCall) goja.Value {
		r.engine.PointerMove()
		return goja.Undefined()
	})
	obj.Set("end", func(call goja.FunctionCall) goja.Value {
		r.store.EndResize()
		r.engine.PointerUp()
		return goja.Undefined()
	})
	obj.Set("cancel", func(call goja.FunctionCall) goja.Value {
		r.store.EndResize()
		r.engine.PointerCancel()
		return goja.Undefined()
	})
	obj.Set("state", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(r.engine.Sessions().State().String())
	})
	vm.Set("gesture", obj)
}

// maxSettleFrames bounds settle() so a script that keeps scheduling work
// cannot hang the runner.
const maxSettleFrames = 1000

// registerFrames sets up frame(n) and settle().
func (r *Runner) registerFrames() {
	r.vm.Set("frame", func(call goja.FunctionCall) goja.Value {
		n := 1
		if len(call.Arguments) > 0 {
			n = int(call.Argument(0).ToInteger())
		}
		ran := 0
		for i := 0; i < n; i++ {
			ran += r.loop.RunFrame()
		}
		return r.vm.ToValue(ran)
	})
	r.vm.Set("settle", func(call goja.FunctionCall) goja.Value {
		frames := r.loop.Settle(maxSettleFrames)
		if r.loop.Pending() {
			r.throw(fmt.Errorf("settle: still busy after %d frames", frames))
		}
		return r.vm.ToValue(frames)
	})
}

// registerAssert sets up assert(cond, msg), assert.equal(a, b, msg) and
// assert.near(a, b, msg, eps).
func (r *Runner) registerAssert() {
	vm := r.vm
	fn := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if !call.Argument(0).ToBoolean() {
			r.throw(errors.New(message(call.Argument(1), "assertion failed")))
		}
		return goja.Undefined()
	}).ToObject(vm)

	fn.Set("equal", func(call goja.FunctionCall) goja.Value {
		a, b := call.Argument(0), call.Argument(1)
		if !a.StrictEquals(b) {
			r.throw(fmt.Errorf("%s: expected %v, got %v", message(call.Argument(2), "assert.equal"), b, a))
		}
		return goja.Undefined()
	})
	fn.Set("near", func(call goja.FunctionCall) goja.Value {
		a, b := call.Argument(0).ToFloat(), call.Argument(1).ToFloat()
		eps := 1e-6
		if len(call.Arguments) > 3 {
			eps = call.Argument(3).ToFloat()
		}
		if math.IsNaN(a) || math.Abs(a-b) > eps {
			r.throw(fmt.Errorf("%s: expected %v, got %v", message(call.Argument(2), "assert.near"), b, a))
		}
		return goja.Undefined()
	})
	vm.Set("assert", fn)
}

func message(v goja.Value, fallback string) string {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return fallback
	}
	return v.String()
}
