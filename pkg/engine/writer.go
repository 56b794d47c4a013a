package engine

import (
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"flowframe/pkg/geom"
	"flowframe/pkg/layout"
	"flowframe/pkg/meta"
	"flowframe/pkg/scene"
)

// geometryKeys are the props a shape's layout geometry can live in.
var geometryKeys = []string{"w", "h", "points", "handles", "start", "end"}

// writer sends batched updates to the host under the guard.
type writer struct {
	host  scene.Host
	guard *guard
	log   *zap.Logger
}

// write applies updates that would change something and returns how many
// were sent. Per-item host failures are logged and swallowed.
func (w *writer) write(reason string, updates []scene.Update) int {
	updates = w.dropUnchanged(updates)
	if len(updates) == 0 {
		return 0
	}
	w.guard.run(func() {
		err := w.host.Apply(updates)
		for _, item := range multierr.Errors(err) {
			w.log.Warn("layout write failed", zap.String("reason", reason), zap.Error(item))
		}
		for _, u := range updates {
			if sh, ok := w.host.Shape(u.ID); ok {
				w.guard.expect(sh)
			}
		}
	})
	w.log.Debug("layout write", zap.String("reason", reason), zap.Int("updates", len(updates)))
	return len(updates)
}

// dropUnchanged filters out updates the host already reflects. Updates for
// missing shapes are kept so the host can report them.
func (w *writer) dropUnchanged(updates []scene.Update) []scene.Update {
	out := make([]scene.Update, 0, len(updates))
	for _, u := range updates {
		if sh, ok := w.host.Shape(u.ID); ok && isNoop(sh, u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func isNoop(sh *scene.Shape, u scene.Update) bool {
	if u.Position != nil && (u.Position.X != sh.X || u.Position.Y != sh.Y) {
		return false
	}
	for k, v := range u.Props {
		if !sameValue(sh.Props[k], v) {
			return false
		}
	}
	for k, v := range u.Meta {
		if !sameValue(sh.Meta[k], v) {
			return false
		}
	}
	return true
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	fa, okA := geom.Number(a)
	fb, okB := geom.Number(b)
	if okA && okB {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// patchUpdate converts a solver patch into a host update. props are the
// shape props the patch's point geometry was read from.
func patchUpdate(p layout.ChildPatch, props map[string]any) scene.Update {
	u := scene.Update{ID: p.ID, Position: &geom.Point{X: p.X, Y: p.Y}}
	switch p.Kind {
	case layout.PatchBox:
		u.Props = map[string]any{"w": p.W, "h": p.H}
	case layout.PatchPoints:
		u.Props = geom.WriteBackPointGeometry(props, p.Points)
	}
	return u
}

// restoreUpdate puts a shape back to a recorded state: position plus
// whichever geometry props it had.
func restoreUpdate(base *scene.Shape) scene.Update {
	u := scene.Update{ID: base.ID, Position: &geom.Point{X: base.X, Y: base.Y}}
	for _, k := range geometryKeys {
		v, ok := base.Props[k]
		if !ok {
			continue
		}
		if u.Props == nil {
			u.Props = make(map[string]any)
		}
		u.Props[k] = v
	}
	return u
}

// containerUpdate persists an auto container's hug size and any hug->fixed
// correction. It returns false when there is nothing to write.
func containerUpdate(sh *scene.Shape, res layout.AutoResult) (scene.Update, bool) {
	u := scene.Update{ID: sh.ID}
	if res.ContainerSize != nil {
		u.Props = map[string]any{"w": res.ContainerSize.W, "h": res.ContainerSize.H}
	}
	if res.Correction.Any() {
		if raw, ok := sh.Meta[meta.KeyLayout].(map[string]any); ok {
			corrected := make(map[string]any, len(raw)+2)
			for k, v := range raw {
				corrected[k] = v
			}
			if res.Correction.X {
				corrected["sizeX"] = res.SizeX.String()
			}
			if res.Correction.Y {
				corrected["sizeY"] = res.SizeY.String()
			}
			u.Meta = map[string]any{meta.KeyLayout: corrected}
		}
	}
	return u, u.Props != nil || u.Meta != nil
}
