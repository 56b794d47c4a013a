package engine

import (
	"flowframe/pkg/scene"
)

// guard keeps the engine from observing its own writes. Batches the host
// emits while a write is being applied are dropped outright. Until the next
// frame, update records that only repeat a written shape's resulting state
// are dropped too, for hosts that echo a write back later in the frame.
// Everything else passes.
type guard struct {
	clock          Clock
	writing        bool
	held           bool
	releasePending bool

	// echoes holds each written shape as the host reported it right after
	// the write.
	echoes map[string]*scene.Shape
}

func newGuard(clock Clock) *guard {
	return &guard{clock: clock, echoes: make(map[string]*scene.Shape)}
}

// Held reports whether a write happened since the last frame.
func (g *guard) Held() bool {
	return g.held
}

// Writing reports whether a write is being applied right now.
func (g *guard) Writing() bool {
	return g.writing
}

// run executes fn with the latch held and schedules the release of the echo
// window.
func (g *guard) run(fn func()) {
	g.writing = true
	g.held = true
	fn()
	g.writing = false
	if g.releasePending {
		return
	}
	g.releasePending = true
	g.clock.RequestFrame(func() {
		g.held = false
		g.releasePending = false
		clear(g.echoes)
	})
}

// expect records the state a write left a shape in.
func (g *guard) expect(sh *scene.Shape) {
	g.echoes[sh.ID] = sh
}

// filter removes the update records that echo the engine's writes. It
// reports how many records were removed.
func (g *guard) filter(batch scene.ChangeBatch) (scene.ChangeBatch, int) {
	if len(g.echoes) == 0 || len(batch.Updated) == 0 {
		return batch, 0
	}
	kept := make([]scene.Change, 0, len(batch.Updated))
	for _, c := range batch.Updated {
		if c.After == nil {
			kept = append(kept, c)
			continue
		}
		want, ok := g.echoes[c.After.ID]
		if ok && sameShape(want, c.After) {
			continue
		}
		// The shape moved on from what was written.
		delete(g.echoes, c.After.ID)
		kept = append(kept, c)
	}
	dropped := len(batch.Updated) - len(kept)
	batch.Updated = kept
	return batch, dropped
}

func sameShape(a, b *scene.Shape) bool {
	if a.ID != b.ID || a.ParentID != b.ParentID || a.Locked != b.Locked || a.X != b.X || a.Y != b.Y {
		return false
	}
	return sameMap(a.Props, b.Props) && sameMap(a.Meta, b.Meta)
}

func sameMap(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !sameValue(v, w) {
			return false
		}
	}
	return true
}
