package engine

import (
	"testing"

	"flowframe/pkg/geom"
	"flowframe/pkg/scene"
)

// countingHost counts the batches the engine writes.
type countingHost struct {
	*scene.Store
	applies int
}

func (h *countingHost) Apply(updates []scene.Update) error {
	h.applies++
	return h.Store.Apply(updates)
}

type harness struct {
	t     *testing.T
	store *scene.Store
	host  *countingHost
	loop  *FrameLoop
	eng   *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := scene.NewStore()
	host := &countingHost{Store: store}
	loop := NewFrameLoop()
	eng := New(host, loop, DefaultOptions())
	t.Cleanup(eng.Close)
	return &harness{t: t, store: store, host: host, loop: loop, eng: eng}
}

func (h *harness) create(sh *scene.Shape) {
	h.t.Helper()
	if err := h.store.Create(sh); err != nil {
		h.t.Fatalf("create %s: %v", sh.ID, err)
	}
}

func (h *harness) apply(updates ...scene.Update) {
	h.t.Helper()
	if err := h.store.Apply(updates); err != nil {
		h.t.Fatalf("apply: %v", err)
	}
}

func (h *harness) settle() {
	h.t.Helper()
	if frames := h.loop.Settle(50); frames == 50 {
		h.t.Fatal("frame loop did not settle")
	}
}

func (h *harness) rect(id string) geom.Rect {
	h.t.Helper()
	sh, ok := h.store.Shape(id)
	if !ok {
		h.t.Fatalf("shape %s not found", id)
	}
	return sh.Rect()
}

func (h *harness) expectRect(id string, want geom.Rect) {
	h.t.Helper()
	got := h.rect(id)
	if !near(got.X, want.X) || !near(got.Y, want.Y) || !near(got.W, want.W) || !near(got.H, want.H) {
		h.t.Errorf("Expected %s at %+v, got %+v", id, want, got)
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func box(id, parent string, x, y, w, h float64) *scene.Shape {
	return &scene.Shape{ID: id, Type: "geo", ParentID: parent, X: x, Y: y,
		Props: map[string]any{"w": w, "h": h}}
}

// newRow builds an auto row 200x100 with padding 10 and gap 10 holding a
// horizontally filling child a and a fixed child b.
func newRow(t *testing.T) *harness {
	h := newHarness(t)
	row := box("row", "", 0, 0, 200, 100)
	row.Type = "frame"
	row.Meta = map[string]any{"layout": map[string]any{
		"mode": "auto", "direction": "horizontal", "gap": 10.0, "padding": 10.0,
	}}
	h.create(row)
	a := box("a", "row", 0, 0, 40, 20)
	a.Meta = map[string]any{"sizing": map[string]any{"sizeX": "fill"}}
	h.create(a)
	h.create(box("b", "row", 0, 0, 30, 20))
	h.settle()
	return h
}

func TestScheduler_LaysOutNewContainer(t *testing.T) {
	h := newRow(t)
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 140, H: 20})
	h.expectRect("b", geom.Rect{X: 160, Y: 10, W: 30, H: 20})
	h.expectRect("row", geom.Rect{W: 200, H: 100})
}

func TestScheduler_CoalescesPerFrame(t *testing.T) {
	h := newRow(t)
	h.host.applies = 0

	for _, w := range []float64{35, 40, 50} {
		h.apply(scene.Update{ID: "b", Props: map[string]any{"w": w}})
	}
	if got := h.eng.Scheduler().Dirty(); len(got) != 1 || got[0] != "row" {
		t.Fatalf("Expected [row] dirty, got %v", got)
	}
	h.loop.RunFrame()
	if h.host.applies != 1 {
		t.Errorf("Expected one batched write, got %d", h.host.applies)
	}
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 120, H: 20})
	h.expectRect("b", geom.Rect{X: 140, Y: 10, W: 50, H: 20})
}

func TestScheduler_RemovedChildMarksParent(t *testing.T) {
	h := newRow(t)
	if err := h.store.Remove("b"); err != nil {
		t.Fatal(err)
	}
	h.settle()
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 180, H: 20})
}

func TestScheduler_LayoutMetaChange(t *testing.T) {
	h := newRow(t)
	h.apply(scene.Update{ID: "row", Meta: map[string]any{"layout": map[string]any{
		"mode": "auto", "direction": "horizontal", "gap": 0.0, "padding": 0.0, "alignCross": "end",
	}}})
	h.settle()
	h.expectRect("a", geom.Rect{X: 0, Y: 80, W: 170, H: 20})
	h.expectRect("b", geom.Rect{X: 170, Y: 80, W: 30, H: 20})
}

func TestScheduler_PersistsHugCorrection(t *testing.T) {
	h := newHarness(t)
	col := box("col", "", 0, 0, 100, 100)
	col.Meta = map[string]any{"layout": map[string]any{
		"mode": "auto", "direction": "vertical", "sizeX": "hug", "sizeY": "hug",
	}}
	h.create(col)
	a := box("a", "col", 0, 0, 40, 20)
	a.Meta = map[string]any{"sizing": map[string]any{"sizeX": "fill"}}
	h.create(a)
	h.create(box("b", "col", 0, 0, 30, 10))
	h.settle()

	h.expectRect("a", geom.Rect{X: 0, Y: 0, W: 100, H: 20})
	h.expectRect("b", geom.Rect{X: 0, Y: 20, W: 30, H: 10})
	h.expectRect("col", geom.Rect{W: 100, H: 30})

	sh, _ := h.store.Shape("col")
	cl, _ := sh.Layout()
	if cl.SizeX.String() != "fixed" || cl.SizeY.String() != "hug" {
		t.Errorf("Expected sizeX fixed and sizeY hug, got %s and %s", cl.SizeX, cl.SizeY)
	}
}

func TestScheduler_NestedSizeChangePropagates(t *testing.T) {
	h := newHarness(t)
	hug := map[string]any{"layout": map[string]any{"mode": "auto", "sizeX": "hug", "sizeY": "hug"}}
	outer := box("outer", "", 0, 0, 10, 10)
	outer.Meta = hug
	h.create(outer)
	inner := box("inner", "outer", 0, 0, 10, 10)
	inner.Meta = hug
	h.create(inner)
	h.create(box("leaf", "inner", 0, 0, 50, 20))
	h.settle()

	h.expectRect("inner", geom.Rect{W: 50, H: 20})
	h.expectRect("outer", geom.Rect{W: 50, H: 20})

	h.apply(scene.Update{ID: "leaf", Props: map[string]any{"w": 80.0}})
	h.settle()
	h.expectRect("inner", geom.Rect{W: 80, H: 20})
	h.expectRect("outer", geom.Rect{W: 80, H: 20})
}

func TestEngine_GuardDropsOwnWrites(t *testing.T) {
	h := newRow(t)
	h.apply(scene.Update{ID: "b", Props: map[string]any{"w": 50.0}})
	before := h.eng.Ignored()

	h.loop.RunFrame()
	if !h.eng.Guarded() {
		t.Fatal("Expected guard held after a layout write")
	}
	if h.eng.Ignored() <= before {
		t.Error("Expected the engine's own change batch to be ignored")
	}
	if got := h.eng.Scheduler().Dirty(); len(got) != 0 {
		t.Errorf("Expected no dirty containers from the engine's own write, got %v", got)
	}
	h.loop.RunFrame()
	if h.eng.Guarded() {
		t.Error("Expected guard released on the next frame")
	}
}

func TestSession_AutoRestoresHostScaling(t *testing.T) {
	h := newRow(t)
	h.store.Select("row")
	if err := h.store.BeginResize("row"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(300, 100); err != nil {
		t.Fatal(err)
	}

	sessions := h.eng.Sessions()
	if sessions.State() != StateActive {
		t.Fatalf("Expected active session, got %s", sessions.State())
	}
	s, _ := sessions.Session()
	if s.Len() != 2 {
		t.Errorf("Expected 2 baselines, got %d", s.Len())
	}
	if base, _ := s.Baseline("a"); base.Props["w"] != 140.0 {
		t.Errorf("Expected baseline from the before record, got w=%v", base.Props["w"])
	}
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 240, H: 20})
	h.expectRect("b", geom.Rect{X: 260, Y: 10, W: 30, H: 20})
	if !h.eng.Scheduler().Queued("row") {
		t.Error("Expected the scheduler to queue the owned container")
	}

	h.loop.RunFrame()
	if err := h.store.ResizeTo(400, 100); err != nil {
		t.Fatal(err)
	}
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 340, H: 20})
	h.expectRect("b", geom.Rect{X: 360, Y: 10, W: 30, H: 20})

	h.store.EndResize()
	h.eng.PointerUp()
	if sessions.State() != StateFinalizing {
		t.Fatalf("Expected finalizing, got %s", sessions.State())
	}
	h.settle()
	if sessions.State() != StateIdle {
		t.Errorf("Expected idle after the deferred finalize, got %s", sessions.State())
	}
	if h.eng.Scheduler().Queued("row") {
		t.Error("Expected the queued container to be released")
	}
	h.expectRect("row", geom.Rect{W: 400, H: 100})
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 340, H: 20})
}

func TestSession_AutoHugSnapsBackOnFinalize(t *testing.T) {
	h := newHarness(t)
	row := box("row", "", 0, 0, 100, 40)
	row.Meta = map[string]any{"layout": map[string]any{"mode": "auto", "sizeX": "hug", "gap": 5.0}}
	h.create(row)
	h.create(box("a", "row", 0, 0, 20, 10))
	h.create(box("b", "row", 0, 0, 30, 10))
	h.settle()
	h.expectRect("row", geom.Rect{W: 55, H: 40})

	h.store.Select("row")
	if err := h.store.BeginResize("row"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(110, 40); err != nil {
		t.Fatal(err)
	}
	h.expectRect("row", geom.Rect{W: 110, H: 40})
	h.expectRect("b", geom.Rect{X: 25, W: 30, H: 10})

	h.store.EndResize()
	h.eng.PointerUp()
	h.settle()
	h.expectRect("row", geom.Rect{W: 55, H: 40})
}

// newFrame builds a manual 200x100 container with a right-anchored child r,
// a stretched child s and a locked child pin.
func newFrame(t *testing.T) *harness {
	h := newHarness(t)
	frame := box("frame", "", 0, 0, 200, 100)
	frame.Meta = map[string]any{"layout": "manual"}
	h.create(frame)
	r := box("r", "frame", 150, 10, 40, 20)
	r.Meta = map[string]any{"constraints": map[string]any{"h": "right", "v": "top"}}
	h.create(r)
	s := box("s", "frame", 10, 40, 180, 20)
	s.Meta = map[string]any{"constraints": map[string]any{"h": "leftRight"}}
	h.create(s)
	pin := box("pin", "frame", 20, 70, 10, 10)
	pin.Locked = true
	h.create(pin)
	h.settle()
	return h
}

func TestSession_ManualLastWriterCorrection(t *testing.T) {
	h := newFrame(t)
	h.store.Select("frame")
	if err := h.store.BeginResize("frame"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(300, 100); err != nil {
		t.Fatal(err)
	}
	h.eng.PointerMove()
	// The baseline was captured by this very batch; the host's scaling stands.
	h.expectRect("r", geom.Rect{X: 225, Y: 10, W: 60, H: 20})

	h.loop.RunFrame()
	if err := h.store.ResizeTo(300, 100); err != nil {
		t.Fatal(err)
	}
	h.eng.PointerMove()
	h.expectRect("r", geom.Rect{X: 250, Y: 10, W: 40, H: 20})
	h.expectRect("s", geom.Rect{X: 10, Y: 40, W: 280, H: 20})
	h.expectRect("pin", geom.Rect{X: 20, Y: 70, W: 10, H: 10})

	h.store.EndResize()
	h.eng.PointerUp()
	h.settle()
	if h.eng.Sessions().State() != StateIdle {
		t.Errorf("Expected idle, got %s", h.eng.Sessions().State())
	}
	h.expectRect("r", geom.Rect{X: 250, Y: 10, W: 40, H: 20})
}

func TestSession_ManualFinalizeWithoutPointerMove(t *testing.T) {
	h := newFrame(t)
	h.store.Select("frame")
	if err := h.store.BeginResize("frame"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(100, 200); err != nil {
		t.Fatal(err)
	}
	h.store.EndResize()
	h.eng.PointerCancel()
	h.settle()

	h.expectRect("r", geom.Rect{X: 50, Y: 10, W: 40, H: 20})
	h.expectRect("s", geom.Rect{X: 10, Y: 40, W: 80, H: 20})
	h.expectRect("pin", geom.Rect{X: 20, Y: 70, W: 10, H: 10})
}

func TestSession_ExitsWhenHostStopsResizing(t *testing.T) {
	h := newFrame(t)
	h.store.Select("frame")
	if err := h.store.BeginResize("frame"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(250, 100); err != nil {
		t.Fatal(err)
	}
	h.store.EndResize()
	h.loop.RunFrame()

	h.apply(scene.Update{ID: "frame", Props: map[string]any{"label": "done"}})
	if h.eng.Sessions().State() != StateFinalizing {
		t.Fatalf("Expected finalizing, got %s", h.eng.Sessions().State())
	}
	h.settle()
	h.expectRect("r", geom.Rect{X: 200, Y: 10, W: 40, H: 20})
}

func TestSession_IgnoresNonContainers(t *testing.T) {
	h := newRow(t)
	h.store.Select("b")
	if err := h.store.BeginResize("b"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(60, 20); err != nil {
		t.Fatal(err)
	}
	if h.eng.Sessions().State() != StateIdle {
		t.Errorf("Expected idle, got %s", h.eng.Sessions().State())
	}
	h.store.EndResize()
	h.settle()
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 110, H: 20})
	h.expectRect("b", geom.Rect{X: 130, Y: 10, W: 60, H: 20})
}

func TestSession_TwoHostTicksInOneFrame(t *testing.T) {
	h := newRow(t)
	h.store.Select("row")
	if err := h.store.BeginResize("row"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(300, 100); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(400, 100); err != nil {
		t.Fatal(err)
	}
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 340, H: 20})
	h.expectRect("b", geom.Rect{X: 360, Y: 10, W: 30, H: 20})

	h.store.EndResize()
	h.eng.PointerUp()
	h.settle()
	h.expectRect("b", geom.Rect{X: 360, Y: 10, W: 30, H: 20})
}

func TestScheduler_SeesEditsAfterOwnWrite(t *testing.T) {
	h := newRow(t)
	h.apply(scene.Update{ID: "b", Props: map[string]any{"w": 50.0}})
	h.loop.RunFrame()
	if !h.eng.Guarded() {
		t.Fatal("Expected a layout write in this frame")
	}

	h.create(box("c", "row", 0, 0, 30, 20))
	if got := h.eng.Scheduler().Dirty(); len(got) != 1 || got[0] != "row" {
		t.Fatalf("Expected [row] dirty after adding a child, got %v", got)
	}
	h.settle()
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 80, H: 20})
	h.expectRect("b", geom.Rect{X: 100, Y: 10, W: 50, H: 20})
	h.expectRect("c", geom.Rect{X: 160, Y: 10, W: 30, H: 20})
}

func TestScheduler_DirtyContainerClaimedBySession(t *testing.T) {
	h := newRow(t)
	h.apply(scene.Update{ID: "b", Props: map[string]any{"w": 50.0}})
	if got := h.eng.Scheduler().Dirty(); len(got) != 1 || got[0] != "row" {
		t.Fatalf("Expected [row] dirty, got %v", got)
	}

	h.store.Select("row")
	if err := h.store.BeginResize("row"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(300, 100); err != nil {
		t.Fatal(err)
	}
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 220, H: 20})

	h.host.applies = 0
	h.loop.RunFrame()
	if h.host.applies != 0 {
		t.Errorf("Expected no relayout of the owned container, got %d writes", h.host.applies)
	}
	if got := h.eng.Scheduler().Dirty(); len(got) != 0 {
		t.Errorf("Expected nothing dirty, got %v", got)
	}
	if !h.eng.Scheduler().Queued("row") {
		t.Error("Expected the owned container to be queued")
	}

	h.store.EndResize()
	h.eng.PointerUp()
	h.settle()
	if h.eng.Scheduler().Queued("row") {
		t.Error("Expected the container released when the session ended")
	}
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 220, H: 20})
	h.expectRect("b", geom.Rect{X: 240, Y: 10, W: 50, H: 20})
}

func TestSession_DeferredFinalizeSeesLateCommit(t *testing.T) {
	h := newRow(t)
	h.store.Select("row")
	if err := h.store.BeginResize("row"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(300, 100); err != nil {
		t.Fatal(err)
	}
	h.eng.PointerUp()
	if h.eng.Sessions().State() != StateFinalizing {
		t.Fatalf("Expected finalizing, got %s", h.eng.Sessions().State())
	}
	h.expectRect("b", geom.Rect{X: 260, Y: 10, W: 30, H: 20})

	// The host commits its last step after the pointer event.
	if err := h.store.ResizeTo(400, 100); err != nil {
		t.Fatal(err)
	}
	h.store.EndResize()
	h.expectRect("b", geom.Rect{X: 320, Y: 10, W: 60, H: 20})

	h.settle()
	if h.eng.Sessions().State() != StateIdle {
		t.Errorf("Expected idle, got %s", h.eng.Sessions().State())
	}
	h.expectRect("row", geom.Rect{W: 400, H: 100})
	h.expectRect("a", geom.Rect{X: 10, Y: 10, W: 340, H: 20})
	h.expectRect("b", geom.Rect{X: 360, Y: 10, W: 30, H: 20})
}

// newNestedRow builds an auto row 200x100 (padding 10, gap 10) holding a
// fixed manual container inner 40x40 with a child g.
func newNestedRow(t *testing.T) *harness {
	h := newHarness(t)
	row := box("row", "", 0, 0, 200, 100)
	row.Meta = map[string]any{"layout": map[string]any{"mode": "auto", "gap": 10.0, "padding": 10.0}}
	h.create(row)
	inner := box("inner", "row", 0, 0, 40, 40)
	inner.Meta = map[string]any{"layout": "manual"}
	h.create(inner)
	h.create(box("g", "inner", 5, 5, 20, 20))
	h.settle()
	return h
}

func TestSession_RestoresGrandchildren(t *testing.T) {
	h := newNestedRow(t)
	h.expectRect("inner", geom.Rect{X: 10, Y: 10, W: 40, H: 40})

	h.store.Select("row")
	if err := h.store.BeginResize("row"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(400, 100); err != nil {
		t.Fatal(err)
	}
	h.expectRect("inner", geom.Rect{X: 10, Y: 10, W: 40, H: 40})
	h.expectRect("g", geom.Rect{X: 5, Y: 5, W: 20, H: 20})
	if base, ok := h.eng.Sessions().session.Baseline("g"); !ok || base.X != 5 {
		t.Errorf("Expected g's baseline captured, got %+v", base)
	}

	h.store.EndResize()
	h.eng.PointerUp()
	h.settle()
	h.expectRect("inner", geom.Rect{X: 10, Y: 10, W: 40, H: 40})
	h.expectRect("g", geom.Rect{X: 5, Y: 5, W: 20, H: 20})
}

func TestSession_ResizedNestedContainerKeepsConstraints(t *testing.T) {
	h := newHarness(t)
	row := box("row", "", 0, 0, 200, 100)
	row.Meta = map[string]any{"layout": map[string]any{"mode": "auto", "padding": 10.0}}
	h.create(row)
	panel := box("panel", "row", 0, 0, 40, 40)
	panel.Meta = map[string]any{
		"layout": "manual",
		"sizing": map[string]any{"sizeX": "fill"},
	}
	h.create(panel)
	h.settle()
	h.expectRect("panel", geom.Rect{X: 10, Y: 10, W: 180, H: 40})

	r := box("r", "panel", 150, 5, 20, 10)
	r.Meta = map[string]any{"constraints": map[string]any{"h": "right"}}
	h.create(r)
	h.settle()

	h.store.Select("row")
	if err := h.store.BeginResize("row"); err != nil {
		t.Fatal(err)
	}
	if err := h.store.ResizeTo(300, 100); err != nil {
		t.Fatal(err)
	}
	h.store.EndResize()
	h.eng.PointerUp()
	h.settle()

	h.expectRect("panel", geom.Rect{X: 10, Y: 10, W: 280, H: 40})
	h.expectRect("r", geom.Rect{X: 250, Y: 5, W: 20, H: 10})
}
