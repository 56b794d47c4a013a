package engine

import (
	"reflect"

	"go.uber.org/zap"

	"flowframe/pkg/layout"
	"flowframe/pkg/meta"
	"flowframe/pkg/scene"
)

// Scheduler re-solves auto containers invalidated outside a resize session.
// Invalidations are coalesced so each dirty container is solved at most once
// per frame.
type Scheduler struct {
	host  scene.Host
	clock Clock
	out   *writer
	log   *zap.Logger
	opts  layout.Options

	dirty          []string
	dirtySet       map[string]struct{}
	frameRequested bool

	// queued holds containers invalidated while a session owned them.
	queued map[string]struct{}
	owns   func(id string) bool
}

// MarkDirty schedules a container for the next frame. Containers owned by a
// resize session are queued until the session ends.
func (s *Scheduler) MarkDirty(id string) {
	if s.owns != nil && s.owns(id) {
		s.queued[id] = struct{}{}
		return
	}
	if _, ok := s.dirtySet[id]; ok {
		return
	}
	s.dirtySet[id] = struct{}{}
	s.dirty = append(s.dirty, id)
	if !s.frameRequested {
		s.frameRequested = true
		s.clock.RequestFrame(s.runFrame)
	}
}

// Dirty returns the containers waiting for the next frame, in the order they
// were marked.
func (s *Scheduler) Dirty() []string {
	return append([]string(nil), s.dirty...)
}

// Queued reports whether a container is held back by a session.
func (s *Scheduler) Queued(id string) bool {
	_, ok := s.queued[id]
	return ok
}

// Release hands a container held back by a session back to the scheduler.
func (s *Scheduler) Release(id string) {
	if _, ok := s.queued[id]; !ok {
		return
	}
	delete(s.queued, id)
	s.MarkDirty(id)
}

// Observe marks the auto containers a host change batch invalidated.
func (s *Scheduler) Observe(batch scene.ChangeBatch) {
	for _, sh := range batch.Added {
		s.markIfAuto(sh.ID)
		s.markIfAuto(sh.ParentID)
	}
	for _, sh := range batch.Removed {
		s.markIfAuto(sh.ParentID)
	}
	for _, c := range batch.Updated {
		if c.Before == nil || c.After == nil {
			continue
		}
		s.observeUpdate(c.Before, c.After)
	}
}

func (s *Scheduler) observeUpdate(before, after *scene.Shape) {
	if !reflect.DeepEqual(before.Meta[meta.KeyLayout], after.Meta[meta.KeyLayout]) {
		s.markIfAuto(after.ID)
	} else if !s.host.IsResizing() && sizeChanged(before, after) {
		s.markIfAuto(after.ID)
	}

	if before.ParentID != after.ParentID {
		s.markIfAuto(before.ParentID)
		s.markIfAuto(after.ParentID)
		return
	}
	if childLayoutChanged(before, after) {
		s.markIfAuto(after.ParentID)
	}
}

func (s *Scheduler) markIfAuto(id string) {
	if id == "" {
		return
	}
	sh, ok := s.host.Shape(id)
	if !ok {
		return
	}
	if _, ok := autoLayout(sh); ok {
		s.MarkDirty(id)
	}
}

func sizeChanged(before, after *scene.Shape) bool {
	return !sameValue(before.Props["w"], after.Props["w"]) ||
		!sameValue(before.Props["h"], after.Props["h"])
}

// childLayoutChanged reports whether an update affects how a child takes part
// in its parent's layout.
func childLayoutChanged(before, after *scene.Shape) bool {
	if before.Locked != after.Locked || before.Hidden() != after.Hidden() {
		return true
	}
	for _, k := range []string{meta.KeySizing, meta.KeyConstraints} {
		if !reflect.DeepEqual(before.Meta[k], after.Meta[k]) {
			return true
		}
	}
	for _, k := range geometryKeys {
		if !reflect.DeepEqual(before.Props[k], after.Props[k]) {
			return true
		}
	}
	return false
}

func (s *Scheduler) runFrame() {
	s.frameRequested = false
	ids := s.dirty
	s.dirty = nil
	s.dirtySet = make(map[string]struct{})
	for _, id := range ids {
		if s.owns != nil && s.owns(id) {
			s.queued[id] = struct{}{}
			continue
		}
		s.Relayout(id)
	}
}

// Relayout solves one auto container immediately and writes the result as two
// batches: the children first, then the container's own size and persisted
// sizing correction. It reports whether the container was solved.
func (s *Scheduler) Relayout(id string) bool {
	sh, ok := s.host.Shape(id)
	if !ok {
		return false
	}
	cl, ok := autoLayout(sh)
	if !ok {
		return false
	}
	children := childShapes(s.host, id)
	res := s.opts.ComputeAutoLayout(containerInput(sh, cl), childInputs(children))

	props := make(map[string]map[string]any, len(children))
	for _, ch := range children {
		props[ch.ID] = ch.Props
	}
	updates := make([]scene.Update, 0, len(res.Children))
	for _, p := range res.Children {
		updates = append(updates, patchUpdate(p, props[p.ID]))
	}
	s.out.write("relayout", updates)

	u, ok := containerUpdate(sh, res)
	if !ok {
		return true
	}
	if s.out.write("relayout container", []scene.Update{u}) > 0 && u.Props != nil && sizeChangedBy(sh, u) {
		s.log.Debug("container resized", zap.String("container", id))
		s.markIfAuto(sh.ParentID)
	}
	return true
}

func sizeChangedBy(sh *scene.Shape, u scene.Update) bool {
	return !sameValue(sh.Props["w"], u.Props["w"]) || !sameValue(sh.Props["h"], u.Props["h"])
}
