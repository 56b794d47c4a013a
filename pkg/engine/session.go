package engine

import (
	"math"

	"github.com/google/uuid"

	"flowframe/pkg/geom"
	"flowframe/pkg/layout"
	"flowframe/pkg/meta"
	"flowframe/pkg/scene"
)

// SessionState is the phase of the resize session controller.
type SessionState uint8

const (
	StateIdle SessionState = iota
	StateActive
	StateFinalizing
)

func (s SessionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// ResizeSession is the state kept for one interactive resize of a container.
type ResizeSession struct {
	ID          uuid.UUID
	ContainerID string
	Mode        meta.Mode
	Layout      meta.ContainerLayout

	// From is the container before the gesture, To the latest observed
	// container box.
	From, To geom.Rect

	baselines []*scene.Shape
	inputs    []layout.Child
	props     map[string]map[string]any

	// nested holds the baseline children of every shape below the
	// container's direct children, by parent id.
	nested map[string][]*scene.Shape
	opts   layout.Options

	// capturedAt is the batch sequence number the baselines came from.
	capturedAt uint64
}

func newResizeSession(container *scene.Shape, cl meta.ContainerLayout, baselines []*scene.Shape, nested map[string][]*scene.Shape, opts layout.Options, seq uint64) *ResizeSession {
	s := &ResizeSession{
		ID:          uuid.New(),
		ContainerID: container.ID,
		Mode:        cl.Mode,
		Layout:      cl,
		From:        container.Rect(),
		To:          container.Rect(),
		baselines:   baselines,
		inputs:      childInputs(baselines),
		props:       make(map[string]map[string]any, len(baselines)),
		nested:      nested,
		opts:        opts,
		capturedAt:  seq,
	}
	for _, b := range baselines {
		s.props[b.ID] = b.Props
	}
	for _, kids := range nested {
		for _, k := range kids {
			s.props[k.ID] = k.Props
		}
	}
	return s
}

// Baseline returns the recorded pre-gesture state of a child or of any shape
// below one.
func (s *ResizeSession) Baseline(id string) (*scene.Shape, bool) {
	if b := s.baseline(id); b != nil {
		return b.Clone(), true
	}
	return nil, false
}

func (s *ResizeSession) baseline(id string) *scene.Shape {
	for _, b := range s.baselines {
		if b.ID == id {
			return b
		}
	}
	for _, kids := range s.nested {
		for _, k := range kids {
			if k.ID == id {
				return k
			}
		}
	}
	return nil
}

// Len returns the number of captured children.
func (s *ResizeSession) Len() int {
	return len(s.baselines)
}

// stableAt reports whether the baselines were captured before batch seq.
func (s *ResizeSession) stableAt(seq uint64) bool {
	return seq > s.capturedAt
}

// childUpdates converts solver patches into host updates, and adds updates
// that put every non-participating child back to its baseline. The subtree
// of every child is repaired too, since the host scales all descendants.
func (s *ResizeSession) childUpdates(patches []layout.ChildPatch) []scene.Update {
	updates := make([]scene.Update, 0, len(s.baselines))
	for _, p := range patches {
		updates = append(updates, patchUpdate(p, s.props[p.ID]))
		updates = append(updates, s.belowPatch(p)...)
	}
	for i, b := range s.baselines {
		if !s.inputs[i].Participates() {
			updates = append(updates, restoreUpdate(b))
			updates = append(updates, s.restoreSubtree(b.ID)...)
		}
	}
	return updates
}

// subtreeUpdates lays out the descendants of base for its new size. A shape
// that keeps its baseline size, or is not a layout container, gets its
// subtree restored; a resized layout container re-runs its own solver
// against the captured baselines.
func (s *ResizeSession) subtreeUpdates(base *scene.Shape, size geom.Size) []scene.Update {
	kids := s.nested[base.ID]
	if len(kids) == 0 {
		return nil
	}
	baseSize, hasSize := base.Size()
	cl, isLayout := base.Layout()
	if !hasSize || !isLayout || sameSize(baseSize, size) {
		return s.restoreSubtree(base.ID)
	}

	inputs := childInputs(kids)
	var patches []layout.ChildPatch
	if cl.Mode == meta.ModeManual {
		patches = layout.ComputeManualConstraints(baseSize, size, inputs)
	} else {
		box := geom.Rect{X: base.X, Y: base.Y, W: size.W, H: size.H}
		patches = s.opts.ComputeAutoLayout(layout.Container{ID: base.ID, Box: box, Layout: cl}, inputs).Children
	}

	var updates []scene.Update
	patched := make(map[string]bool, len(patches))
	for _, p := range patches {
		patched[p.ID] = true
		updates = append(updates, patchUpdate(p, s.props[p.ID]))
		updates = append(updates, s.belowPatch(p)...)
	}
	for _, k := range kids {
		if patched[k.ID] {
			continue
		}
		updates = append(updates, restoreUpdate(k))
		updates = append(updates, s.restoreSubtree(k.ID)...)
	}
	return updates
}

// belowPatch repairs the subtree of a patched shape.
func (s *ResizeSession) belowPatch(p layout.ChildPatch) []scene.Update {
	base := s.baseline(p.ID)
	if base == nil {
		return nil
	}
	if p.Kind != layout.PatchBox {
		return s.restoreSubtree(p.ID)
	}
	return s.subtreeUpdates(base, geom.Size{W: p.W, H: p.H})
}

// restoreSubtree puts every shape below id back to its baseline.
func (s *ResizeSession) restoreSubtree(id string) []scene.Update {
	var updates []scene.Update
	for _, k := range s.nested[id] {
		updates = append(updates, restoreUpdate(k))
		updates = append(updates, s.restoreSubtree(k.ID)...)
	}
	return updates
}

func sameSize(a, b geom.Size) bool {
	return math.Abs(a.W-b.W) < geom.Epsilon && math.Abs(a.H-b.H) < geom.Epsilon
}
