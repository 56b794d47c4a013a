package scene

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// Store is an in-memory Host. It is not safe for concurrent use; like the
// editors it stands in for, all calls happen on one thread.
type Store struct {
	shapes   map[string]*Shape
	children map[string][]string // parent id -> ordered child ids; "" is the page
	selected []string

	listeners    map[int]func(ChangeBatch)
	nextListener int

	gesture *gesture
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		shapes:    make(map[string]*Shape),
		children:  make(map[string][]string),
		listeners: make(map[int]func(ChangeBatch)),
	}
}

// Shape returns a copy of the shape with the given id.
func (s *Store) Shape(id string) (*Shape, bool) {
	sh, ok := s.shapes[id]
	if !ok {
		return nil, false
	}
	return sh.Clone(), true
}

// ChildIDs returns the ordered direct children of parentID. The empty id
// lists the top-level shapes.
func (s *Store) ChildIDs(parentID string) []string {
	return slices.Clone(s.children[parentID])
}

// IsResizing reports whether a resize gesture is in progress.
func (s *Store) IsResizing() bool {
	return s.gesture != nil
}

// SelectedShape returns the selected shape when exactly one is selected.
func (s *Store) SelectedShape() (string, bool) {
	if len(s.selected) != 1 {
		return "", false
	}
	return s.selected[0], true
}

// Select replaces the selection.
func (s *Store) Select(ids ...string) {
	s.selected = slices.Clone(ids)
}

// Subscribe registers fn for every change batch.
func (s *Store) Subscribe(fn func(ChangeBatch)) func() {
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Store) emit(batch ChangeBatch) {
	if batch.Empty() {
		return
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn(batch)
		}
	}
}

// Create adds a shape as the last child of its parent.
func (s *Store) Create(shape *Shape) error {
	if shape == nil || shape.ID == "" {
		return fmt.Errorf("create: shape needs an id")
	}
	if _, exists := s.shapes[shape.ID]; exists {
		return fmt.Errorf("create: shape %q already exists", shape.ID)
	}
	if shape.ParentID != "" {
		if _, ok := s.shapes[shape.ParentID]; !ok {
			return fmt.Errorf("create %q: parent %q not found", shape.ID, shape.ParentID)
		}
	}
	sh := shape.Clone()
	if sh.Props == nil {
		sh.Props = make(map[string]any)
	}
	if sh.Meta == nil {
		sh.Meta = make(map[string]any)
	}
	s.shapes[sh.ID] = sh
	s.children[sh.ParentID] = append(s.children[sh.ParentID], sh.ID)
	s.emit(ChangeBatch{Added: []*Shape{sh.Clone()}})
	return nil
}

// Remove deletes a shape and its whole subtree.
func (s *Store) Remove(id string) error {
	sh, ok := s.shapes[id]
	if !ok {
		return fmt.Errorf("remove: shape %q not found", id)
	}
	var removed []*Shape
	var walk func(string)
	walk = func(cur string) {
		for _, child := range s.children[cur] {
			walk(child)
		}
		removed = append(removed, s.shapes[cur].Clone())
		delete(s.shapes, cur)
		delete(s.children, cur)
	}
	walk(id)
	s.children[sh.ParentID] = slices.DeleteFunc(s.children[sh.ParentID], func(c string) bool { return c == id })
	s.selected = slices.DeleteFunc(s.selected, func(c string) bool { return s.shapes[c] == nil })
	s.emit(ChangeBatch{Removed: removed})
	return nil
}

// Reparent moves a shape under a new parent at index; an out-of-range index
// appends.
// The shape keeps its parent-space coordinates.
func (s *Store) Reparent(id, parentID string, index int) error {
	sh, ok := s.shapes[id]
	if !ok {
		return fmt.Errorf("reparent: shape %q not found", id)
	}
	if parentID != "" {
		if _, ok := s.shapes[parentID]; !ok {
			return fmt.Errorf("reparent %q: parent %q not found", id, parentID)
		}
		for cur := parentID; cur != ""; cur = s.shapes[cur].ParentID {
			if cur == id {
				return fmt.Errorf("reparent %q: %q is a descendant", id, parentID)
			}
		}
	}
	before := sh.Clone()
	s.children[sh.ParentID] = slices.DeleteFunc(s.children[sh.ParentID], func(c string) bool { return c == id })
	siblings := s.children[parentID]
	if index < 0 || index > len(siblings) {
		index = len(siblings)
	}
	s.children[parentID] = slices.Insert(siblings, index, id)
	sh.ParentID = parentID
	s.emit(ChangeBatch{Updated: []Change{{Before: before, After: sh.Clone()}}})
	return nil
}

// Apply performs the updates as one batch and emits a single change batch
// for the items that succeeded.
func (s *Store) Apply(updates []Update) error {
	var errs error
	var changes []Change
	for _, u := range updates {
		sh, ok := s.shapes[u.ID]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("update: shape %q not found", u.ID))
			continue
		}
		before := sh.Clone()
		applyUpdate(sh, u)
		changes = append(changes, Change{Before: before, After: sh.Clone()})
	}
	s.emit(ChangeBatch{Updated: changes})
	return errs
}

func applyUpdate(sh *Shape, u Update) {
	if u.Position != nil {
		sh.X, sh.Y = u.Position.X, u.Position.Y
	}
	mergeInto(&sh.Props, u.Props)
	mergeInto(&sh.Meta, u.Meta)
}

func mergeInto(dst *map[string]any, patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		if v == nil {
			delete(*dst, k)
			continue
		}
		(*dst)[k] = cloneValue(v)
	}
}

// SetLocked toggles a shape's locked flag.
func (s *Store) SetLocked(id string, locked bool) error {
	sh, ok := s.shapes[id]
	if !ok {
		return fmt.Errorf("lock: shape %q not found", id)
	}
	before := sh.Clone()
	sh.Locked = locked
	s.emit(ChangeBatch{Updated: []Change{{Before: before, After: sh.Clone()}}})
	return nil
}

// Walk visits every shape depth-first in child order. depth is 0 for
// top-level shapes.
func (s *Store) Walk(fn func(sh *Shape, depth int)) {
	var visit func(parent string, depth int)
	visit = func(parent string, depth int) {
		for _, id := range s.children[parent] {
			fn(s.shapes[id].Clone(), depth)
			visit(id, depth+1)
		}
	}
	visit("", 0)
}

// PageOrigin returns the page-space position of a shape's parent space,
// that is the sum of its ancestors' positions.
func (s *Store) PageOrigin(id string) (x, y float64) {
	sh, ok := s.shapes[id]
	if !ok {
		return 0, 0
	}
	for cur := sh.ParentID; cur != ""; {
		p := s.shapes[cur]
		x += p.X
		y += p.Y
		cur = p.ParentID
	}
	return x, y
}
