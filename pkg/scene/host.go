package scene

import "flowframe/pkg/geom"

// Change records one updated shape with its state before and after the batch.
type Change struct {
	Before, After *Shape
}

// ChangeBatch is everything one host mutation changed.
type ChangeBatch struct {
	Added   []*Shape
	Updated []Change
	Removed []*Shape
}

// Empty reports whether the batch carries no records.
func (b ChangeBatch) Empty() bool {
	return len(b.Added) == 0 && len(b.Updated) == 0 && len(b.Removed) == 0
}

// Before returns the pre-batch record of an updated shape.
func (b ChangeBatch) Before(id string) (*Shape, bool) {
	for _, c := range b.Updated {
		if c.Before != nil && c.Before.ID == id {
			return c.Before, true
		}
	}
	return nil, false
}

// Touches reports whether the batch added, updated or removed the shape.
func (b ChangeBatch) Touches(id string) bool {
	for _, s := range b.Added {
		if s.ID == id {
			return true
		}
	}
	for _, c := range b.Updated {
		if c.After != nil && c.After.ID == id {
			return true
		}
	}
	for _, s := range b.Removed {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Update is one entry of a batched mutation. A nil Position leaves the shape
// where it is. Props and Meta are merged key by key; a nil value deletes the
// key.
type Update struct {
	ID       string
	Position *geom.Point
	Props    map[string]any
	Meta     map[string]any
}

// Host is everything the engine needs from the editor that owns the shapes.
type Host interface {
	// Shape returns a snapshot of the shape with the given id.
	Shape(id string) (*Shape, bool)

	// ChildIDs returns the ordered direct children of a shape.
	ChildIDs(parentID string) []string

	// IsResizing reports whether an interactive resize gesture is in progress.
	IsResizing() bool

	// SelectedShape returns the id of the only selected shape. It returns
	// false when nothing or more than one shape is selected.
	SelectedShape() (string, bool)

	// Apply performs all updates as one batch. Failing items are reported in
	// the returned error and do not stop the rest of the batch.
	Apply(updates []Update) error

	// Subscribe registers fn to receive every change batch synchronously.
	Subscribe(fn func(ChangeBatch)) (unsubscribe func())
}
