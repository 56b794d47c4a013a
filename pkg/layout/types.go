package layout

import (
	"flowframe/pkg/geom"
	"flowframe/pkg/meta"
)

// DefaultMaxSpacing bounds gap and padding values.
const DefaultMaxSpacing = 4096

// Options tunes the solvers.
type Options struct {
	// MaxSpacing is the upper clamp for gap and each padding side.
	MaxSpacing float64
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{MaxSpacing: DefaultMaxSpacing}
}

func (o Options) maxSpacing() float64 {
	if !geom.IsFinite(o.MaxSpacing) || o.MaxSpacing <= 0 {
		return DefaultMaxSpacing
	}
	return o.MaxSpacing
}

// Container is the solver's view of a layout container.
type Container struct {
	ID     string
	Box    geom.Rect
	Layout meta.ContainerLayout
}

// Child is the solver's view of one direct child. Box.X/Box.Y are the shape's
// position in container space. Box.W/Box.H are meaningful only when HasSize
// is set; point-based children carry Points instead.
type Child struct {
	ID          string
	Box         geom.Rect
	HasSize     bool
	Points      *geom.PointGeometry
	Sizing      meta.Sizing
	Constraints meta.Constraints
	Locked      bool
	Hidden      bool
}

// Participates reports whether the child takes part in layout.
func (c Child) Participates() bool {
	return !c.Locked && !c.Hidden
}

// PatchKind says which fields of a ChildPatch the host should write.
type PatchKind uint8

const (
	PatchBox    PatchKind = iota // position and w/h
	PatchPoints                  // position and point geometry
	PatchMove                    // position only
)

// ChildPatch is the computed geometry for one child. X/Y are the shape's
// position in container space; for point-based children that is the shape
// origin, already offset so the point bounds land in the computed slot.
// W/H always hold the resulting box size.
type ChildPatch struct {
	ID     string
	Kind   PatchKind
	X, Y   float64
	W, H   float64
	Points *geom.PointGeometry
}

// Correction flags the axes on which a hug request was downgraded to fixed
// because a child asked to fill that axis.
type Correction struct {
	X, Y bool
}

// Any reports whether either axis was corrected.
func (c Correction) Any() bool {
	return c.X || c.Y
}

// AutoResult is the output of the auto-layout solver.
type AutoResult struct {
	Children []ChildPatch

	// ContainerSize is set when either axis hugs its content.
	ContainerSize *geom.Size

	// SizeX and SizeY are the effective container sizing modes after
	// conflict resolution. Callers persist them when Correction is set.
	SizeX, SizeY meta.SizeMode
	Correction   Correction
}
