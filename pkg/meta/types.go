package meta

// Metadata keys read from a shape's meta map.
const (
	KeyLayout      = "layout"
	KeySizing      = "sizing"
	KeyConstraints = "constraints"
	KeyHidden      = "hidden"
)

// SizeMode specifies how a shape is sized along one axis.
type SizeMode uint8

const (
	SizeFixed SizeMode = iota // Keep the current size
	SizeHug                   // Container wraps its children
	SizeFill                  // Child consumes the available space
)

func (m SizeMode) String() string {
	switch m {
	case SizeHug:
		return "hug"
	case SizeFill:
		return "fill"
	default:
		return "fixed"
	}
}

// Sizing is a child's per-axis sizing request.
type Sizing struct {
	X, Y SizeMode
}

// Anchor pins a child to container edges along one axis.
type Anchor uint8

const (
	AnchorStart   Anchor = iota // left / top
	AnchorEnd                   // right / bottom
	AnchorStretch               // leftRight / topBottom
	AnchorCenter                // center
)

// String returns the horizontal spelling of the anchor.
func (a Anchor) String() string {
	switch a {
	case AnchorEnd:
		return "right"
	case AnchorStretch:
		return "leftRight"
	case AnchorCenter:
		return "center"
	default:
		return "left"
	}
}

// VerticalString returns the vertical spelling of the anchor.
func (a Anchor) VerticalString() string {
	switch a {
	case AnchorEnd:
		return "bottom"
	case AnchorStretch:
		return "topBottom"
	case AnchorCenter:
		return "center"
	default:
		return "top"
	}
}

// Constraints holds a child's horizontal and vertical anchors.
type Constraints struct {
	H, V Anchor
}

// Mode selects which solver owns a container's children.
type Mode uint8

const (
	ModeAuto Mode = iota
	ModeManual
)

func (m Mode) String() string {
	if m == ModeManual {
		return "manual"
	}
	return "auto"
}

// Direction specifies the main axis of an auto container.
type Direction uint8

const (
	Horizontal Direction = iota // Children flow left-to-right
	Vertical                    // Children flow top-to-bottom
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Align specifies cross-axis placement in an auto container.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

// Edges represents spacing on four sides.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(n float64) Edges {
	return Edges{Top: n, Right: n, Bottom: n, Left: n}
}

// ContainerLayout is the layout configuration stored on a container.
// Direction, Gap, Padding, AlignCross and SizeX/SizeY only apply in auto mode.
type ContainerLayout struct {
	Mode       Mode
	Direction  Direction
	Gap        float64
	Padding    Edges
	AlignCross Align
	SizeX      SizeMode // SizeFixed or SizeHug
	SizeY      SizeMode
}
