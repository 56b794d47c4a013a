package layout

import (
	"flowframe/pkg/geom"
	"flowframe/pkg/meta"
)

// flowItem tracks one child through the auto-layout passes, in main/cross
// axis terms.
type flowItem struct {
	layoutItem
	fillMain, fillCross bool
	mainSize, crossSize float64
	mainPos, crossPos   float64
}

// flowContainer is the container reduced to main/cross axis terms.
type flowContainer struct {
	horizontal                 bool
	mainSize, crossSize        float64
	mainMode, crossMode        meta.SizeMode
	padMainStart, padMainEnd   float64
	padCrossStart, padCrossEnd float64
	gap                        float64
	align                      meta.Align
}

// ComputeAutoLayout runs the auto-layout solver with default options.
func ComputeAutoLayout(c Container, children []Child) AutoResult {
	return DefaultOptions().ComputeAutoLayout(c, children)
}

// ComputeAutoLayout flows the participating children along the container's
// main axis and returns their patches, plus the container's own size when it
// hugs its content on either axis.
func (o Options) ComputeAutoLayout(c Container, children []Child) AutoResult {
	cl := c.Layout
	items := createFlowItems(children)

	res := AutoResult{
		SizeX: containerMode(cl.SizeX),
		SizeY: containerMode(cl.SizeY),
	}
	res.SizeX, res.Correction.X = resolveHugConflict(res.SizeX, items, func(s meta.Sizing) meta.SizeMode { return s.X })
	res.SizeY, res.Correction.Y = resolveHugConflict(res.SizeY, items, func(s meta.Sizing) meta.SizeMode { return s.Y })

	fc := newFlowContainer(c, res.SizeX, res.SizeY, o.maxSpacing())
	for i := range items {
		it := &items[i]
		if fc.horizontal {
			it.mainSize, it.crossSize = it.box.W, it.box.H
			it.fillMain = it.child.Sizing.X == meta.SizeFill
			it.fillCross = it.child.Sizing.Y == meta.SizeFill
		} else {
			it.mainSize, it.crossSize = it.box.H, it.box.W
			it.fillMain = it.child.Sizing.Y == meta.SizeFill
			it.fillCross = it.child.Sizing.X == meta.SizeFill
		}
	}

	resolveMainSizes(fc, items)
	resolveCrossSizes(fc, items)
	hugContainer(&fc, items)
	distributeMainAxis(fc, items)
	alignCrossAxis(fc, items)

	res.Children = make([]ChildPatch, 0, len(items))
	for _, it := range items {
		if fc.horizontal {
			res.Children = append(res.Children, it.place(it.mainPos, it.crossPos, it.mainSize, it.crossSize))
		} else {
			res.Children = append(res.Children, it.place(it.crossPos, it.mainPos, it.crossSize, it.mainSize))
		}
	}

	if res.SizeX == meta.SizeHug || res.SizeY == meta.SizeHug {
		size := geom.Size{W: fc.crossSize, H: fc.mainSize}
		if fc.horizontal {
			size = geom.Size{W: fc.mainSize, H: fc.crossSize}
		}
		res.ContainerSize = &size
	}
	return res
}

// containerMode normalizes a container axis mode; containers only hug or stay
// fixed.
func containerMode(m meta.SizeMode) meta.SizeMode {
	if m == meta.SizeHug {
		return meta.SizeHug
	}
	return meta.SizeFixed
}

// resolveHugConflict downgrades hug to fixed when any participating child
// fills that axis. A fill request is never ignored.
func resolveHugConflict(mode meta.SizeMode, items []flowItem, axis func(meta.Sizing) meta.SizeMode) (meta.SizeMode, bool) {
	if mode != meta.SizeHug {
		return mode, false
	}
	for _, it := range items {
		if axis(it.child.Sizing) == meta.SizeFill {
			return meta.SizeFixed, true
		}
	}
	return mode, false
}

// createFlowItems drops locked and hidden children and resolves the natural
// box of the rest, keeping document order.
func createFlowItems(children []Child) []flowItem {
	items := make([]flowItem, 0, len(children))
	for _, ch := range children {
		if !ch.Participates() {
			continue
		}
		items = append(items, flowItem{layoutItem: naturalItem(ch)})
	}
	return items
}

func newFlowContainer(c Container, sizeX, sizeY meta.SizeMode, limit float64) flowContainer {
	cl := c.Layout
	pad := meta.Edges{
		Top:    geom.Clamp(cl.Padding.Top, 0, limit),
		Right:  geom.Clamp(cl.Padding.Right, 0, limit),
		Bottom: geom.Clamp(cl.Padding.Bottom, 0, limit),
		Left:   geom.Clamp(cl.Padding.Left, 0, limit),
	}
	w := geom.AtLeast(geom.Sanitize(c.Box.W, 1), 1)
	h := geom.AtLeast(geom.Sanitize(c.Box.H, 1), 1)

	fc := flowContainer{
		horizontal: cl.Direction == meta.Horizontal,
		gap:        geom.Clamp(cl.Gap, 0, limit),
		align:      cl.AlignCross,
	}
	if fc.horizontal {
		fc.mainSize, fc.crossSize = w, h
		fc.mainMode, fc.crossMode = sizeX, sizeY
		fc.padMainStart, fc.padMainEnd = pad.Left, pad.Right
		fc.padCrossStart, fc.padCrossEnd = pad.Top, pad.Bottom
	} else {
		fc.mainSize, fc.crossSize = h, w
		fc.mainMode, fc.crossMode = sizeY, sizeX
		fc.padMainStart, fc.padMainEnd = pad.Top, pad.Bottom
		fc.padCrossStart, fc.padCrossEnd = pad.Left, pad.Right
	}
	return fc
}

func (fc flowContainer) totalGaps(n int) float64 {
	if n < 2 {
		return 0
	}
	return fc.gap * float64(n-1)
}

// resolveMainSizes splits the free main-axis space equally between the
// children that fill it. Fill only applies when the container is fixed on the
// main axis; everyone else keeps their natural size.
func resolveMainSizes(fc flowContainer, items []flowItem) {
	if fc.mainMode != meta.SizeFixed {
		return
	}
	fillCount := 0
	used := 0.0
	for _, it := range items {
		if it.fillMain {
			fillCount++
			continue
		}
		used += it.mainSize
	}
	if fillCount == 0 {
		return
	}
	available := fc.mainSize - fc.padMainStart - fc.padMainEnd - fc.totalGaps(len(items)) - used
	share := geom.AtLeast(available/float64(fillCount), 1)
	for i := range items {
		if items[i].fillMain {
			items[i].mainSize = share
		}
	}
}

// resolveCrossSizes stretches cross-axis fill children to the inner cross
// extent.
func resolveCrossSizes(fc flowContainer, items []flowItem) {
	if fc.crossMode != meta.SizeFixed {
		return
	}
	inner := geom.AtLeast(fc.crossSize-fc.padCrossStart-fc.padCrossEnd, 1)
	for i := range items {
		if items[i].fillCross {
			items[i].crossSize = inner
		}
	}
}

// hugContainer wraps the container tightly around its children on every hug
// axis. With no children a hugging axis collapses to its padding, floored
// at 1.
func hugContainer(fc *flowContainer, items []flowItem) {
	if fc.mainMode == meta.SizeHug {
		total := fc.padMainStart + fc.padMainEnd + fc.totalGaps(len(items))
		for _, it := range items {
			total += it.mainSize
		}
		fc.mainSize = geom.AtLeast(total, 1)
	}
	if fc.crossMode == meta.SizeHug {
		largest := 0.0
		for _, it := range items {
			largest = max(largest, it.crossSize)
		}
		fc.crossSize = geom.AtLeast(fc.padCrossStart+largest+fc.padCrossEnd, 1)
	}
}

// distributeMainAxis places children one after another from the main-start
// padding, advancing by size plus gap.
func distributeMainAxis(fc flowContainer, items []flowItem) {
	cursor := fc.padMainStart
	for i := range items {
		items[i].mainPos = cursor
		cursor += items[i].mainSize + fc.gap
	}
}

// alignCrossAxis positions each child inside the padded cross extent.
func alignCrossAxis(fc flowContainer, items []flowItem) {
	for i := range items {
		it := &items[i]
		switch fc.align {
		case meta.AlignCenter:
			inner := fc.crossSize - fc.padCrossStart - fc.padCrossEnd
			it.crossPos = fc.padCrossStart + (inner-it.crossSize)/2
		case meta.AlignEnd:
			it.crossPos = fc.crossSize - fc.padCrossEnd - it.crossSize
		default:
			it.crossPos = fc.padCrossStart
		}
	}
}
