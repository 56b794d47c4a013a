package render

import (
	"hash/fnv"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"flowframe/pkg/geom"
	"flowframe/pkg/meta"
	"flowframe/pkg/scene"
)

// Source is the scene a Renderer draws.
type Source interface {
	Walk(fn func(sh *scene.Shape, depth int))
	PageOrigin(id string) (x, y float64)
}

// Options configures a Renderer.
type Options struct {
	Width, Height int
	Scale         float64
	Labels        bool

	// FontPath is a TrueType font for labels. The built-in bitmap face is
	// used when it is empty or cannot be loaded.
	FontPath string
	FontSize float64
}

// DefaultOptions returns an 800x600 unscaled renderer with labels.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, Scale: 1, Labels: true, FontSize: 11}
}

// Background is the canvas color.
var Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Palette fills box shapes; each id maps to a stable entry.
var Palette = []color.RGBA{
	{R: 0x4e, G: 0x79, B: 0xa7, A: 0xff},
	{R: 0xf2, G: 0x8e, B: 0x2b, A: 0xff},
	{R: 0x59, G: 0xa1, B: 0x4f, A: 0xff},
	{R: 0xe1, G: 0x57, B: 0x59, A: 0xff},
	{R: 0x76, G: 0xb7, B: 0xb2, A: 0xff},
	{R: 0xb0, G: 0x7a, B: 0xa1, A: 0xff},
}

var (
	containerFill   = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf6, A: 0xff}
	containerStroke = color.RGBA{R: 0x55, G: 0x55, B: 0x60, A: 0xff}
	paddingGuide    = color.RGBA{R: 0xd0, G: 0x40, B: 0xc0, A: 0xff}
	pathStroke      = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	labelColor      = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

type Renderer struct {
	context *gg.Context
	opts    Options
}

func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	return newRenderer(gg.NewContext(opts.Width, opts.Height), opts)
}

// NewRendererForImage draws onto target; its bounds override opts' size.
func NewRendererForImage(target *image.RGBA, opts Options) *Renderer {
	b := target.Bounds()
	opts.Width, opts.Height = b.Dx(), b.Dy()
	return newRenderer(gg.NewContextForRGBA(target), opts)
}

func newRenderer(dc *gg.Context, opts Options) *Renderer {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultOptions().FontSize
	}
	r := &Renderer{context: dc, opts: opts}
	if opts.FontPath != "" {
		// On failure gg keeps its built-in face.
		_ = r.context.LoadFontFace(opts.FontPath, opts.FontSize)
	}
	return r
}

// Render clears the canvas and draws every shape of src in tree order, so
// children paint over their containers.
func (r *Renderer) Render(src Source) {
	dc := r.context
	dc.Identity()
	setColor(dc, Background)
	dc.Clear()
	dc.Scale(r.opts.Scale, r.opts.Scale)

	src.Walk(func(sh *scene.Shape, depth int) {
		ox, oy := src.PageOrigin(sh.ID)
		r.drawShape(sh, ox, oy)
	})
}

func (r *Renderer) drawShape(sh *scene.Shape, ox, oy float64) {
	dc := r.context
	dc.Push()
	defer dc.Pop()
	dc.Translate(ox, oy)

	if cl, ok := sh.Layout(); ok {
		r.drawContainer(sh, cl)
	} else if g, ok := geom.ReadPointGeometry(sh.Props); ok {
		r.drawPath(sh, g)
	} else {
		r.drawBox(sh)
	}
	if r.opts.Labels {
		rc := sh.Rect()
		setColor(dc, labelColor)
		dc.DrawString(sh.ID, rc.X+3, rc.Y+r.opts.FontSize+1)
	}
}

func (r *Renderer) drawContainer(sh *scene.Shape, cl meta.ContainerLayout) {
	dc := r.context
	rc := sh.Rect()
	dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	setColor(dc, containerFill)
	dc.FillPreserve()
	setColor(dc, containerStroke)
	dc.SetLineWidth(1)
	dc.Stroke()

	if cl.Mode != meta.ModeAuto {
		return
	}
	p := cl.Padding
	innerW := rc.W - p.Left - p.Right
	innerH := rc.H - p.Top - p.Bottom
	if (p.Top == 0 && p.Right == 0 && p.Bottom == 0 && p.Left == 0) || innerW <= 0 || innerH <= 0 {
		return
	}
	dc.SetDash(4, 3)
	dc.DrawRectangle(rc.X+p.Left, rc.Y+p.Top, innerW, innerH)
	setColor(dc, paddingGuide)
	dc.Stroke()
	dc.SetDash()
}

func (r *Renderer) drawBox(sh *scene.Shape) {
	dc := r.context
	rc := sh.Rect()
	fill := FillFor(sh.ID)
	if sh.Hidden() {
		fill.A = 0x60
	}
	dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	setColor(dc, fill)
	dc.Fill()
	if sh.Locked {
		dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
		setColor(dc, pathStroke)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
}

func (r *Renderer) drawPath(sh *scene.Shape, g *geom.PointGeometry) {
	dc := r.context
	if len(g.Points) == 0 {
		return
	}
	dc.NewSubPath()
	for _, p := range g.Points {
		dc.LineTo(sh.X+p.X, sh.Y+p.Y)
	}
	setColor(dc, pathStroke)
	dc.SetLineWidth(2)
	dc.Stroke()

	if sh.Type == "arrow" && len(g.Points) >= 2 {
		tip := g.Points[len(g.Points)-1]
		prev := g.Points[len(g.Points)-2]
		drawArrowHead(dc, sh.X+prev.X, sh.Y+prev.Y, sh.X+tip.X, sh.Y+tip.Y)
	}
}

func drawArrowHead(dc *gg.Context, x0, y0, x1, y1 float64) {
	const size = 8
	dc.Push()
	dc.Translate(x1, y1)
	dc.Rotate(math.Atan2(y1-y0, x1-x0))
	dc.MoveTo(0, 0)
	dc.LineTo(-size, -size/2)
	dc.LineTo(-size, size/2)
	dc.ClosePath()
	dc.Fill()
	dc.Pop()
}

// FillFor returns the palette color used for a box id.
func FillFor(id string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(id))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

func setColor(dc *gg.Context, c color.RGBA) {
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}
