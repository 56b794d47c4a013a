package main

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"flowframe/pkg/geom"
	"flowframe/pkg/render"
	"flowframe/pkg/resource"
	"flowframe/pkg/scene"
)

// lab drives one loaded scenario interactively: it plays the editor's resize
// handle against the store, pumps the frame loop and keeps a rendered image
// of the scene up to date. It is not safe for concurrent use; the UI calls
// it from the main goroutine only.
type lab struct {
	res    *resource.Result
	opts   render.Options
	target *image.RGBA
	log    *zap.Logger

	changed     bool
	unsubscribe func()
}

func newLab(res *resource.Result, opts render.Options, log *zap.Logger) *lab {
	if log == nil {
		log = zap.NewNop()
	}
	l := &lab{
		res:    res,
		opts:   opts,
		target: image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		log:    log.Named("lab"),
	}
	l.unsubscribe = res.Store.Subscribe(func(scene.ChangeBatch) { l.changed = true })
	l.redraw()
	return l
}

// Image is the current render of the scene.
func (l *lab) Image() *image.RGBA { return l.target }

// Containers lists the ids of every layout container in tree order.
func (l *lab) Containers() []string {
	var ids []string
	l.res.Store.Walk(func(sh *scene.Shape, _ int) {
		if _, ok := sh.Layout(); ok {
			ids = append(ids, sh.ID)
		}
	})
	return ids
}

// Size returns a shape's current box size.
func (l *lab) Size(id string) (geom.Size, bool) {
	sh, ok := l.res.Store.Shape(id)
	if !ok {
		return geom.Size{}, false
	}
	return sh.Size()
}

// Resize moves the resize handle of container id to w x h, starting a
// gesture first if none is running for it.
func (l *lab) Resize(id string, w, h float64) error {
	store := l.res.Store
	if cur, ok := store.ResizingID(); ok && cur != id {
		l.Release()
	}
	if _, ok := store.ResizingID(); !ok {
		store.Select(id)
		if err := store.BeginResize(id); err != nil {
			return err
		}
		l.log.Debug("resize started", zap.String("container", id))
	}
	if err := store.ResizeTo(w, h); err != nil {
		return fmt.Errorf("resizing %s: %w", id, err)
	}
	l.res.Engine.PointerMove()
	return nil
}

// Release lets go of the resize handle.
func (l *lab) Release() {
	if _, ok := l.res.Store.ResizingID(); !ok {
		return
	}
	l.res.Store.EndResize()
	l.res.Engine.PointerUp()
}

// Tick runs one frame and redraws when the scene changed. It reports
// whether the image was redrawn.
func (l *lab) Tick() bool {
	l.res.Loop.RunFrame()
	if !l.changed {
		return false
	}
	l.redraw()
	return true
}

// Status is a one-line summary for the status bar.
func (l *lab) Status() string {
	s := l.res.Engine.Sessions()
	if sess, ok := s.Session(); ok {
		return fmt.Sprintf("%s resizing %s (%s)", s.State(), sess.ContainerID, sess.Mode)
	}
	return fmt.Sprintf("%s, %d dirty", s.State(), len(l.res.Engine.Scheduler().Dirty()))
}

func (l *lab) redraw() {
	render.NewRendererForImage(l.target, l.opts).Render(l.res.Store)
	l.changed = false
}

func (l *lab) Close() {
	l.Release()
	l.unsubscribe()
	l.res.Close()
}
