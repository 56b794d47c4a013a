package engine

import (
	"time"

	"go.uber.org/zap"

	"flowframe/pkg/layout"
	"flowframe/pkg/meta"
	"flowframe/pkg/scene"
)

// SessionController follows interactive resizes of layout containers.
type SessionController struct {
	host  scene.Host
	clock Clock
	out   *writer
	log   *zap.Logger
	opts  layout.Options
	delay time.Duration

	state   SessionState
	session *ResizeSession
	seq     uint64

	// onEnd is called with the container id when a session returns to idle.
	onEnd func(containerID string)
}

// State returns the controller's phase.
func (c *SessionController) State() SessionState {
	return c.state
}

// Session returns the session in progress, if any.
func (c *SessionController) Session() (*ResizeSession, bool) {
	return c.session, c.session != nil
}

// Owns reports whether a session currently controls the container.
func (c *SessionController) Owns(id string) bool {
	return c.session != nil && c.session.ContainerID == id
}

// Observe feeds one host change batch to the state machine.
func (c *SessionController) Observe(batch scene.ChangeBatch) {
	c.seq++
	switch c.state {
	case StateIdle:
		c.maybeBegin(batch)
	case StateActive:
		if !c.host.IsResizing() {
			c.exit("resize ended")
			return
		}
		c.tick()
	}
}

func (c *SessionController) maybeBegin(batch scene.ChangeBatch) {
	if !c.host.IsResizing() {
		return
	}
	id, ok := c.host.SelectedShape()
	if !ok || !batch.Touches(id) {
		return
	}
	current, ok := c.host.Shape(id)
	if !ok {
		return
	}
	cl, ok := current.Layout()
	if !ok {
		return
	}

	container := current
	if before, ok := batch.Before(id); ok {
		container = before
	}
	baselines := c.captureChildren(batch, id)
	nested := make(map[string][]*scene.Shape)
	var captureBelow func(parent string)
	captureBelow = func(parent string) {
		kids := c.captureChildren(batch, parent)
		if len(kids) == 0 {
			return
		}
		nested[parent] = kids
		for _, k := range kids {
			captureBelow(k.ID)
		}
	}
	for _, b := range baselines {
		captureBelow(b.ID)
	}

	c.session = newResizeSession(container, cl, baselines, nested, c.opts, c.seq)
	c.state = StateActive
	c.log.Debug("resize session started",
		zap.Stringer("session", c.session.ID),
		zap.String("container", id),
		zap.Stringer("mode", cl.Mode),
		zap.Int("children", len(baselines)))
	c.tick()
}

// captureChildren snapshots the direct children of parent, preferring their
// state from before the batch.
func (c *SessionController) captureChildren(batch scene.ChangeBatch, parent string) []*scene.Shape {
	ids := c.host.ChildIDs(parent)
	out := make([]*scene.Shape, 0, len(ids))
	for _, id := range ids {
		if before, ok := batch.Before(id); ok {
			out = append(out, before.Clone())
			continue
		}
		if sh, ok := c.host.Shape(id); ok {
			out = append(out, sh)
		}
	}
	return out
}

// tick records the container's live box. Auto containers are re-solved from
// the baselines so the host's descendant scaling never shows.
func (c *SessionController) tick() {
	s := c.session
	sh, ok := c.host.Shape(s.ContainerID)
	if !ok {
		c.exit("container removed")
		return
	}
	s.To = sh.Rect()
	if s.Mode == meta.ModeAuto {
		res := c.solveAuto(s)
		c.out.write("resize tick", s.childUpdates(res.Children))
	}
}

// PointerMove writes the manual-constraint result over whatever the host
// wrote for the current tick.
func (c *SessionController) PointerMove() {
	s := c.session
	if c.state != StateActive || s.Mode != meta.ModeManual || !s.stableAt(c.seq) {
		return
	}
	if sh, ok := c.host.Shape(s.ContainerID); ok {
		s.To = sh.Rect()
	}
	c.out.write("manual correction", c.manualUpdates(s))
}

// PointerUp ends the active session.
func (c *SessionController) PointerUp() {
	if c.state == StateActive {
		c.exit("pointer up")
	}
}

// PointerCancel ends the active session like PointerUp. Whatever the host
// committed for the cancelled gesture is re-solved.
func (c *SessionController) PointerCancel() {
	if c.state == StateActive {
		c.exit("pointer cancel")
	}
}

// exit finalizes now and once more after the settle delay, since hosts may
// commit the last resize step after the pointer event.
func (c *SessionController) exit(reason string) {
	c.state = StateFinalizing
	s := c.session
	c.log.Debug("resize session finalizing", zap.Stringer("session", s.ID), zap.String("reason", reason))
	c.finalize(s)
	c.clock.AfterFunc(c.delay, func() {
		if c.session != s {
			return
		}
		c.finalize(s)
		c.end()
	})
}

func (c *SessionController) finalize(s *ResizeSession) {
	sh, ok := c.host.Shape(s.ContainerID)
	if !ok {
		return
	}
	s.To = sh.Rect()
	if s.Mode == meta.ModeManual {
		c.out.write("manual finalize", c.manualUpdates(s))
		return
	}
	res := c.solveAuto(s)
	c.out.write("auto finalize", s.childUpdates(res.Children))
	if u, ok := containerUpdate(sh, res); ok {
		c.out.write("auto finalize container", []scene.Update{u})
	}
}

func (c *SessionController) end() {
	s := c.session
	c.session = nil
	c.state = StateIdle
	c.log.Debug("resize session ended", zap.Stringer("session", s.ID))
	if c.onEnd != nil {
		c.onEnd(s.ContainerID)
	}
}

func (c *SessionController) solveAuto(s *ResizeSession) layout.AutoResult {
	container := layout.Container{ID: s.ContainerID, Box: s.To, Layout: s.Layout}
	return c.opts.ComputeAutoLayout(container, s.inputs)
}

func (c *SessionController) manualUpdates(s *ResizeSession) []scene.Update {
	patches := layout.ComputeManualConstraints(s.From.Size(), s.To.Size(), s.inputs)
	return s.childUpdates(patches)
}
