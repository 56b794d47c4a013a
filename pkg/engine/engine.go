package engine

import (
	"time"

	"go.uber.org/zap"

	"flowframe/pkg/layout"
	"flowframe/pkg/scene"
)

// Options configures an Engine.
type Options struct {
	Layout layout.Options

	// FinalizeDelay is the settle timer between the two finalize passes.
	FinalizeDelay time.Duration

	Logger *zap.Logger
}

// DefaultOptions returns a zero-delay engine with default solver options
// and no logging.
func DefaultOptions() Options {
	return Options{Layout: layout.DefaultOptions()}
}

// Engine connects the session controller and the scheduler to a host.
type Engine struct {
	host      scene.Host
	clock     Clock
	log       *zap.Logger
	guard     *guard
	sessions  *SessionController
	scheduler *Scheduler

	unsubscribe func()
	ignored     int
}

// New creates an engine and subscribes it to the host's change feed.
func New(host scene.Host, clock Clock, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	g := newGuard(clock)
	out := &writer{host: host, guard: g, log: log.Named("engine.writer")}

	e := &Engine{
		host:  host,
		clock: clock,
		log:   log.Named("engine"),
		guard: g,
	}
	e.scheduler = &Scheduler{
		host:     host,
		clock:    clock,
		out:      out,
		log:      log.Named("engine.scheduler"),
		opts:     opts.Layout,
		dirtySet: make(map[string]struct{}),
		queued:   make(map[string]struct{}),
	}
	e.sessions = &SessionController{
		host:  host,
		clock: clock,
		out:   out,
		log:   log.Named("engine.session"),
		opts:  opts.Layout,
		delay: opts.FinalizeDelay,
		onEnd: e.scheduler.Release,
	}
	e.scheduler.owns = e.sessions.Owns
	e.unsubscribe = host.Subscribe(e.HandleChanges)
	return e
}

// HandleChanges routes one host change batch. Batches emitted while the
// engine's own write is applied, and update records that merely echo such a
// write, are dropped; everything else reaches the session controller and the
// scheduler.
func (e *Engine) HandleChanges(batch scene.ChangeBatch) {
	if e.guard.Writing() {
		e.ignored++
		return
	}
	batch, dropped := e.guard.filter(batch)
	if batch.Empty() {
		if dropped > 0 {
			e.ignored++
		}
		return
	}
	e.sessions.Observe(batch)
	e.scheduler.Observe(batch)
}

// PointerMove forwards the host's pointer-move hook.
func (e *Engine) PointerMove() {
	e.sessions.PointerMove()
}

// PointerUp forwards the host's pointer-up hook.
func (e *Engine) PointerUp() {
	e.sessions.PointerUp()
}

// PointerCancel forwards the host's pointer-cancel hook.
func (e *Engine) PointerCancel() {
	e.sessions.PointerCancel()
}

// LayoutAll marks every auto container of the host's tree dirty, outermost
// last so nested containers settle first.
func (e *Engine) LayoutAll() {
	var visit func(parent string)
	visit = func(parent string) {
		for _, id := range e.host.ChildIDs(parent) {
			visit(id)
			e.scheduler.markIfAuto(id)
		}
	}
	visit("")
}

// Sessions returns the resize session controller.
func (e *Engine) Sessions() *SessionController {
	return e.sessions
}

// Scheduler returns the dirty-tracking scheduler.
func (e *Engine) Scheduler() *Scheduler {
	return e.scheduler
}

// Guarded reports whether the engine wrote to the host since the last frame
// and is filtering echoes of that write.
func (e *Engine) Guarded() bool {
	return e.guard.Held()
}

// Ignored returns how many change batches were dropped whole as echoes of
// the engine's writes.
func (e *Engine) Ignored() int {
	return e.ignored
}

// Close unsubscribes from the host.
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}
