package script

import (
	"fmt"
	"io"
	"os"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"flowframe/pkg/engine"
	"flowframe/pkg/scene"
)

// Runner executes scenario scripts against a store driven by an engine.
type Runner struct {
	vm     *goja.Runtime
	store  *scene.Store
	engine *engine.Engine
	loop   *engine.FrameLoop
	log    *zap.Logger

	// proxies keeps one JS object per shape so === holds between lookups.
	proxies map[string]goja.Value
}

// Options configures a Runner.
type Options struct {
	// Stdout receives console.log output. Defaults to os.Stdout.
	Stdout io.Writer
	Logger *zap.Logger
}

// New creates a runner with a fresh goja runtime and registers the scenario
// globals: scene, gesture, frame, settle, console and assert.
func New(store *scene.Store, eng *engine.Engine, loop *engine.FrameLoop, opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	r := &Runner{
		vm:      goja.New(),
		store:   store,
		engine:  eng,
		loop:    loop,
		log:     log.Named("script"),
		proxies: make(map[string]goja.Value),
	}

	c := &consoleAPI{out: out, log: r.log}
	c.register(r.vm)
	r.registerScene()
	r.registerGesture()
	r.registerFrames()
	r.registerAssert()
	return r
}

// Run executes one script. JS exceptions are returned as errors.
func (r *Runner) Run(name, src string) error {
	if _, err := r.vm.RunScript(name, src); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// RunFile reads and executes a script file.
func (r *Runner) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return r.Run(path, string(src))
}

// throw raises err as a JS exception from inside a binding.
func (r *Runner) throw(err error) {
	panic(r.vm.NewGoError(err))
}
