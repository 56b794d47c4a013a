package resource

import (
	"context"
	"fmt"
	"image"
	"io"

	"go.uber.org/zap"

	"flowframe/pkg/engine"
	"flowframe/pkg/render"
	"flowframe/pkg/scene"
	"flowframe/pkg/script"
)

// settleFrames bounds the frames run after a script returns.
const settleFrames = 1000

// Result is the state a scenario left behind.
type Result struct {
	Store  *scene.Store
	Engine *engine.Engine
	Loop   *engine.FrameLoop

	// Frames is how many frames ran after the script returned.
	Frames int
}

// Close detaches the engine from the store.
func (r *Result) Close() {
	r.Engine.Close()
}

// Options configures a ScenarioRenderer.
type Options struct {
	Engine engine.Options
	Render render.Options
	Stdout io.Writer
	Logger *zap.Logger
}

// ScenarioRenderer runs scenario scripts against a fresh store and engine and
// renders the scene they leave.
type ScenarioRenderer struct {
	fetcher Fetcher
	opts    Options
	log     *zap.Logger
}

// NewScenarioRenderer creates a ScenarioRenderer. The fetcher is used by
// Load; it may be nil when scripts are passed in directly.
func NewScenarioRenderer(fetcher Fetcher, opts Options) *ScenarioRenderer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Engine.Logger == nil {
		opts.Engine.Logger = log
	}
	return &ScenarioRenderer{fetcher: fetcher, opts: opts, log: log.Named("resource")}
}

// Load fetches a scenario's source by URI.
func (r *ScenarioRenderer) Load(ctx context.Context, uri string) (string, error) {
	if r.fetcher == nil {
		return "", fmt.Errorf("load %s: no fetcher configured", uri)
	}
	if df, ok := r.fetcher.(*DefaultFetcher); ok {
		return df.FetchScript(ctx, uri)
	}
	body, _, err := r.fetcher.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Run executes a scenario and lets the engine settle.
func (r *ScenarioRenderer) Run(name, src string) (*Result, error) {
	store := scene.NewStore()
	loop := engine.NewFrameLoop()
	eng := engine.New(store, loop, r.opts.Engine)
	runner := script.New(store, eng, loop, script.Options{Stdout: r.opts.Stdout, Logger: r.log})

	res := &Result{Store: store, Engine: eng, Loop: loop}
	if err := runner.Run(name, src); err != nil {
		eng.Close()
		return nil, err
	}
	res.Frames = loop.Settle(settleFrames)
	if loop.Pending() {
		r.log.Warn("scenario did not settle", zap.String("scenario", name), zap.Int("frames", res.Frames))
	}
	return res, nil
}

// Render runs a scenario and draws the final scene onto target. The canvas
// size is taken from the target's bounds.
func (r *ScenarioRenderer) Render(name, src string, target *image.RGBA) (*Result, error) {
	res, err := r.Run(name, src)
	if err != nil {
		return nil, err
	}
	render.NewRendererForImage(target, r.opts.Render).Render(res.Store)
	return res, nil
}

// RenderURI loads, runs and renders a scenario.
func (r *ScenarioRenderer) RenderURI(ctx context.Context, uri string, target *image.RGBA) (*Result, error) {
	src, err := r.Load(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	return r.Render(uri, src, target)
}
