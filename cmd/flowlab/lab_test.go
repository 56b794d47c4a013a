package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowframe/pkg/engine"
	"flowframe/pkg/render"
	"flowframe/pkg/resource"
)

const labScenario = `
scene.container("row", {x: 10, y: 10, w: 200, h: 60, layout: {mode: "auto", gap: 10, padding: 10}});
scene.box("a", {parent: "row", w: 40, h: 40, sizing: {sizeX: "fill"}});
scene.box("b", {parent: "row", w: 40, h: 40});
scene.box("loose", {x: 250, y: 10, w: 20, h: 20});
`

func newTestLab(t *testing.T) *lab {
	t.Helper()
	r := resource.NewScenarioRenderer(nil, resource.Options{
		Engine: engine.DefaultOptions(),
		Render: render.Options{Scale: 1},
		Stdout: io.Discard,
	})
	res, err := r.Run("lab.js", labScenario)
	require.NoError(t, err)
	l := newLab(res, render.Options{Width: 300, Height: 100, Scale: 1}, nil)
	t.Cleanup(l.Close)
	return l
}

func settle(l *lab) {
	for i := 0; i < 100 && l.res.Loop.Pending(); i++ {
		l.Tick()
	}
}

func TestLab_Containers(t *testing.T) {
	l := newTestLab(t)
	assert.Equal(t, []string{"row"}, l.Containers())
	assert.Equal(t, 300, l.Image().Bounds().Dx())
}

func TestLab_ResizeAndRelease(t *testing.T) {
	l := newTestLab(t)

	require.NoError(t, l.Resize("row", 300, 60))
	assert.Equal(t, engine.StateActive, l.res.Engine.Sessions().State())
	assert.Contains(t, l.Status(), "resizing row")
	assert.True(t, l.Tick(), "expected a redraw after the resize")

	require.NoError(t, l.Resize("row", 320, 60))
	l.Release()
	settle(l)

	assert.Equal(t, engine.StateIdle, l.res.Engine.Sessions().State())
	size, ok := l.Size("row")
	require.True(t, ok)
	assert.Equal(t, 320.0, size.W)
	a, _ := l.res.Store.Shape("a")
	assert.Equal(t, 250.0, a.Props["w"])
}

func TestLab_TickWithoutChanges(t *testing.T) {
	l := newTestLab(t)
	settle(l)
	assert.False(t, l.Tick())
}

func TestLab_ResizeUnknown(t *testing.T) {
	l := newTestLab(t)
	assert.Error(t, l.Resize("missing", 10, 10))
	l.Release()
}
