package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"flowframe/pkg/config"
	"flowframe/pkg/engine"
	"flowframe/pkg/observability"
	"flowframe/pkg/resource"
)

func main() {
	cfgFile := flag.String("config", "", "config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: flowlab [flags] [scenario]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := observability.NewLogger(cfg.Logger)
	defer log.Sync()

	renderer := resource.NewScenarioRenderer(resource.NewFetcher(""), resource.Options{
		Engine: cfg.EngineOptions(),
		Render: cfg.RenderOptions(),
		Stdout: os.Stdout,
		Logger: log,
	})

	a := app.New()
	w := a.NewWindow("flowlab")
	w.Resize(fyne.NewSize(float32(cfg.Render.Width)+40, float32(cfg.Render.Height)+140))

	canvasImg := canvas.NewImageFromImage(nil)
	canvasImg.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel("Enter a scenario path or URL and press Enter")

	var current *lab
	picker := widget.NewSelect(nil, nil)
	widthSlider := widget.NewSlider(1, float64(cfg.Render.Width))
	heightSlider := widget.NewSlider(1, float64(cfg.Render.Height))

	// syncing suppresses the resize handlers while the sliders are moved to
	// a newly picked container's size.
	syncing := false
	syncSliders := func(id string) {
		if current == nil {
			return
		}
		if size, ok := current.Size(id); ok {
			syncing = true
			widthSlider.SetValue(size.W)
			heightSlider.SetValue(size.H)
			syncing = false
		}
	}
	picker.OnChanged = func(id string) {
		if current != nil {
			current.Release()
		}
		syncSliders(id)
	}

	resize := func(float64) {
		if syncing || current == nil || picker.Selected == "" {
			return
		}
		if err := current.Resize(picker.Selected, widthSlider.Value, heightSlider.Value); err != nil {
			status.SetText("Resize error: " + err.Error())
		}
	}
	release := func(float64) {
		if current != nil {
			current.Release()
		}
	}
	widthSlider.OnChanged, heightSlider.OnChanged = resize, resize
	widthSlider.OnChangeEnded, heightSlider.OnChangeEnded = release, release

	load := func(uri string) {
		status.SetText("Loading " + uri + "...")
		go func() {
			src, err := renderer.Load(context.Background(), uri)
			if err != nil {
				fyne.Do(func() { status.SetText("Error: " + err.Error()) })
				return
			}
			fyne.Do(func() {
				res, err := renderer.Run(uri, src)
				if err != nil {
					status.SetText("Script error: " + err.Error())
					return
				}
				if current != nil {
					current.Close()
				}
				current = newLab(res, cfg.RenderOptions(), log)
				canvasImg.Image = current.Image()
				canvasImg.Refresh()

				ids := current.Containers()
				picker.Options = ids
				picker.Refresh()
				if len(ids) > 0 {
					picker.SetSelected(ids[0])
				}
				w.SetTitle("flowlab - " + uri)
				status.SetText(current.Status())
			})
		}()
	}

	entry := widget.NewEntry()
	entry.SetPlaceHolder("scenario.js")
	entry.OnSubmitted = load

	go func() {
		ticker := time.NewTicker(engine.FrameInterval)
		defer ticker.Stop()
		for range ticker.C {
			fyne.Do(func() {
				if current == nil || !current.Tick() {
					return
				}
				canvasImg.Refresh()
				status.SetText(current.Status())
			})
		}
	}()

	controls := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("container"), nil, picker),
		container.NewBorder(nil, nil, widget.NewLabel("width"), nil, widthSlider),
		container.NewBorder(nil, nil, widget.NewLabel("height"), nil, heightSlider),
	)
	top := container.NewVBox(entry, controls)
	w.SetContent(container.NewBorder(top, status, nil, nil, canvasImg))
	w.Canvas().Focus(entry)

	if flag.NArg() > 0 {
		entry.SetText(flag.Arg(0))
		load(flag.Arg(0))
	}
	log.Info("flowlab started", zap.Int("width", cfg.Render.Width), zap.Int("height", cfg.Render.Height))
	w.ShowAndRun()
	if current != nil {
		current.Close()
	}
}
