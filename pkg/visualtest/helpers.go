package visualtest

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"flowframe/pkg/engine"
	"flowframe/pkg/render"
	"flowframe/pkg/resource"
)

// RenderScenario runs a scenario script and returns the final scene as an
// image of the given size.
func RenderScenario(name, src string, width, height int) (*image.RGBA, error) {
	r := resource.NewScenarioRenderer(nil, resource.Options{
		Engine: engine.DefaultOptions(),
		Render: render.Options{Scale: 1},
		Stdout: io.Discard,
	})
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	res, err := r.Render(name, src, img)
	if err != nil {
		return nil, err
	}
	res.Close()
	return img, nil
}

// RenderScenarioToFile renders a scenario to a PNG file
func RenderScenarioToFile(name, src, outputPath string, width, height int) error {
	img, err := RenderScenario(name, src, width, height)
	if err != nil {
		return err
	}

	// Ensure output directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := savePNG(img, outputPath); err != nil {
		return fmt.Errorf("save error: %w", err)
	}
	return nil
}

// UpdateReferenceImage regenerates the reference image of a scenario file.
// Use this when you've intentionally changed layout or rendering behavior
func UpdateReferenceImage(scenarioPath, referencePath string, width, height int) error {
	src, err := os.ReadFile(scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to read scenario: %w", err)
	}
	return RenderScenarioToFile(scenarioPath, string(src), referencePath, width, height)
}

// CompareScenarios renders two scenarios and compares the results. A
// scenario that reaches a layout through gestures should match one that
// builds the same layout directly.
func CompareScenarios(testSrc, refSrc string, width, height int, opts CompareOptions) (*CompareResult, error) {
	actual, err := RenderScenario("test", testSrc, width, height)
	if err != nil {
		return nil, fmt.Errorf("test scenario: %w", err)
	}
	expected, err := RenderScenario("ref", refSrc, width, height)
	if err != nil {
		return nil, fmt.Errorf("reference scenario: %w", err)
	}
	return Compare(actual, expected, opts)
}
