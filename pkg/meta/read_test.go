package meta

import (
	"testing"
)

func TestReadSizing(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want Sizing
	}{
		{"nil", nil, Sizing{SizeFixed, SizeFixed}},
		{"wrong type", 42, Sizing{SizeFixed, SizeFixed}},
		{"fill and hug", map[string]any{"sizeX": "fill", "sizeY": "hug"}, Sizing{SizeFill, SizeHug}},
		{"case and spaces", map[string]any{"sizeX": " FILL "}, Sizing{SizeFill, SizeFixed}},
		{"unknown token", map[string]any{"sizeX": "grow", "sizeY": 3}, Sizing{SizeFixed, SizeFixed}},
		{"string map", map[string]string{"sizeY": "fill"}, Sizing{SizeFixed, SizeFill}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadSizing(tt.raw); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestReadConstraints(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want Constraints
	}{
		{"defaults", nil, Constraints{AnchorStart, AnchorStart}},
		{"right bottom", map[string]any{"h": "right", "v": "bottom"}, Constraints{AnchorEnd, AnchorEnd}},
		{"stretch", map[string]any{"h": "leftRight", "v": "topBottom"}, Constraints{AnchorStretch, AnchorStretch}},
		{"legacy scale", map[string]any{"h": "scale", "v": "scale"}, Constraints{AnchorStretch, AnchorStretch}},
		{"center", map[string]any{"h": "center", "v": "center"}, Constraints{AnchorCenter, AnchorCenter}},
		{"cross spelling", map[string]any{"h": "top", "v": "right"}, Constraints{AnchorStart, AnchorEnd}},
		{"garbage", map[string]any{"h": []int{1}, "v": "sideways"}, Constraints{AnchorStart, AnchorStart}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadConstraints(tt.raw); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestReadContainerLayout(t *testing.T) {
	if _, ok := ReadContainerLayout(nil); ok {
		t.Error("expected nil meta to not be a layout container")
	}
	if _, ok := ReadContainerLayout(map[string]any{"layout": 7}); ok {
		t.Error("expected a numeric layout key to be ignored")
	}

	cl, ok := ReadContainerLayout(map[string]any{"layout": map[string]any{
		"mode":       "auto",
		"direction":  "vertical",
		"gap":        12,
		"padding":    map[string]any{"top": 1, "right": 2, "bottom": 3, "left": "4"},
		"alignCross": "center",
		"sizeX":      "hug",
		"sizeY":      "fill",
	}})
	if !ok {
		t.Fatal("expected a layout container")
	}
	if cl.Mode != ModeAuto || cl.Direction != Vertical || cl.Gap != 12 || cl.AlignCross != AlignCenter {
		t.Errorf("unexpected layout %+v", cl)
	}
	if cl.Padding != (Edges{Top: 1, Right: 2, Bottom: 3, Left: 4}) {
		t.Errorf("expected padding 1/2/3/4, got %+v", cl.Padding)
	}
	if cl.SizeX != SizeHug {
		t.Errorf("expected sizeX hug, got %v", cl.SizeX)
	}
	if cl.SizeY != SizeFixed {
		t.Errorf("expected container fill to normalize to fixed, got %v", cl.SizeY)
	}

	manual, ok := ReadContainerLayout(map[string]any{"layout": "Manual"})
	if !ok || manual.Mode != ModeManual {
		t.Errorf("expected bare manual token to parse, got %+v (ok=%v)", manual, ok)
	}

	uniform, _ := ReadContainerLayout(map[string]any{"layout": map[string]any{"padding": 16}})
	if uniform.Padding != EdgeAll(16) {
		t.Errorf("expected uniform padding 16, got %+v", uniform.Padding)
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden(map[string]any{"hidden": true}) {
		t.Error("expected hidden=true")
	}
	if !IsHidden(map[string]any{"hidden": "TRUE"}) {
		t.Error("expected string true to be hidden")
	}
	if IsHidden(map[string]any{"hidden": 1}) || IsHidden(nil) {
		t.Error("expected non-bool values to be visible")
	}
}
