package script

import (
	"github.com/dop251/goja"

	"flowframe/pkg/geom"
)

// export converts a JS value to Go, turning every integer into float64 so
// the store holds one numeric type.
func export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return normalize(v.Export())
}

func normalize(v any) any {
	switch t := v.(type) {
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// options reads an optional object argument.
func options(call goja.FunctionCall, i int) map[string]any {
	m, _ := export(call.Argument(i)).(map[string]any)
	if m == nil {
		m = map[string]any{}
	}
	return m
}

func number(m map[string]any, key string, fallback float64) float64 {
	return geom.NumberOr(m[key], fallback)
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func ptObj(p geom.Point) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}
