// Package meta interprets the opaque layout metadata a host stores on its
// shapes: per-child sizing modes, per-child anchor constraints, and the
// container's own layout configuration.
//
// The readers never reject input. Missing keys, wrong types and unknown
// tokens all normalize to the documented defaults.
package meta
