// Package geom holds the geometry helpers shared by the layout solvers:
// plain value types (Point, Size, Rect), numeric coercion of host data, and
// the point-geometry codec that reads line-like shapes into an ordered point
// list and writes them back in the exact encoding they arrived in.
//
// Every function in this package is total. Malformed or non-finite input is
// coerced or reported through a boolean, never through a panic.
package geom
