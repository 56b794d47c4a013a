// Package layout computes child geometry for layout containers.
//
// Two pure solvers live here. [ComputeAutoLayout] flows children along a
// single axis with gap, padding, cross alignment and fixed/hug/fill sizing,
// much like a one-line flexbox. [ComputeManualConstraints] re-anchors
// children to container edges after a resize, much like absolutely
// positioned boxes with left/right/top/bottom offsets.
//
// Both solvers are total and deterministic: calling them twice with the same
// input yields the same patches.
package layout
