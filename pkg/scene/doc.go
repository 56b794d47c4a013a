// Package scene defines the boundary between the layout engine and the host
// editor that owns the shapes: the Shape record, change batches, batched
// updates, and the Host interface the engine queries, mutates and listens to.
//
// Store is an in-memory Host used by tests, scenario scripts and the lab. It
// keeps an ordered shape tree, emits a synchronous change batch for every
// mutation, and simulates an editor's interactive resize gesture, including
// the default transform that scales every descendant along with the
// container.
package scene
