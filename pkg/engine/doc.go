// Package engine keeps a host's layout containers solved while the host
// changes underneath it.
//
// The Engine subscribes to a scene.Host change feed and routes each batch to
// two collaborators:
//
//   - the SessionController, a state machine (Idle -> Active -> Finalizing ->
//     Idle) that follows an interactive resize of one selected container,
//     captures its children's baseline geometry once, overrides the host's
//     default descendant scaling while the pointer moves, and finalizes twice
//     after the pointer is released;
//   - the Scheduler, which batches non-interactive invalidations of auto
//     containers and re-solves each dirty container at most once per frame.
//
// Every write the engine makes goes through a guard that stays held until the
// next frame, so the engine never reacts to its own mutations. Suspension
// points (next frame, settle timer) go through an injected Clock; FrameLoop is
// the deterministic implementation used by tests, scripts and the lab.
//
// The engine is single-threaded. Hosts must serialize every call.
package engine
