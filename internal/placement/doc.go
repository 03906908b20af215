// Package placement owns the tracking and placement state machine.
//
// Ownership boundary:
// - session lifecycle (start, per-frame updates, end)
// - reference space negotiation with ordered fallback
// - hit-test subscription setup and polling
// - reticle derivation
// - create-or-move of the single placed instance
//
// Lifecycle order:
// - start -> negotiate space -> hit-test setup -> frame updates -> end
//
// - frames before negotiation completes still render, with the reticle hidden.
//
// - hit-test setup is requested at most once per session.
//
// Rendering, asset loading and UI chrome are collaborators reached through
// the Renderer, AssetSource and UI interfaces.
package placement
