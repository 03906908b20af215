// Package spatial owns the value types exchanged at the tracking boundary.
//
// Ownership boundary:
// - vectors, quaternions, poses, transforms
// - column-major 4x4 matrices and their decomposition
// - reference space kinds and stability tiers
// - capability names and sets
//
// Platform objects are converted into these types on ingress; nothing in
// this package holds platform handles.
package spatial
