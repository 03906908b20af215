// Package xr defines the spatial-tracking platform boundary.
//
// Ownership boundary:
// - platform capability check and session request
// - reference space and hit-test subscription requests
// - per-frame viewer pose and hit-test queries
//
// Implementations convert platform pose objects into spatial value types
// before returning them. The sim subpackage provides a scripted platform.
package xr
