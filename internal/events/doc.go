// Package events carries the one-way progress notifications the core emits
// toward external progress-tracking collaborators. Emission is strictly
// fire-and-forget: a failing or panicking handler never affects the core's
// state or control flow.
package events
