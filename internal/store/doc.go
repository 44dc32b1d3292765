// Package store defines the persistence boundary of the core: a small
// blob-oriented gateway interface plus the error values shared by all of
// its implementations. Concrete backends live under internal/platform.
package store
