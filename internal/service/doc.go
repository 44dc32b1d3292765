// Package service contains the orchestration layer of the core: the card
// store, the session manager and the statistics aggregator. Services own
// the in-memory state, serialize mutations, delegate scheduling math to
// internal/domain/srs and round-trip snapshots through the persistence
// gateway.
package service
