// Package memory provides the in-memory PersistenceGateway implementation.
// It is the default backend for tests and for hosts that manage snapshot
// durability themselves.
package memory

import (
	"context"
	"sync"

	"github.com/wordtrail/wordtrail/internal/store"
)

// Gateway keeps snapshots in a process-local map.
type Gateway struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// Verify interface compliance at compile time
var _ store.PersistenceGateway = (*Gateway)(nil)

// NewGateway creates an empty in-memory gateway.
func NewGateway() *Gateway {
	return &Gateway{
		blobs: make(map[string][]byte),
	}
}

// Save stores a copy of the blob under the namespace.
func (g *Gateway) Save(ctx context.Context, namespace string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dup := make([]byte, len(blob))
	copy(dup, blob)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.blobs[namespace] = dup
	return nil
}

// Load returns a copy of the latest snapshot for the namespace.
func (g *Gateway) Load(ctx context.Context, namespace string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	blob, ok := g.blobs[namespace]
	if !ok {
		return nil, store.ErrSnapshotNotFound
	}

	dup := make([]byte, len(blob))
	copy(dup, blob)
	return dup, nil
}
