package store

import "context"

// Snapshot namespaces. Each namespace holds one serialized blob that is
// replaced wholesale on every save.
const (
	// NamespaceCards holds the serialized card collection.
	NamespaceCards = "cards"

	// NamespaceSessions holds active sessions and the bounded session history.
	NamespaceSessions = "sessions"
)

// PersistenceGateway is the local storage boundary of the core. It moves
// opaque serialized snapshots in and out of a backing store; it knows
// nothing about the entities inside them.
//
// Callers bound every operation with a context deadline. A failed Save is
// non-fatal to the caller by contract: the core keeps operating on
// in-memory state and retries on the next mutation.
type PersistenceGateway interface {
	// Save stores the blob under the given namespace, replacing any
	// previous snapshot.
	Save(ctx context.Context, namespace string, blob []byte) error

	// Load retrieves the latest snapshot for the namespace.
	// Returns ErrSnapshotNotFound if the namespace has never been saved.
	Load(ctx context.Context, namespace string) ([]byte, error)
}
