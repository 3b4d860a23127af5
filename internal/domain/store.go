package domain

import "context"

// DocumentStore defines the interface for ledger document persistence.
// It is a single-slot key-value API: one opaque serialized ledger per key.
// Both the local durable store and the remote document store implement it;
// the persistence gateway composes the two and never assumes either is present.
type DocumentStore interface {
	// Load retrieves the document stored under key.
	// Returns (nil, nil) when no document exists for the key.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save upserts the document under key, overwriting any prior value
	// unconditionally.
	Save(ctx context.Context, key string, payload []byte) error
}

// IdentityProvider defines the interface for establishing a user identity.
// The core only requires a stable identity string back; it is agnostic to
// how that identity was established. A sign-in failure is non-fatal to the
// session, which then proceeds in local-only mode.
type IdentityProvider interface {
	// SignIn resolves a user-supplied credential to a stable identity string.
	SignIn(ctx context.Context, credential string) (string, error)
}
