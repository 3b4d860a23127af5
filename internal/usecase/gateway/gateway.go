package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/duitku/duitku-backend/internal/domain"
)

// localKeyPrefix namespaces local slots per identity. The derivation must be
// stable and collision-free across identities; documents written before a
// rename would otherwise be orphaned.
const localKeyPrefix = "money-tracker-"

// Gateway serializes the full ledger to a local durable store and a remote
// document store, keyed by one user identity. The full document is written
// on every mutation rather than deltas: write amplification is traded for
// the absence of merge logic, acceptable because a ledger is bounded by a
// single user's expense history.
//
// A nil remote store is a valid operating mode (local-only), not an error.
type Gateway struct {
	local    domain.DocumentStore
	remote   domain.DocumentStore
	identity string
}

// New creates a gateway bound to an identity. local must be non-nil;
// remote may be nil for local-only operation.
func New(local, remote domain.DocumentStore, identity string) *Gateway {
	return &Gateway{
		local:    local,
		remote:   remote,
		identity: identity,
	}
}

// RemoteEnabled reports whether a remote backend was configured
func (g *Gateway) RemoteEnabled() bool {
	return g.remote != nil
}

func (g *Gateway) localKey() string {
	return localKeyPrefix + g.identity
}

// SaveLocal writes the serialized ledger to the local slot, overwriting any
// prior value unconditionally. An unencodable ledger surfaces ErrSerialization.
func (g *Gateway) SaveLocal(ctx context.Context, ledger *domain.Ledger) error {
	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("%w: encode ledger: %v", domain.ErrSerialization, err)
	}
	if err := g.local.Save(ctx, g.localKey(), payload); err != nil {
		return fmt.Errorf("save local ledger: %w", err)
	}
	return nil
}

// LoadLocal reads the ledger back from the local slot. Returns (nil, nil)
// when no slot exists for this identity, and ErrCorruptData when a slot
// exists but cannot be decoded; the caller then treats the slot as absent
// and proceeds with an empty ledger rather than crashing the session.
func (g *Gateway) LoadLocal(ctx context.Context) (*domain.Ledger, error) {
	payload, err := g.local.Load(ctx, g.localKey())
	if err != nil {
		return nil, fmt.Errorf("load local ledger: %w", err)
	}
	if payload == nil {
		return nil, nil
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(payload, &ledger); err != nil {
		return nil, fmt.Errorf("%w: decode local ledger: %v", domain.ErrCorruptData, err)
	}
	return &ledger, nil
}

// SaveRemote upserts the ledger document at the identity key. A nil remote
// backend makes this a no-op. Backend failures come back as ErrRemoteWrite,
// which callers treat as non-fatal: the local copy stays authoritative.
func (g *Gateway) SaveRemote(ctx context.Context, ledger *domain.Ledger) error {
	if g.remote == nil {
		return nil
	}
	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("%w: encode ledger: %v", domain.ErrSerialization, err)
	}
	return g.remote.Save(ctx, g.identity, payload)
}

// LoadRemote fetches the ledger document for this identity. Returns
// (nil, nil) when no document exists yet or no remote is configured.
// Backend failures come back as ErrRemoteRead; the caller falls back to the
// local load. An unparseable remote document is reported the same way, so
// the fallback path is identical.
func (g *Gateway) LoadRemote(ctx context.Context) (*domain.Ledger, error) {
	if g.remote == nil {
		return nil, nil
	}
	payload, err := g.remote.Load(ctx, g.identity)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(payload, &ledger); err != nil {
		return nil, fmt.Errorf("%w: decode remote ledger: %v", domain.ErrRemoteRead, err)
	}
	return &ledger, nil
}

// SaveBoth is the write-through path: local first, then remote. A remote
// failure is returned to the caller but never rolls back the local write.
func (g *Gateway) SaveBoth(ctx context.Context, ledger *domain.Ledger) error {
	if err := g.SaveLocal(ctx, ledger); err != nil {
		return err
	}
	return g.SaveRemote(ctx, ledger)
}
