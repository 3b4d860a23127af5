package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/duitku/duitku-backend/internal/domain"
)

// remoteStore implements domain.DocumentStore on top of Postgres. It is the
// remote side of the dual-persistence scheme: one document row per identity,
// upserted whole on every write. Failures are tagged ErrRemoteRead or
// ErrRemoteWrite so callers can degrade to local-only operation.
type remoteStore struct {
	db *DB
}

// NewRemoteStore creates a new remote document store
func NewRemoteStore(db *DB) domain.DocumentStore {
	return &remoteStore{db: db}
}

// Load fetches the document for an identity. Returns (nil, nil) when no
// document exists yet.
func (r *remoteStore) Load(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT payload
		FROM ledger_documents
		WHERE identity = $1
	`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: fetch document for %s: %v", domain.ErrRemoteRead, key, err)
	}
	return payload, nil
}

// Save upserts the document at the identity key. The write is idempotent
// content-wise; only updated_at, the server-observed write timestamp,
// changes between identical writes.
func (r *remoteStore) Save(ctx context.Context, key string, payload []byte) error {
	query := `
		INSERT INTO ledger_documents (identity, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (identity)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, payload, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("%w: upsert document for %s: %v", domain.ErrRemoteWrite, key, err)
	}
	return nil
}
