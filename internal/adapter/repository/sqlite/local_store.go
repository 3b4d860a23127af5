package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/duitku/duitku-backend/internal/domain"
)

// ledgerDocument is the single-slot row backing the local store: one
// serialized ledger per storage key.
type ledgerDocument struct {
	Key       string `gorm:"primaryKey;column:key"`
	Payload   []byte `gorm:"column:payload"`
	UpdatedAt time.Time
}

func (ledgerDocument) TableName() string {
	return "ledger_documents"
}

// Store is the SQLite-backed local document store. It implements
// domain.DocumentStore and is the durable fallback when no remote backend
// is reachable.
type Store struct {
	db *gorm.DB
}

// Open creates the local document store at path, creating the parent
// directory and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create local store dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	if err := db.AutoMigrate(&ledgerDocument{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// durability over throughput; writes are one small document per mutation
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")

	return &Store{db: db}, nil
}

// Load retrieves the document stored under key. Returns (nil, nil) when no
// slot exists for the key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var doc ledgerDocument
	err := s.db.WithContext(ctx).First(&doc, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load local document %s: %w", key, err)
	}
	return doc.Payload, nil
}

// Save upserts the document under key, overwriting any prior value
// unconditionally.
func (s *Store) Save(ctx context.Context, key string, payload []byte) error {
	doc := ledgerDocument{Key: key, Payload: payload, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("save local document %s: %w", key, err)
	}
	return nil
}

var _ domain.DocumentStore = (*Store)(nil)
