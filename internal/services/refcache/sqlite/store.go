// Package sqlite persists the reference cache in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/storage/sqlitemigrate"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache/sqlite/migrations"
)

// Store is a SQLite-backed refcache.Store. Payloads are stored
// snappy-compressed.
type Store struct {
	db    *sqlx.DB
	clock func() time.Time
}

type entityRow struct {
	Collection string `db:"collection"`
	ID         string `db:"id"`
	Payload    []byte `db:"payload"`
}

// Open opens a reference cache SQLite store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{db: db, clock: time.Now}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), db, migrations.FS, ""); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get loads one entity. A payload that fails to decompress is reported as
// refcache.ErrCorrupt.
func (s *Store) Get(ctx context.Context, collection string, id string) (refcache.Entity, error) {
	if err := ctx.Err(); err != nil {
		return refcache.Entity{}, err
	}
	if s == nil || s.db == nil {
		return refcache.Entity{}, fmt.Errorf("storage is not configured")
	}
	collection = strings.TrimSpace(collection)
	id = strings.TrimSpace(id)
	if collection == "" || id == "" {
		return refcache.Entity{}, refcache.ErrNotFound
	}

	var row entityRow
	err := s.db.GetContext(ctx, &row, `
SELECT collection, id, payload
FROM reference_entities
WHERE collection = ? AND id = ?
`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return refcache.Entity{}, refcache.ErrNotFound
	}
	if err != nil {
		return refcache.Entity{}, fmt.Errorf("get reference entity %s/%s: %w", collection, id, err)
	}
	return decodeRow(row)
}

// GetAll lists one collection ordered by id. Rows whose payload cannot be
// decompressed are skipped.
func (s *Store) GetAll(ctx context.Context, collection string) ([]refcache.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return []refcache.Entity{}, nil
	}

	var rows []entityRow
	if err := s.db.SelectContext(ctx, &rows, `
SELECT collection, id, payload
FROM reference_entities
WHERE collection = ?
ORDER BY id
`, collection); err != nil {
		return nil, fmt.Errorf("list reference entities %s: %w", collection, err)
	}

	entities := make([]refcache.Entity, 0, len(rows))
	for _, row := range rows {
		entity, err := decodeRow(row)
		if err != nil {
			continue
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Put inserts or replaces one entity snapshot.
func (s *Store) Put(ctx context.Context, entity refcache.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	collection := strings.TrimSpace(entity.Collection)
	id := strings.TrimSpace(entity.ID)
	if collection == "" {
		return fmt.Errorf("collection is required")
	}
	if id == "" {
		return fmt.Errorf("entity id is required")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO reference_entities (collection, id, payload, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(collection, id) DO UPDATE SET
    payload = excluded.payload,
    updated_at = excluded.updated_at
`, collection, id, snappy.Encode(nil, entity.Payload), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put reference entity %s/%s: %w", collection, id, err)
	}
	return nil
}

// Invalidate removes one entity snapshot. Removing an absent entity is not
// an error.
func (s *Store) Invalidate(ctx context.Context, collection string, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM reference_entities WHERE collection = ? AND id = ?",
		strings.TrimSpace(collection), strings.TrimSpace(id),
	); err != nil {
		return fmt.Errorf("invalidate reference entity %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func decodeRow(row entityRow) (refcache.Entity, error) {
	payload, err := snappy.Decode(nil, row.Payload)
	if err != nil {
		return refcache.Entity{}, fmt.Errorf("%w: %s/%s: %v", refcache.ErrCorrupt, row.Collection, row.ID, err)
	}
	return refcache.Entity{Collection: row.Collection, ID: row.ID, Payload: payload}, nil
}

var _ refcache.Store = (*Store)(nil)
