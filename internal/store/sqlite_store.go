package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/kittclouds/loredump/pkg/lore"
)

// SQLiteStore is the SQLite-backed remote document store.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
type SQLiteStore struct {
	mu  sync.RWMutex
	db  *sql.DB
	now func() int64
}

// schema keeps every published document using temporal versioning.
const schema = `
-- Documents (Temporal versioning pattern)
-- One row per published version; exactly one row has is_current = 1
CREATE TABLE IF NOT EXISTS documents (
    version INTEGER PRIMARY KEY,
    id TEXT NOT NULL,
    body TEXT NOT NULL,
    entry_count INTEGER NOT NULL DEFAULT 0,
    tag_count INTEGER NOT NULL DEFAULT 0,
    arc_count INTEGER NOT NULL DEFAULT 0,
    valid_from INTEGER NOT NULL,
    valid_to INTEGER,
    is_current INTEGER DEFAULT 1,
    change_reason TEXT
);

CREATE INDEX IF NOT EXISTS idx_documents_current ON documents(version) WHERE is_current = 1;
CREATE INDEX IF NOT EXISTS idx_documents_history ON documents(valid_from);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:  db,
		now: func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Document
// =============================================================================

// LoadDocument returns the current document, or nil when none was saved.
func (s *SQLiteStore) LoadDocument(ctx context.Context) (*lore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE is_current = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return FromJSON[lore.Document]([]byte(body))
}

// SaveDocument closes the current version and inserts doc as the next.
func (s *SQLiteStore) SaveDocument(ctx context.Context, doc lore.Document) (lore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertVersion(ctx, doc, ReasonPublish)
}

func (s *SQLiteStore) insertVersion(ctx context.Context, doc lore.Document, reason string) (lore.Document, error) {
	body, err := ToJSON(doc.Clone())
	if err != nil {
		return lore.Document{}, err
	}
	stored, err := FromJSON[lore.Document](body)
	if err != nil {
		return lore.Document{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return lore.Document{}, err
	}
	defer tx.Rollback()

	var maxVersion sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(version) FROM documents`).Scan(&maxVersion); err != nil {
		return lore.Document{}, err
	}

	now := s.now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE documents SET valid_to = ?, is_current = 0
		WHERE is_current = 1
	`, now); err != nil {
		return lore.Document{}, err
	}

	rev := newRevision(uuid.NewString(), int(maxVersion.Int64)+1, *stored, now, reason)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (version, id, body, entry_count, tag_count, arc_count,
			valid_from, valid_to, is_current, change_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rev.Version, rev.ID, string(body), rev.EntryCount, rev.TagCount, rev.ArcCount,
		rev.ValidFrom, nil, 1, rev.ChangeReason); err != nil {
		return lore.Document{}, err
	}

	if err := tx.Commit(); err != nil {
		return lore.Document{}, fmt.Errorf("failed to save document: %w", err)
	}
	return *stored, nil
}

// =============================================================================
// History
// =============================================================================

// ListRevisions returns all versions, oldest first.
func (s *SQLiteStore) ListRevisions(ctx context.Context) ([]*Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, entry_count, tag_count, arc_count,
			valid_from, valid_to, is_current, change_reason
		FROM documents ORDER BY version ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []*Revision
	for rows.Next() {
		var r Revision
		var validTo sql.NullInt64
		var isCurrent int
		var reason sql.NullString
		if err := rows.Scan(&r.ID, &r.Version, &r.EntryCount, &r.TagCount, &r.ArcCount,
			&r.ValidFrom, &validTo, &isCurrent, &reason); err != nil {
			return nil, err
		}
		if validTo.Valid {
			r.ValidTo = &validTo.Int64
		}
		r.IsCurrent = isCurrent != 0
		r.ChangeReason = reason.String
		revisions = append(revisions, &r)
	}
	return revisions, rows.Err()
}

// LoadRevision returns the document as stored at version.
func (s *SQLiteStore) LoadRevision(ctx context.Context, version int) (*lore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadVersion(ctx, version)
}

func (s *SQLiteStore) loadVersion(ctx context.Context, version int) (*lore.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE version = ?`, version).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRevisionNotFound
	}
	if err != nil {
		return nil, err
	}
	return FromJSON[lore.Document]([]byte(body))
}

// RestoreRevision creates a new current version with the content of an
// older one. History is never rewritten.
func (s *SQLiteStore) RestoreRevision(ctx context.Context, version int) (lore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.loadVersion(ctx, version)
	if err != nil {
		return lore.Document{}, err
	}
	return s.insertVersion(ctx, *old, ReasonRestore)
}

// Compile-time interface check
var _ Storer = (*SQLiteStore)(nil)
