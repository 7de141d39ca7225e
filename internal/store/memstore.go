package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kittclouds/loredump/pkg/lore"
)

// MemStore is an in-memory Storer for tests and offline use.
// Documents are held as JSON so loads behave like a real remote.
type MemStore struct {
	mu        sync.RWMutex
	revisions []*Revision
	bodies    [][]byte
	now       func() int64

	loadErr error
	saveErr error
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{now: func() int64 { return time.Now().UnixMilli() }}
}

// NewMemStoreWith creates a store whose current document is doc.
func NewMemStoreWith(doc lore.Document) *MemStore {
	s := NewMemStore()
	_, _ = s.SaveDocument(context.Background(), doc)
	return s
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// FailLoads makes every LoadDocument return err until called with nil.
func (s *MemStore) FailLoads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSaves makes every SaveDocument return err until called with nil.
func (s *MemStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// =============================================================================
// Document
// =============================================================================

func (s *MemStore) LoadDocument(ctx context.Context) (*lore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if len(s.bodies) == 0 {
		return nil, nil
	}
	return FromJSON[lore.Document](s.bodies[len(s.bodies)-1])
}

func (s *MemStore) SaveDocument(ctx context.Context, doc lore.Document) (lore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return lore.Document{}, s.saveErr
	}
	return s.appendLocked(doc, ReasonPublish)
}

func (s *MemStore) appendLocked(doc lore.Document, reason string) (lore.Document, error) {
	body, err := ToJSON(doc.Clone())
	if err != nil {
		return lore.Document{}, err
	}
	stored, err := FromJSON[lore.Document](body)
	if err != nil {
		return lore.Document{}, err
	}

	now := s.now()
	if n := len(s.revisions); n > 0 {
		prev := s.revisions[n-1]
		prev.IsCurrent = false
		prev.ValidTo = &now
	}
	s.revisions = append(s.revisions, newRevision(uuid.NewString(), len(s.revisions)+1, *stored, now, reason))
	s.bodies = append(s.bodies, body)
	return *stored, nil
}

// =============================================================================
// History
// =============================================================================

func (s *MemStore) ListRevisions(ctx context.Context) ([]*Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Revision, len(s.revisions))
	for i, r := range s.revisions {
		copy := *r
		result[i] = &copy
	}
	return result, nil
}

func (s *MemStore) LoadRevision(ctx context.Context, version int) (*lore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if version < 1 || version > len(s.bodies) {
		return nil, ErrRevisionNotFound
	}
	return FromJSON[lore.Document](s.bodies[version-1])
}

func (s *MemStore) RestoreRevision(ctx context.Context, version int) (lore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version < 1 || version > len(s.bodies) {
		return lore.Document{}, ErrRevisionNotFound
	}
	old, err := FromJSON[lore.Document](s.bodies[version-1])
	if err != nil {
		return lore.Document{}, err
	}
	return s.appendLocked(*old, ReasonRestore)
}

// =============================================================================
// Helpers
// =============================================================================

// ToJSON converts a store model to JSON bytes.
func ToJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// FromJSON parses JSON bytes into a store model.
func FromJSON[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Compile-time interface check
var _ Storer = (*MemStore)(nil)
