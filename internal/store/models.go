// Package store persists the published lore document.
// It is the remote side of the draft/publish cycle: a document store
// with whole-document load and save, keeping every published version.
package store

import (
	"context"
	"errors"

	"github.com/kittclouds/loredump/pkg/lore"
)

// ErrRevisionNotFound is returned when a requested version does not exist.
var ErrRevisionNotFound = errors.New("revision not found")

// Change reasons recorded on revisions.
const (
	ReasonPublish = "publish"
	ReasonRestore = "restore"
)

// Revision describes one stored version of the document.
// Uses the temporal table pattern: exactly one revision is current.
type Revision struct {
	ID           string `json:"id"`
	Version      int    `json:"version"`
	EntryCount   int    `json:"entryCount"`
	TagCount     int    `json:"tagCount"`
	ArcCount     int    `json:"arcCount"`
	ValidFrom    int64  `json:"validFrom"`
	ValidTo      *int64 `json:"validTo,omitempty"`
	IsCurrent    bool   `json:"isCurrent"`
	ChangeReason string `json:"changeReason,omitempty"`
}

// DocumentStore is the remote document collaborator.
type DocumentStore interface {
	// LoadDocument returns the current document, or nil when nothing has
	// been published yet.
	LoadDocument(ctx context.Context) (*lore.Document, error)
	// SaveDocument replaces the current document wholesale (last write
	// wins) and returns the content as stored.
	SaveDocument(ctx context.Context, doc lore.Document) (lore.Document, error)
	Close() error
}

// Storer is a DocumentStore that also keeps version history.
// MemStore and SQLiteStore both implement it.
type Storer interface {
	DocumentStore

	ListRevisions(ctx context.Context) ([]*Revision, error)
	LoadRevision(ctx context.Context, version int) (*lore.Document, error)
	RestoreRevision(ctx context.Context, version int) (lore.Document, error)
}

func newRevision(id string, version int, doc lore.Document, now int64, reason string) *Revision {
	return &Revision{
		ID:           id,
		Version:      version,
		EntryCount:   len(doc.Entries),
		TagCount:     len(doc.Tags),
		ArcCount:     len(doc.Arcs),
		ValidFrom:    now,
		IsCurrent:    true,
		ChangeReason: reason,
	}
}
