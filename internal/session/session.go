// Package session ties the working state, the remote baseline, the local
// draft and the view state together behind one mutex.
//
// Every mutation goes through the catalog, is persisted to the draft and
// announced with events.WorkingStateChanged. The baseline only changes on
// Load and Publish.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kittclouds/loredump/internal/draft"
	"github.com/kittclouds/loredump/internal/reconcile"
	"github.com/kittclouds/loredump/internal/store"
	"github.com/kittclouds/loredump/pkg/catalog"
	"github.com/kittclouds/loredump/pkg/events"
	"github.com/kittclouds/loredump/pkg/lore"
	"github.com/kittclouds/loredump/pkg/matcher"
	"github.com/kittclouds/loredump/pkg/view"
)

// ErrNotLoaded is returned by sync operations before a successful Load.
var ErrNotLoaded = errors.New("session not loaded")

// Config wires a Session. Remote and Drafts are required.
type Config struct {
	Remote   store.DocumentStore
	Drafts   *draft.Manager
	Notifier events.Notifier
	Logger   *slog.Logger
	// Sort is the initial sort mode.
	Sort view.SortMode
}

// Session is the explicit working state of one editor.
//
// mu guards the in-memory state only. Draft I/O and notifications happen
// after it is released, so subscribers may read the session. Draft writes
// are serialised by saveMu (lock order saveMu, then mu) and DraftUpdated
// fires inside it, so a DraftUpdated handler must not edit the session.
type Session struct {
	mu sync.Mutex

	saveMu   sync.Mutex
	gen      uint64 // working-state generation, guarded by mu
	savedGen uint64 // last generation written to the draft, guarded by saveMu

	remote store.DocumentStore
	drafts *draft.Manager
	rec    *reconcile.Reconciler
	notify events.Notifier
	logger *slog.Logger

	baseline lore.Document
	cat      *catalog.Catalog
	match    *matcher.Matcher
	query    view.Query
	loaded   bool
}

// New creates an empty session. Call Load before editing.
func New(cfg Config) *Session {
	s := &Session{
		remote: cfg.Remote,
		drafts: cfg.Drafts,
		notify: cfg.Notifier,
		logger: cfg.Logger,
		query:  view.Query{Tags: view.NewTagSet(), Sort: view.ParseSortMode(string(cfg.Sort))},
	}
	if s.notify == nil {
		s.notify = events.Discard
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.rec = reconcile.New(reconcile.Config{
		Store:    s.remote,
		Drafts:   s.drafts,
		Notifier: s.notify,
		Logger:   s.logger,
	})
	s.baseline = emptyDocument()
	s.cat = catalog.New(s.baseline)
	s.match = matcher.New(s.cat)
	return s
}

func emptyDocument() lore.Document {
	return lore.Document{Entries: []lore.Entry{}, Tags: []lore.Tag{}, Arcs: lore.Arcs{}}
}

// =============================================================================
// Load
// =============================================================================

// Load fetches the remote document as the baseline, lets a local draft
// override it as the working state, and creates tags for any tag name an
// entry references without a matching tag. A remote failure leaves the
// session empty and is returned.
func (s *Session) Load(ctx context.Context) error {
	remote, err := s.remote.LoadDocument(ctx)
	if err != nil {
		s.logger.Error("remote load failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to load remote document: %w", err)
	}
	d := s.drafts.Load()

	s.mu.Lock()
	baseline := emptyDocument()
	if remote != nil {
		baseline = remote.Clone()
	}
	baseline.Canonicalize()
	s.baseline = baseline

	working := baseline
	fromDraft := false
	if d != nil {
		working = d.Document()
		fromDraft = true
	}
	s.cat.Replace(working)
	created := s.cat.SyncTagsFromEntries()
	s.loaded = true

	var (
		snap lore.Document
		gen  uint64
	)
	if len(created) > 0 {
		snap, gen = s.snapshotLocked()
	}
	pending := s.pendingLocked()
	s.mu.Unlock()

	if len(created) > 0 {
		s.saveDraft(snap, gen)
	}

	s.logger.Info("session loaded",
		slog.Int("entries", len(working.Entries)),
		slog.Bool("draft", fromDraft),
		slog.Int("tags_created", len(created)),
		slog.Bool("pending", pending))
	s.notify.Notify(events.Event{Kind: events.WorkingStateChanged})
	s.notify.Notify(events.Event{Kind: events.SyncStatusChanged, Pending: pending})
	return nil
}

// Loaded reports whether Load has succeeded.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Baseline returns a copy of the last published document.
func (s *Session) Baseline() lore.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline.Clone()
}

// Working returns a copy of the working state.
func (s *Session) Working() lore.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Document()
}

// =============================================================================
// Internal
// =============================================================================

// mutate runs fn under the lock and, when it reports a change, saves the
// draft and announces it once the lock is released.
func (s *Session) mutate(fn func() (changed bool, err error)) error {
	s.mu.Lock()
	changed, err := fn()
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	snap, gen := s.snapshotLocked()
	s.mu.Unlock()

	s.saveDraft(snap, gen)
	s.notify.Notify(events.Event{Kind: events.WorkingStateChanged})
	return nil
}

// snapshotLocked starts a new generation and returns the working state
// to persist for it.
func (s *Session) snapshotLocked() (lore.Document, uint64) {
	s.gen++
	return s.cat.Document(), s.gen
}

// saveDraft persists snap unless a newer generation is already on disk.
// It must be called without mu. A failed save is logged; the edit itself
// stays in memory and the next save retries.
func (s *Session) saveDraft(snap lore.Document, gen uint64) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if gen <= s.savedGen {
		return
	}
	if err := s.drafts.Save(snap); err != nil {
		s.logger.Error("draft save failed", slog.String("error", err.Error()))
		return
	}
	s.savedGen = gen
}

func (s *Session) pendingLocked() bool {
	return draft.HasChanges(s.baseline, s.cat.Document())
}
