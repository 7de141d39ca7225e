package session

import (
	"context"
	"fmt"

	"github.com/kittclouds/loredump/internal/draft"
	"github.com/kittclouds/loredump/internal/reconcile"
	"github.com/kittclouds/loredump/pkg/events"
	"github.com/kittclouds/loredump/pkg/lore"
)

// HasChanges reports whether the working state differs from the baseline.
func (s *Session) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked()
}

// Diff classifies every difference between baseline and working state.
func (s *Session) Diff() draft.Diff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return draft.Compute(s.baseline, s.cat.Document())
}

// Review opens a review of the current diff with every change selected.
func (s *Session) Review() *reconcile.Review {
	return reconcile.NewReview(s.Diff())
}

// Publish commits the selected changes of review. A nil review publishes
// everything. The lock is not held during the remote write, so edits made
// meanwhile stay in the working state and the draft and show up in the
// next diff.
func (s *Session) Publish(ctx context.Context, review *reconcile.Review) (reconcile.Result, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return reconcile.Result{}, ErrNotLoaded
	}
	baseline := s.baseline.Clone()
	working := s.cat.Document()
	s.mu.Unlock()

	if review == nil {
		review = reconcile.NewReview(draft.Compute(baseline, working))
	}

	res, err := s.rec.Publish(ctx, baseline, working, review)
	if err != nil {
		return reconcile.Result{}, err
	}

	s.mu.Lock()
	s.baseline = res.Baseline.Clone()
	edited := !s.cat.Document().Equal(working)
	resave := edited && res.DraftCleared
	var (
		snap lore.Document
		gen  uint64
	)
	if resave {
		snap, gen = s.snapshotLocked()
	}
	pending := s.pendingLocked()
	s.mu.Unlock()

	if resave {
		// The draft must hold the edits made while publishing.
		s.saveDraft(snap, gen)
	}
	if edited {
		s.notify.Notify(events.Event{Kind: events.SyncStatusChanged, Pending: pending})
	}
	return res, nil
}

// Discard resets the working state to the baseline and clears the draft.
// Saves of edits made before the reset are dropped.
func (s *Session) Discard() error {
	s.saveMu.Lock()
	if err := s.drafts.Clear(); err != nil {
		s.saveMu.Unlock()
		return fmt.Errorf("failed to discard: %w", err)
	}
	s.mu.Lock()
	s.cat.Replace(s.baseline)
	s.gen++
	s.savedGen = s.gen
	s.mu.Unlock()
	s.saveMu.Unlock()

	s.logger.Info("local changes discarded")
	s.notify.Notify(events.Event{Kind: events.WorkingStateChanged})
	s.notify.Notify(events.Event{Kind: events.SyncStatusChanged, Pending: false})
	return nil
}
