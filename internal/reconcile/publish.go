package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kittclouds/loredump/internal/draft"
	"github.com/kittclouds/loredump/internal/store"
	"github.com/kittclouds/loredump/pkg/events"
	"github.com/kittclouds/loredump/pkg/lore"
)

var (
	ErrUnknownChange = errors.New("unknown change")
	ErrNoReview      = errors.New("no review to publish")
)

// Config wires a Reconciler.
type Config struct {
	Store    store.DocumentStore
	Drafts   *draft.Manager
	Notifier events.Notifier
	Logger   *slog.Logger
}

// Reconciler commits reviewed changes to the remote store.
type Reconciler struct {
	store  store.DocumentStore
	drafts *draft.Manager
	notify events.Notifier
	logger *slog.Logger
}

// New creates a reconciler.
func New(cfg Config) *Reconciler {
	r := &Reconciler{
		store:  cfg.Store,
		drafts: cfg.Drafts,
		notify: cfg.Notifier,
		logger: cfg.Logger,
	}
	if r.notify == nil {
		r.notify = events.Discard
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Result reports a successful publish.
type Result struct {
	// Baseline is the document as echoed by the remote store.
	Baseline lore.Document
	// Published is the number of changes included.
	Published int
	// Remaining is the number of changes left out.
	Remaining int
	// DraftCleared is true when the publish covered the whole working state.
	DraftCleared bool
}

// Publish merges the selected changes of review onto baseline, writes the
// merge to the remote store and returns the echoed document as the new
// baseline. The draft is cleared only when the merge equals working.
// On error nothing local is touched.
func (r *Reconciler) Publish(ctx context.Context, baseline, working lore.Document, review *Review) (Result, error) {
	if review == nil {
		return Result{}, ErrNoReview
	}

	merged := review.Merge(baseline)
	published := len(review.Selected())

	echoed, err := r.store.SaveDocument(ctx, merged)
	if err != nil {
		r.logger.Error("publish failed",
			slog.Int("changes", published),
			slog.String("error", err.Error()))
		return Result{}, fmt.Errorf("failed to publish: %w", err)
	}
	echoed.Canonicalize()

	res := Result{
		Baseline:  echoed,
		Published: published,
		Remaining: review.Len() - published,
	}

	w := working.Clone()
	w.Canonicalize()
	if merged.Equal(w) && r.drafts != nil {
		if err := r.drafts.Clear(); err != nil {
			// Remote write already succeeded.
			r.logger.Warn("draft clear after publish failed", slog.String("error", err.Error()))
		} else {
			res.DraftCleared = true
		}
	}

	r.logger.Info("published",
		slog.Int("changes", res.Published),
		slog.Int("remaining", res.Remaining),
		slog.Bool("draft_cleared", res.DraftCleared))
	r.notify.Notify(events.Event{
		Kind:    events.SyncStatusChanged,
		Pending: !echoed.Equal(w),
	})
	return res, nil
}
