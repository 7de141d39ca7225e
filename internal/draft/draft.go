// Package draft persists the working state locally between sessions and
// compares it against the last published baseline.
//
// The draft lives in a single file on a hackpadfs.FS: IndexedDB in the
// browser, a directory for the CLI, memory in tests.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/hack-pad/hackpadfs"

	"github.com/kittclouds/loredump/pkg/events"
	"github.com/kittclouds/loredump/pkg/lore"
)

// DefaultKey is the file name the draft is stored under.
const DefaultKey = "loredump_lore_draft.json"

// Draft is the persisted layout.
type Draft struct {
	Entries   []lore.Entry `json:"entries"`
	Tags      []lore.Tag   `json:"tags"`
	Arcs      lore.Arcs    `json:"arcs"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Document returns the draft contents as a document.
func (d *Draft) Document() lore.Document {
	return lore.Document{Entries: d.Entries, Tags: d.Tags, Arcs: d.Arcs}.Clone()
}

// Options configures a Manager.
type Options struct {
	// Key overrides DefaultKey.
	Key      string
	Notifier events.Notifier
	Logger   *slog.Logger
	// Now is the clock used for UpdatedAt.
	Now func() time.Time
}

// Manager reads and writes the local draft.
type Manager struct {
	mu     sync.Mutex
	fs     hackpadfs.FS
	key    string
	notify events.Notifier
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a manager storing the draft on fsys.
func NewManager(fsys hackpadfs.FS, opts Options) *Manager {
	m := &Manager{
		fs:     fsys,
		key:    opts.Key,
		notify: opts.Notifier,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if m.key == "" {
		m.key = DefaultKey
	}
	if m.notify == nil {
		m.notify = events.Discard
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Save overwrites the draft with doc and announces DraftUpdated.
func (m *Manager) Save(doc lore.Document) error {
	c := doc.Clone()
	d := Draft{Entries: c.Entries, Tags: c.Tags, Arcs: c.Arcs, UpdatedAt: m.now().UTC()}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	m.mu.Lock()
	err = hackpadfs.WriteFullFile(m.fs, m.key, data, 0o644)
	m.mu.Unlock()
	if err != nil {
		m.logger.Error("draft save failed", slog.String("key", m.key), slog.String("error", err.Error()))
		return fmt.Errorf("failed to write draft: %w", err)
	}

	m.logger.Debug("draft saved",
		slog.Int("entries", len(d.Entries)),
		slog.Int("tags", len(d.Tags)),
		slog.Int("arcs", len(d.Arcs)))
	m.notify.Notify(events.Event{Kind: events.DraftUpdated})
	return nil
}

// Load returns the stored draft, or nil when there is none or it cannot
// be decoded. A corrupt draft is logged and otherwise ignored.
func (m *Manager) Load() *Draft {
	m.mu.Lock()
	data, err := hackpadfs.ReadFile(m.fs, m.key)
	m.mu.Unlock()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("draft unreadable", slog.String("key", m.key), slog.String("error", err.Error()))
		}
		return nil
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		m.logger.Warn("draft corrupt, ignoring", slog.String("key", m.key), slog.String("error", err.Error()))
		return nil
	}
	return &d
}

// Exists reports whether a draft file is present, without decoding it.
func (m *Manager) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := hackpadfs.Stat(m.fs, m.key)
	return err == nil
}

// Clear removes the draft and announces DraftUpdated. A missing draft is
// not an error.
func (m *Manager) Clear() error {
	m.mu.Lock()
	err := hackpadfs.Remove(m.fs, m.key)
	m.mu.Unlock()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	m.logger.Debug("draft cleared", slog.String("key", m.key))
	m.notify.Notify(events.Event{Kind: events.DraftUpdated})
	return nil
}
