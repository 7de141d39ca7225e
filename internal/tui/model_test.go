package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/loredump/internal/draft"
	"github.com/kittclouds/loredump/internal/reconcile"
	"github.com/kittclouds/loredump/pkg/lore"
)

func testReview() *reconcile.Review {
	base := lore.Document{Entries: []lore.Entry{{Number: "1", Description: "A"}}}
	work := lore.Document{
		Entries: []lore.Entry{
			{Number: "1", Description: "A"},
			{Number: "2", Description: "B", Tags: lore.ParseTagRefs("Hero|blue")},
		},
		Tags: []lore.Tag{lore.NewTag("Hero", lore.Blue, nil)},
	}
	return reconcile.NewReview(draft.Compute(base, work))
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestToggleWithCursor(t *testing.T) {
	r := testReview()
	m := New(context.Background(), r, nil)

	m, _ = send(t, m, key("j"), key("x"))
	assert.False(t, r.IsSelected("tags/hero"))
	assert.True(t, r.IsSelected("entries/2"))

	// Cursor stops at the last change.
	m, _ = send(t, m, key("j"), key("j"))
	assert.Equal(t, 1, m.cursor)

	m, _ = send(t, m, key("a"))
	assert.True(t, r.AllSelected())
	_, _ = send(t, m, key("a"))
	assert.Empty(t, r.Selected())
}

func TestEnterPublishesSelection(t *testing.T) {
	r := testReview()
	var got *reconcile.Review
	publish := func(ctx context.Context, rv *reconcile.Review) (reconcile.Result, error) {
		got = rv
		return reconcile.Result{Published: len(rv.Selected())}, nil
	}
	m := New(context.Background(), r, publish)

	m, _ = send(t, m, key("j"), key("x"))
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, statePublishing, m.state)

	// Keys are ignored while publishing.
	m, _ = send(t, m, key("a"))
	assert.False(t, r.IsSelected("tags/hero"))

	msg, ok := m.publishCmd()().(publishedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	m, _ = send(t, m, msg)

	assert.Same(t, r, got)
	out, done := m.Published()
	assert.True(t, done)
	assert.Equal(t, 1, out.Published)
	assert.Contains(t, m.View(), "Published 1 change(s).")
}

func TestPublishErrorReturnsToReview(t *testing.T) {
	m := New(context.Background(), testReview(), nil)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, publishedMsg{err: errors.New("offline")})

	assert.Equal(t, stateReviewing, m.state)
	assert.EqualError(t, m.Err(), "offline")
	_, ok := m.Published()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Failed to publish changes: offline")
}

func TestQuitAborts(t *testing.T) {
	m := New(context.Background(), testReview(), nil)
	m, cmd := send(t, m, key("q"))
	assert.True(t, m.Aborted())
	require.NotNil(t, cmd)
}

func TestViewListsChanges(t *testing.T) {
	m := New(context.Background(), testReview(), nil)
	out := m.View()
	assert.Contains(t, out, "2/2 selected")
	assert.Contains(t, out, "Lore Entries")
	assert.Contains(t, out, "Entry #2")
	assert.Contains(t, out, "Tags")
	assert.Contains(t, out, "Hero")
}

func TestEmptyReviewView(t *testing.T) {
	m := New(context.Background(), reconcile.NewReview(draft.Diff{}), nil)
	assert.Contains(t, m.View(), "No changes detected.")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.Aborted())
}

func TestChips(t *testing.T) {
	assert.Equal(t, ColorOf(lore.Slate), ColorOf("nope"))
	assert.Contains(t, Chips(lore.ParseTagRefs("Hero|blue, Gate|amber")), "Hero")
}
