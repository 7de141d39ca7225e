// Package tui implements the interactive publish review.
//
// One Model holds the review, a cursor and the publish state. Space
// toggles the change under the cursor, "a" toggles all, enter publishes
// the selection and q aborts.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kittclouds/loredump/internal/reconcile"
)

// PublishFunc commits the selected changes.
type PublishFunc func(ctx context.Context, r *reconcile.Review) (reconcile.Result, error)

type state int

const (
	stateReviewing state = iota
	statePublishing
	stateDone
	stateAborted
)

type publishedMsg struct {
	result reconcile.Result
	err    error
}

// Model is the bubbletea model of the review screen.
type Model struct {
	ctx     context.Context
	review  *reconcile.Review
	publish PublishFunc

	cursor  int
	state   state
	spinner spinner.Model
	result  reconcile.Result
	err     error
	height  int
}

// New creates a review model for r.
func New(ctx context.Context, r *reconcile.Review, publish PublishFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:     ctx,
		review:  r,
		publish: publish,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Published reports whether a publish completed, and its result.
func (m Model) Published() (reconcile.Result, bool) {
	return m.result, m.state == stateDone
}

// Aborted reports whether the user left without publishing.
func (m Model) Aborted() bool {
	return m.state == stateAborted
}

// Err is the publish error, if the last attempt failed.
func (m Model) Err() error {
	return m.err
}

func (m Model) publishCmd() tea.Cmd {
	ctx, r, publish := m.ctx, m.review, m.publish
	return func() tea.Msg {
		res, err := publish(ctx, r)
		return publishedMsg{result: res, err: err}
	}
}
