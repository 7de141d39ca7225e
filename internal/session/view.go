package session

import (
	"github.com/kittclouds/loredump/pkg/events"
	"github.com/kittclouds/loredump/pkg/lore"
	"github.com/kittclouds/loredump/pkg/view"
)

// Query returns a copy of the current filter state.
func (s *Session) Query() view.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.query
	q.Tags = q.Tags.Clone()
	return q
}

// SetSearch sets the description search term. The term is kept as typed;
// matching only folds case, so surrounding spaces are significant.
func (s *Session) SetSearch(term string) {
	s.setQuery(func(q *view.Query) { q.Search = term })
}

// ToggleTag adds or removes a tag name from the filter and reports
// whether it is now selected.
func (s *Session) ToggleTag(name string) bool {
	var on bool
	s.setQuery(func(q *view.Query) { on = q.Tags.Toggle(name) })
	return on
}

// FilterByTag makes name the only selected tag.
func (s *Session) FilterByTag(name string) {
	s.setQuery(func(q *view.Query) { q.Tags.Only(name) })
}

// ClearFilters drops the search term and every selected tag.
func (s *Session) ClearFilters() {
	s.setQuery(func(q *view.Query) {
		q.Search = ""
		q.Tags = view.NewTagSet()
	})
}

// SetSort changes the sort order.
func (s *Session) SetSort(mode view.SortMode) {
	s.setQuery(func(q *view.Query) { q.Sort = mode })
}

func (s *Session) setQuery(fn func(q *view.Query)) {
	s.mu.Lock()
	fn(&s.query)
	s.mu.Unlock()
	s.notify.Notify(events.Event{Kind: events.WorkingStateChanged})
}

// View derives the filtered, sorted entry list from the working state.
func (s *Session) View() view.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.Apply(s.cat.Entries(), s.query)
}

// Facets lists the tag chips for the filter panel.
func (s *Session) Facets() []view.Facet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.Facets(s.cat.Entries(), s.cat.Tags(), s.query.Tags)
}

// ColorMap resolves the display color of every tag name.
func (s *Session) ColorMap() map[string]lore.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.ColorMap(s.cat.Entries(), s.cat.Tags())
}
