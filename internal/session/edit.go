package session

import (
	"github.com/kittclouds/loredump/pkg/catalog"
	"github.com/kittclouds/loredump/pkg/lore"
)

// =============================================================================
// Entries
// =============================================================================

// Entry returns the working entry with this number.
func (s *Session) Entry(number string) (lore.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Entry(number)
}

// NextNumber is the number offered for a new entry.
func (s *Session) NextNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.NextNumber()
}

// AddEntry inserts an entry and returns the tags it caused to be created.
func (s *Session) AddEntry(e lore.Entry) ([]lore.Tag, error) {
	var created []lore.Tag
	err := s.mutate(func() (bool, error) {
		var err error
		created, err = s.cat.AddEntry(e)
		return err == nil, err
	})
	return created, err
}

// UpdateEntry replaces the entry numbered number.
func (s *Session) UpdateEntry(number string, e lore.Entry) ([]lore.Tag, error) {
	var created []lore.Tag
	err := s.mutate(func() (bool, error) {
		var err error
		created, err = s.cat.UpdateEntry(number, e)
		return err == nil, err
	})
	return created, err
}

// DeleteEntry removes an entry.
func (s *Session) DeleteEntry(number string) error {
	return s.mutate(func() (bool, error) {
		if !s.cat.DeleteEntry(number) {
			return false, catalog.ErrEntryNotFound
		}
		return true, nil
	})
}

// =============================================================================
// Tags
// =============================================================================

// Tags returns the working tag list.
func (s *Session) Tags() []lore.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Tags()
}

// Tag returns the tag with this id.
func (s *Session) Tag(id string) (lore.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Tag(id)
}

// AddTag creates a tag.
func (s *Session) AddTag(name string, color lore.Color, terms []string) (lore.Tag, error) {
	var tag lore.Tag
	err := s.mutate(func() (bool, error) {
		var err error
		tag, err = s.cat.AddTag(name, color, terms)
		return err == nil, err
	})
	return tag, err
}

// UpdateTag edits a tag, cascading name and color changes to entries.
func (s *Session) UpdateTag(id string, upd catalog.TagUpdate) (lore.Tag, error) {
	var tag lore.Tag
	err := s.mutate(func() (bool, error) {
		var err error
		tag, err = s.cat.UpdateTag(id, upd)
		return err == nil, err
	})
	return tag, err
}

// DeleteTag removes a tag and strips it from every entry.
func (s *Session) DeleteTag(id string) error {
	return s.mutate(func() (bool, error) {
		if !s.cat.DeleteTag(id) {
			return false, catalog.ErrTagNotFound
		}
		return true, nil
	})
}

// SyncTags creates tags for names referenced by entries but unknown to
// the tag store.
func (s *Session) SyncTags() []lore.Tag {
	var created []lore.Tag
	_ = s.mutate(func() (bool, error) {
		created = s.cat.SyncTagsFromEntries()
		return len(created) > 0, nil
	})
	return created
}

// SearchTags filters the tag editor list.
func (s *Session) SearchTags(term string) []lore.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.SearchTags(term)
}

// Autocomplete offers tags for a partially typed name.
func (s *Session) Autocomplete(typed string, exclude []string, limit int) []lore.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Autocomplete(typed, exclude, limit)
}

// Suggest returns tags whose terms appear in text and that are not in
// current yet.
func (s *Session) Suggest(text string, current lore.TagRefs) []lore.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Suggest(text, current)
}

// =============================================================================
// Arcs
// =============================================================================

// ArcKeys lists arcs that have entries, in numeric order.
func (s *Session) ArcKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.ArcKeys()
}

// Arc returns the arc under key, defaulted when unset.
func (s *Session) Arc(key string) lore.Arc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Arc(key)
}

// SetArcName names an arc.
func (s *Session) SetArcName(key, name string) lore.Arc {
	var a lore.Arc
	_ = s.mutate(func() (bool, error) {
		a = s.cat.SetArcName(key, name)
		return true, nil
	})
	return a
}

// SetArcColor recolors an arc.
func (s *Session) SetArcColor(key string, color lore.Color) lore.Arc {
	var a lore.Arc
	_ = s.mutate(func() (bool, error) {
		a = s.cat.SetArcColor(key, color)
		return true, nil
	})
	return a
}
