// Package reconcile turns a draft diff into a reviewable list of
// changes, merges the selected subset onto the baseline and publishes the
// result to the remote store.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/kittclouds/loredump/internal/draft"
	"github.com/kittclouds/loredump/pkg/lore"
)

// Category groups changes by the collection they touch.
type Category string

const (
	CategoryEntries Category = "entries"
	CategoryTags    Category = "tags"
	CategoryArcs    Category = "arcs"
)

// Kind is the type of a change.
type Kind string

const (
	Added    Kind = "added"
	Modified Kind = "modified"
	Deleted  Kind = "deleted"
)

// Change is one reviewable item.
type Change struct {
	// ID is "<category>/<key>", stable across renders of the same diff.
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Kind     Kind     `json:"kind"`
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Detail   []string `json:"detail,omitempty"`
	Selected bool     `json:"selected"`
}

// Review holds a diff and the user's include/exclude choice per change.
// Toggling never recomputes the diff.
type Review struct {
	diff    draft.Diff
	changes []Change
	index   map[string]int
}

// NewReview lists every change in d, all selected.
func NewReview(d draft.Diff) *Review {
	r := &Review{diff: d, index: make(map[string]int, d.Len())}

	for _, e := range d.Entries.Added {
		r.add(CategoryEntries, Added, e.Number, entryLabel(e), []string{e.Description})
	}
	for _, m := range d.Entries.Modified {
		r.add(CategoryEntries, Modified, m.New.Number, entryLabel(m.New), entryDetail(m))
	}
	for _, e := range d.Entries.Deleted {
		r.add(CategoryEntries, Deleted, e.Number, entryLabel(e), []string{e.Description})
	}

	for _, t := range d.Tags.Added {
		r.add(CategoryTags, Added, t.ID, t.Name, []string{tagDetail(t)})
	}
	for _, m := range d.Tags.Modified {
		r.add(CategoryTags, Modified, m.New.ID, m.New.Name, []string{"Changes in color or terms."})
	}
	for _, t := range d.Tags.Deleted {
		r.add(CategoryTags, Deleted, t.ID, t.Name, nil)
	}

	for _, a := range d.Arcs.Added {
		r.add(CategoryArcs, Added, a.Key, arcLabel(a), []string{arcDetail(a.Arc)})
	}
	for _, m := range d.Arcs.Modified {
		r.add(CategoryArcs, Modified, m.New.Key, arcLabel(m.New), []string{arcDetail(m.Old.Arc), arcDetail(m.New.Arc)})
	}
	for _, a := range d.Arcs.Deleted {
		r.add(CategoryArcs, Deleted, a.Key, arcLabel(a), nil)
	}
	return r
}

func (r *Review) add(cat Category, kind Kind, key, label string, detail []string) {
	id := ChangeID(cat, key)
	r.index[id] = len(r.changes)
	r.changes = append(r.changes, Change{
		ID:       id,
		Category: cat,
		Kind:     kind,
		Key:      key,
		Label:    label,
		Detail:   detail,
		Selected: true,
	})
}

// ChangeID builds the identifier of the change touching key in cat.
func ChangeID(cat Category, key string) string {
	return string(cat) + "/" + key
}

// Diff returns the reviewed diff.
func (r *Review) Diff() draft.Diff {
	return r.diff
}

// Changes returns a copy of the change list in display order.
func (r *Review) Changes() []Change {
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}

// Len is the number of changes.
func (r *Review) Len() int {
	return len(r.changes)
}

// Empty reports whether there is nothing to publish at all.
func (r *Review) Empty() bool {
	return len(r.changes) == 0
}

// Toggle flips the inclusion flag of a change and returns the new value.
func (r *Review) Toggle(id string) (bool, error) {
	i, ok := r.index[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownChange, id)
	}
	r.changes[i].Selected = !r.changes[i].Selected
	return r.changes[i].Selected, nil
}

// Set sets the inclusion flag of a change.
func (r *Review) Set(id string, selected bool) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChange, id)
	}
	r.changes[i].Selected = selected
	return nil
}

// SetAll selects or deselects every change.
func (r *Review) SetAll(selected bool) {
	for i := range r.changes {
		r.changes[i].Selected = selected
	}
}

// IsSelected reports whether the change with id is included. Unknown ids
// are not.
func (r *Review) IsSelected(id string) bool {
	i, ok := r.index[id]
	return ok && r.changes[i].Selected
}

// Selected returns the included changes.
func (r *Review) Selected() []Change {
	var out []Change
	for _, c := range r.changes {
		if c.Selected {
			out = append(out, c)
		}
	}
	return out
}

// AllSelected reports whether every change is included.
func (r *Review) AllSelected() bool {
	for _, c := range r.changes {
		if !c.Selected {
			return false
		}
	}
	return true
}

// =============================================================================
// Labels
// =============================================================================

func entryLabel(e lore.Entry) string {
	return "Entry #" + e.Number
}

func entryDetail(m draft.Modification[lore.Entry]) []string {
	if m.Old.Description != m.New.Description {
		return []string{m.Old.Description, m.New.Description}
	}
	return []string{"Tags updated"}
}

func tagDetail(t lore.Tag) string {
	return fmt.Sprintf("Color: %s, Terms: %s", t.Color, strings.Join(t.Terms, ", "))
}

func arcLabel(a lore.KeyedArc) string {
	return "Arc " + a.Key
}

func arcDetail(a lore.Arc) string {
	name := a.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s, %s", name, a.Color)
}
