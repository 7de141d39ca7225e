package reconcile

import (
	"github.com/kittclouds/loredump/internal/draft"
	"github.com/kittclouds/loredump/pkg/lore"
)

// Merge applies the selected operations of d to a copy of baseline.
// Changes not selected keep their baseline value. The result is
// canonical, so a merge of every change equals the working state.
func Merge(baseline lore.Document, d draft.Diff, selected func(Change) bool) lore.Document {
	out := baseline.Clone()
	pick := func(cat Category, kind Kind, key string) bool {
		return selected(Change{ID: ChangeID(cat, key), Category: cat, Kind: kind, Key: key})
	}

	for _, m := range d.Entries.Modified {
		if !pick(CategoryEntries, Modified, m.New.Number) {
			continue
		}
		if i := out.EntryIndex(m.New.Number); i >= 0 {
			out.Entries[i] = m.New.Clone()
		}
	}
	for _, e := range d.Entries.Deleted {
		if !pick(CategoryEntries, Deleted, e.Number) {
			continue
		}
		if i := out.EntryIndex(e.Number); i >= 0 {
			out.Entries = append(out.Entries[:i], out.Entries[i+1:]...)
		}
	}
	for _, e := range d.Entries.Added {
		if pick(CategoryEntries, Added, e.Number) && out.EntryIndex(e.Number) < 0 {
			out.Entries = append(out.Entries, e.Clone())
		}
	}

	for _, m := range d.Tags.Modified {
		if !pick(CategoryTags, Modified, m.New.ID) {
			continue
		}
		if i := out.TagIndex(m.New.ID); i >= 0 {
			out.Tags[i] = m.New.Clone()
		}
	}
	for _, t := range d.Tags.Deleted {
		if !pick(CategoryTags, Deleted, t.ID) {
			continue
		}
		if i := out.TagIndex(t.ID); i >= 0 {
			out.Tags = append(out.Tags[:i], out.Tags[i+1:]...)
		}
	}
	for _, t := range d.Tags.Added {
		if pick(CategoryTags, Added, t.ID) && out.TagIndex(t.ID) < 0 {
			out.Tags = append(out.Tags, t.Clone())
		}
	}

	for _, a := range d.Arcs.Added {
		if pick(CategoryArcs, Added, a.Key) {
			out.Arcs[a.Key] = a.Arc
		}
	}
	for _, m := range d.Arcs.Modified {
		if pick(CategoryArcs, Modified, m.New.Key) {
			out.Arcs[m.New.Key] = m.New.Arc
		}
	}
	for _, a := range d.Arcs.Deleted {
		if pick(CategoryArcs, Deleted, a.Key) {
			delete(out.Arcs, a.Key)
		}
	}

	out.Canonicalize()
	return out
}

// Merge applies this review's selection to baseline.
func (r *Review) Merge(baseline lore.Document) lore.Document {
	return Merge(baseline, r.diff, func(c Change) bool { return r.IsSelected(c.ID) })
}
