package draft

import (
	"github.com/kittclouds/loredump/pkg/lore"
)

// Modification carries both sides of a changed item.
type Modification[T any] struct {
	Old T `json:"old"`
	New T `json:"new"`
}

// Changes is the three-way classification for one kind of item.
type Changes[T any] struct {
	Added    []T               `json:"added"`
	Modified []Modification[T] `json:"modified"`
	Deleted  []T               `json:"deleted"`
}

// Len is the number of changed items.
func (c Changes[T]) Len() int {
	return len(c.Added) + len(c.Modified) + len(c.Deleted)
}

// Diff is the snapshot difference between a baseline and a working state.
type Diff struct {
	Entries Changes[lore.Entry]    `json:"entries"`
	Tags    Changes[lore.Tag]      `json:"tags"`
	Arcs    Changes[lore.KeyedArc] `json:"arcs"`
}

// Len is the total number of changed items.
func (d Diff) Len() int {
	return d.Entries.Len() + d.Tags.Len() + d.Arcs.Len()
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return d.Len() == 0
}

// HasChanges reports whether local differs from remote in any field.
// The comparison is order-sensitive, so both sides must be canonical.
func HasChanges(remote, local lore.Document) bool {
	return !remote.Equal(local)
}

// Compute classifies every entry (by number), tag (by id) and arc (by
// key) as added, modified or deleted going from remote to local.
// Added and modified items follow local order, deleted items remote
// order, arcs numeric key order.
func Compute(remote, local lore.Document) Diff {
	var d Diff
	d.Entries = diffList(remote.Entries, local.Entries,
		func(e lore.Entry) string { return e.Number },
		func(a, b lore.Entry) bool { return a.Equal(b) },
		func(e lore.Entry) lore.Entry { return e.Clone() })
	d.Tags = diffList(remote.Tags, local.Tags,
		func(t lore.Tag) string { return t.ID },
		func(a, b lore.Tag) bool { return a.Equal(b) },
		func(t lore.Tag) lore.Tag { return t.Clone() })
	d.Arcs = diffArcs(remote.Arcs, local.Arcs)
	return d
}

func diffList[T any](remote, local []T, key func(T) string, equal func(a, b T) bool, clone func(T) T) Changes[T] {
	var c Changes[T]
	rem := make(map[string]T, len(remote))
	for _, r := range remote {
		rem[key(r)] = r
	}
	loc := make(map[string]struct{}, len(local))
	for _, l := range local {
		k := key(l)
		loc[k] = struct{}{}
		r, ok := rem[k]
		switch {
		case !ok:
			c.Added = append(c.Added, clone(l))
		case !equal(r, l):
			c.Modified = append(c.Modified, Modification[T]{Old: clone(r), New: clone(l)})
		}
	}
	for _, r := range remote {
		if _, ok := loc[key(r)]; !ok {
			c.Deleted = append(c.Deleted, clone(r))
		}
	}
	return c
}

func diffArcs(remote, local lore.Arcs) Changes[lore.KeyedArc] {
	var c Changes[lore.KeyedArc]
	keys := make(map[string]struct{}, len(remote)+len(local))
	for k := range remote {
		keys[k] = struct{}{}
	}
	for k := range local {
		keys[k] = struct{}{}
	}
	all := make([]string, 0, len(keys))
	for k := range keys {
		all = append(all, k)
	}
	lore.SortArcKeys(all)

	for _, k := range all {
		r, inRemote := remote[k]
		l, inLocal := local[k]
		switch {
		case inLocal && !inRemote:
			c.Added = append(c.Added, lore.KeyedArc{Key: k, Arc: l})
		case inRemote && !inLocal:
			c.Deleted = append(c.Deleted, lore.KeyedArc{Key: k, Arc: r})
		case r != l:
			c.Modified = append(c.Modified, Modification[lore.KeyedArc]{
				Old: lore.KeyedArc{Key: k, Arc: r},
				New: lore.KeyedArc{Key: k, Arc: l},
			})
		}
	}
	return c
}
