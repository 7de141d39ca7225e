// Package view derives what the entry list shows: the entries matching
// the current search and tag selection in the chosen order, and the tag
// facets still worth offering. Everything here is a pure function of its
// inputs and is recomputed after every change.
package view

import (
	"sort"
	"strings"

	"github.com/kittclouds/loredump/pkg/lore"
)

// SortMode orders the filtered entries.
type SortMode string

const (
	SortAscending  SortMode = "entry-asc"
	SortDescending SortMode = "entry-desc"
)

// ParseSortMode maps a user value onto a mode; anything unknown is ascending.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SortDescending), "desc", "descending":
		return SortDescending
	}
	return SortAscending
}

// Query is the current filter state.
type Query struct {
	Search string
	Tags   TagSet
	Sort   SortMode
}

// Stats are the counts shown next to the list.
type Stats struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
}

// Result is a derived view.
type Result struct {
	Entries []lore.Entry `json:"entries"`
	Stats   Stats        `json:"stats"`
}

// Matches reports whether e passes the search term and carries every
// selected tag name.
func Matches(e lore.Entry, search string, selected TagSet) bool {
	search = strings.ToLower(search)
	if search != "" && !strings.Contains(strings.ToLower(e.Description), search) {
		return false
	}
	if len(selected) == 0 {
		return true
	}
	names := e.Tags.NameSet()
	for name := range selected {
		if _, ok := names[name]; !ok {
			return false
		}
	}
	return true
}

// FilterAndSort keeps the matching entries and sorts them numerically by
// number. Entries with equal numbers keep their input order.
func FilterAndSort(entries []lore.Entry, q Query) []lore.Entry {
	out := make([]lore.Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, q.Search, q.Tags) {
			out = append(out, e.Clone())
		}
	}
	lore.SortEntries(out, q.Sort == SortDescending)
	return out
}

// Apply runs FilterAndSort and fills in the counts.
func Apply(entries []lore.Entry, q Query) Result {
	filtered := FilterAndSort(entries, q)
	return Result{
		Entries: filtered,
		Stats:   Stats{Total: len(entries), Filtered: len(filtered)},
	}
}

// =============================================================================
// Facets
// =============================================================================

// Facet is one tag chip in the filter panel.
type Facet struct {
	Name     string     `json:"name"`
	Color    lore.Color `json:"color"`
	Count    int        `json:"count"`
	Selected bool       `json:"selected"`
}

// Facets lists the tag chips to offer, sorted by name. With nothing
// selected every tag referenced by an entry or known to the tag store is
// offered. With a selection only tags on entries carrying all selected
// tags are offered, plus the selected tags themselves so they can be
// cleared. Count is the number of entries in that narrowed set carrying
// the tag.
func Facets(entries []lore.Entry, tags []lore.Tag, selected TagSet) []Facet {
	counts := make(map[string]int)
	for _, e := range entries {
		if !Matches(e, "", selected) {
			continue
		}
		for name := range e.Tags.NameSet() {
			counts[name]++
		}
	}
	if len(selected) == 0 {
		for _, t := range tags {
			if t.Name == "" {
				continue
			}
			if _, ok := counts[t.Name]; !ok {
				counts[t.Name] = 0
			}
		}
	}
	for name := range selected {
		if _, ok := counts[name]; !ok {
			counts[name] = 0
		}
	}

	colors := ColorMap(entries, tags)
	out := make([]Facet, 0, len(counts))
	for name, n := range counts {
		out = append(out, Facet{
			Name:     name,
			Color:    colorOf(colors, name),
			Count:    n,
			Selected: selected.Has(name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ColorMap resolves a display color per tag name: the first color seen
// on an entry, otherwise the tag store's color.
func ColorMap(entries []lore.Entry, tags []lore.Tag) map[string]lore.Color {
	m := make(map[string]lore.Color)
	for _, e := range entries {
		for _, r := range e.Tags {
			if _, ok := m[r.Name]; !ok {
				m[r.Name] = r.Color
			}
		}
	}
	for _, t := range tags {
		if _, ok := m[t.Name]; !ok {
			m[t.Name] = t.Color
		}
	}
	return m
}

func colorOf(m map[string]lore.Color, name string) lore.Color {
	if c, ok := m[name]; ok {
		return lore.NormalizeColor(c)
	}
	return lore.DefaultColor
}
