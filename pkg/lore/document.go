package lore

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Document is a complete lore bundle. The working state, the remote
// baseline and the published document all share this shape.
type Document struct {
	Entries []Entry `json:"entries"`
	Tags    []Tag   `json:"tags"`
	Arcs    Arcs    `json:"arcs"`
}

// Clone returns a deep copy. Nil collections come back empty so the
// copy always marshals as [] / {}.
func (d Document) Clone() Document {
	c := Document{
		Entries: make([]Entry, len(d.Entries)),
		Tags:    make([]Tag, len(d.Tags)),
		Arcs:    make(Arcs, len(d.Arcs)),
	}
	for i, e := range d.Entries {
		c.Entries[i] = e.Clone()
	}
	for i, t := range d.Tags {
		c.Tags[i] = t.Clone()
	}
	for k, v := range d.Arcs {
		c.Arcs[k] = v
	}
	return c
}

// Equal reports deep, order-sensitive equality of entries and tags, and
// key-wise equality of arcs.
func (d Document) Equal(o Document) bool {
	if len(d.Entries) != len(o.Entries) || len(d.Tags) != len(o.Tags) {
		return false
	}
	for i := range d.Entries {
		if !d.Entries[i].Equal(o.Entries[i]) {
			return false
		}
	}
	for i := range d.Tags {
		if !d.Tags[i].Equal(o.Tags[i]) {
			return false
		}
	}
	return d.Arcs.Equal(o.Arcs)
}

// Canonicalize sorts entries ascending by number and tags by id (both
// stable) so that two documents holding the same data compare equal.
func (d *Document) Canonicalize() {
	SortEntries(d.Entries, false)
	SortTags(d.Tags)
	if d.Arcs == nil {
		d.Arcs = Arcs{}
	}
}

// SortTags orders tags by id, keeping the relative order of equal ids.
func SortTags(tags []Tag) {
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
}

// EntryIndex returns the position of the entry with this number, or -1.
func (d Document) EntryIndex(number string) int {
	for i, e := range d.Entries {
		if e.Number == number {
			return i
		}
	}
	return -1
}

// TagIndex returns the position of the tag with this id, or -1.
func (d Document) TagIndex(id string) int {
	for i, t := range d.Tags {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SortArcKeys sorts arc keys numerically; non-numeric keys go last in
// lexical order.
func SortArcKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
}

// =============================================================================
// JSON
// =============================================================================

// UnmarshalJSON accepts entries and tags either as arrays or as objects
// keyed by array index ("0", "1", ...), which is how some document
// databases return stored arrays. Non-numeric keys are ignored.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Entries json.RawMessage `json:"entries"`
		Tags    json.RawMessage `json:"tags"`
		Arcs    Arcs            `json:"arcs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	entries, err := decodeList[Entry](raw.Entries)
	if err != nil {
		return fmt.Errorf("entries: %w", err)
	}
	tags, err := decodeList[Tag](raw.Tags)
	if err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	*d = Document{Entries: entries, Tags: tags, Arcs: raw.Arcs}
	return nil
}

func decodeList[T any](data json.RawMessage) ([]T, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("expected array or index-keyed object: %w", err)
	}
	type indexed struct {
		idx int
		raw json.RawMessage
	}
	var items []indexed
	for k, v := range obj {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			continue
		}
		items = append(items, indexed{n, v})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].idx < items[j].idx })
	list = make([]T, 0, len(items))
	for _, it := range items {
		var v T
		if err := json.Unmarshal(it.raw, &v); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

// UnmarshalJSON fills in what older tag files leave out: a color derived
// from the legacy "type" field, a sanitized id, and terms.
func (t *Tag) UnmarshalJSON(data []byte) error {
	type plain Tag
	var raw struct {
		plain
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tag := Tag(raw.plain)
	if tag.Color == "" {
		tag.Color = TypeColor(raw.Type)
	}
	if tag.ID != "" {
		tag.ID = Slugify(tag.ID)
	} else {
		tag.ID = Slugify(tag.Name)
	}
	if len(tag.Terms) == 0 && tag.Name != "" {
		tag.Terms = []string{tag.Name}
	}
	*t = tag
	return nil
}
