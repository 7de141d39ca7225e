package catalog

import (
	"sort"
	"strings"

	"github.com/kittclouds/loredump/pkg/lore"
)

// =============================================================================
// Entries
// =============================================================================

// Entry returns the entry with this number.
func (c *Catalog) Entry(number string) (lore.Entry, bool) {
	if i := c.doc.EntryIndex(number); i >= 0 {
		return c.doc.Entries[i].Clone(), true
	}
	return lore.Entry{}, false
}

// NextNumber is the default number offered for a new entry.
func (c *Catalog) NextNumber() int {
	return lore.NextEntryNumber(c.doc.Entries)
}

// AddEntry validates and inserts e, keeps entries sorted, and creates
// tags for any new names it references. It returns the tags created.
func (c *Catalog) AddEntry(e lore.Entry) ([]lore.Tag, error) {
	e = normalizeEntry(e)
	if err := lore.ValidateEntry(e); err != nil {
		return nil, err
	}
	if c.doc.EntryIndex(e.Number) >= 0 {
		return nil, ErrDuplicateNumber
	}
	c.doc.Entries = append(c.doc.Entries, e.Clone())
	lore.SortEntries(c.doc.Entries, false)
	return c.SyncTagsFromEntries(), nil
}

// UpdateEntry replaces the entry currently numbered number with e. The
// number itself may change as long as it stays unique.
func (c *Catalog) UpdateEntry(number string, e lore.Entry) ([]lore.Tag, error) {
	i := c.doc.EntryIndex(number)
	if i < 0 {
		return nil, ErrEntryNotFound
	}
	e = normalizeEntry(e)
	if err := lore.ValidateEntry(e); err != nil {
		return nil, err
	}
	if j := c.doc.EntryIndex(e.Number); j >= 0 && j != i {
		return nil, ErrDuplicateNumber
	}
	c.doc.Entries[i] = e.Clone()
	lore.SortEntries(c.doc.Entries, false)
	return c.SyncTagsFromEntries(), nil
}

// DeleteEntry removes the entry with this number.
func (c *Catalog) DeleteEntry(number string) bool {
	i := c.doc.EntryIndex(number)
	if i < 0 {
		return false
	}
	c.doc.Entries = append(c.doc.Entries[:i], c.doc.Entries[i+1:]...)
	return true
}

func normalizeEntry(e lore.Entry) lore.Entry {
	e.Number = strings.TrimSpace(e.Number)
	e.Description = strings.TrimSpace(e.Description)
	return e
}

// =============================================================================
// Arcs
// =============================================================================

// Arc returns the arc stored under key, or an unnamed default-colored
// arc when none is stored.
func (c *Catalog) Arc(key string) lore.Arc {
	if a, ok := c.doc.Arcs[key]; ok {
		return a
	}
	return lore.Arc{Color: lore.DefaultColor}
}

// ArcKeys lists the arc keys that have at least one entry, in numeric order.
func (c *Catalog) ArcKeys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, e := range c.doc.Entries {
		k, ok := lore.ArcKey(e.Number)
		if !ok {
			continue
		}
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	lore.SortArcKeys(keys)
	return keys
}

// SetArcName names an arc, creating it if needed.
func (c *Catalog) SetArcName(key, name string) lore.Arc {
	a := c.Arc(key)
	a.Name = strings.TrimSpace(name)
	c.setArc(key, a)
	return a
}

// SetArcColor recolors an arc, creating it if needed.
func (c *Catalog) SetArcColor(key string, color lore.Color) lore.Arc {
	a := c.Arc(key)
	a.Color = lore.NormalizeColor(color)
	c.setArc(key, a)
	return a
}

func (c *Catalog) setArc(key string, a lore.Arc) {
	if c.doc.Arcs == nil {
		c.doc.Arcs = lore.Arcs{}
	}
	c.doc.Arcs[key] = a
}

// =============================================================================
// Lookup
// =============================================================================

// Autocomplete returns tags whose name contains typed (case-insensitive),
// skipping names in exclude, sorted by name. limit <= 0 means no limit.
func (c *Catalog) Autocomplete(typed string, exclude []string, limit int) []lore.Tag {
	typed = strings.ToLower(strings.TrimSpace(typed))
	if typed == "" {
		return nil
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, n := range exclude {
		skip[strings.ToLower(n)] = struct{}{}
	}
	var out []lore.Tag
	for _, t := range c.doc.Tags {
		name := strings.ToLower(t.Name)
		if _, ok := skip[name]; ok || !strings.Contains(name, typed) {
			continue
		}
		out = append(out, t.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SearchTags filters tags by name or term (case-insensitive substring)
// and sorts them by name ignoring case. An empty term returns all tags.
func (c *Catalog) SearchTags(term string) []lore.Tag {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []lore.Tag
	for _, t := range c.doc.Tags {
		if term == "" || strings.Contains(strings.ToLower(t.Name), term) || termsContain(t.Terms, term) {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func termsContain(terms []string, sub string) bool {
	for _, t := range terms {
		if strings.Contains(strings.ToLower(t), sub) {
			return true
		}
	}
	return false
}
