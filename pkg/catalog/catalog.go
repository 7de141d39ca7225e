// Package catalog owns the working lore document: the entry list, the
// tag list and the arcs, plus every mutation that has to keep them
// consistent with each other.
//
// Entries reference tags by name (see lore.TagRef), so any tag rename,
// recolor or delete goes through the cascade in cascade.go.
// A Catalog is not safe for concurrent use; callers serialize access.
package catalog

import (
	"errors"
	"strings"

	"github.com/kittclouds/loredump/pkg/lore"
)

// Errors returned by catalog mutations. A failed mutation changes nothing.
var (
	ErrBlankName       = errors.New("tag name is required")
	ErrNoTerms         = errors.New("tag needs at least one term")
	ErrTagExists       = errors.New("tag already exists")
	ErrTagNotFound     = errors.New("tag not found")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrDuplicateNumber = errors.New("entry number already in use")
	ErrInvalidName     = lore.ErrInvalidTagName
)

// Catalog is the mutable working state.
type Catalog struct {
	doc lore.Document
	rev uint64
}

// New wraps a deep copy of doc, sorted into canonical entry order.
func New(doc lore.Document) *Catalog {
	c := &Catalog{doc: doc.Clone()}
	c.doc.Canonicalize()
	return c
}

// Document returns a deep copy of the working state.
func (c *Catalog) Document() lore.Document {
	return c.doc.Clone()
}

// Replace swaps in a deep copy of doc, e.g. when discarding local edits.
func (c *Catalog) Replace(doc lore.Document) {
	c.doc = doc.Clone()
	c.doc.Canonicalize()
	c.rev++
}

// Revision increases on every tag mutation. The term matcher keys its
// compiled patterns on it.
func (c *Catalog) Revision() uint64 {
	return c.rev
}

// Entries returns a copy of the entries in canonical order.
func (c *Catalog) Entries() []lore.Entry {
	return c.Document().Entries
}

// Tags returns a copy of the tag list.
func (c *Catalog) Tags() []lore.Tag {
	out := make([]lore.Tag, len(c.doc.Tags))
	for i, t := range c.doc.Tags {
		out[i] = t.Clone()
	}
	return out
}

// Arcs returns a copy of the arc map.
func (c *Catalog) Arcs() lore.Arcs {
	return c.doc.Arcs.Clone()
}

// =============================================================================
// Tags
// =============================================================================

// TagUpdate holds the fields to change; nil/empty fields are left alone.
type TagUpdate struct {
	Name  *string
	Color *lore.Color
	Terms []string
}

// Tag returns the tag with this id.
func (c *Catalog) Tag(id string) (lore.Tag, bool) {
	if i := c.doc.TagIndex(id); i >= 0 {
		return c.doc.Tags[i].Clone(), true
	}
	return lore.Tag{}, false
}

// AddTag inserts a tag in id order. Terms default to [name], color to the default.
func (c *Catalog) AddTag(name string, color lore.Color, terms []string) (lore.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return lore.Tag{}, ErrBlankName
	}
	if err := lore.ValidateTagName(name); err != nil {
		return lore.Tag{}, err
	}
	tag := lore.NewTag(name, color, terms)
	if c.doc.TagIndex(tag.ID) >= 0 {
		return lore.Tag{}, ErrTagExists
	}
	c.doc.Tags = append(c.doc.Tags, tag)
	lore.SortTags(c.doc.Tags)
	c.rev++
	return tag.Clone(), nil
}

// UpdateTag applies upd to the tag with this id. A name change derives a
// new id and rewrites every entry holding the old name; a color change
// rewrites every entry holding the tag so they pick up the new color.
func (c *Catalog) UpdateTag(id string, upd TagUpdate) (lore.Tag, error) {
	i := c.doc.TagIndex(id)
	if i < 0 {
		return lore.Tag{}, ErrTagNotFound
	}
	tag := c.doc.Tags[i].Clone()
	oldName := tag.Name

	nameChanged := false
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return lore.Tag{}, ErrBlankName
		}
		if err := lore.ValidateTagName(name); err != nil {
			return lore.Tag{}, err
		}
		if name != oldName {
			newID := lore.Slugify(name)
			if j := c.doc.TagIndex(newID); j >= 0 && j != i {
				return lore.Tag{}, ErrTagExists
			}
			tag.Name, tag.ID = name, newID
			nameChanged = true
		}
	}
	if upd.Color != nil {
		tag.Color = lore.NormalizeColor(*upd.Color)
	}
	if upd.Terms != nil {
		terms := cleanTerms(upd.Terms)
		if len(terms) == 0 {
			return lore.Tag{}, ErrNoTerms
		}
		tag.Terms = terms
	}

	c.doc.Tags[i] = tag
	if nameChanged {
		lore.SortTags(c.doc.Tags)
	}
	if nameChanged || upd.Color != nil {
		c.Cascade(oldName, tag.Ref())
	}
	c.rev++
	return tag.Clone(), nil
}

// DeleteTag strips the tag from every entry and removes it.
func (c *Catalog) DeleteTag(id string) bool {
	i := c.doc.TagIndex(id)
	if i < 0 {
		return false
	}
	c.StripTag(c.doc.Tags[i].Name)
	c.doc.Tags = append(c.doc.Tags[:i], c.doc.Tags[i+1:]...)
	c.rev++
	return true
}

// SyncTagsFromEntries creates a tag for every name referenced by an
// entry that has no tag yet (case-insensitive), using the color from the
// first reference seen. It never updates or removes tags.
func (c *Catalog) SyncTagsFromEntries() []lore.Tag {
	known := make(map[string]struct{}, len(c.doc.Tags))
	for _, t := range c.doc.Tags {
		known[strings.ToLower(t.Name)] = struct{}{}
	}
	var added []lore.Tag
	for _, e := range c.doc.Entries {
		for _, ref := range e.Tags {
			key := strings.ToLower(ref.Name)
			if _, ok := known[key]; ok {
				continue
			}
			known[key] = struct{}{}
			tag, err := c.AddTag(ref.Name, ref.Color, []string{ref.Name})
			if err != nil {
				// Distinct names can share a slug ("Nox's" / "Noxs");
				// the first one keeps the id.
				continue
			}
			added = append(added, tag)
		}
	}
	return added
}

func cleanTerms(terms []string) []string {
	var out []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
