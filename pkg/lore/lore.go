// Package lore defines the lore document model: numbered entries, the
// tags they reference, and the arcs that group them.
// Everything here is plain data plus pure helpers; mutation lives in
// the catalog package.
package lore

import (
	"errors"
	"strings"
)

// Validation errors returned by ValidateEntry and ValidateTagName.
var (
	ErrInvalidNumber    = errors.New("entry number must be a positive number")
	ErrBlankDescription = errors.New("entry description is required")
	ErrInvalidTagName   = errors.New("tag name must not contain a comma")
)

// Entry is a single numbered lore record.
// JSON keys match the published document format.
type Entry struct {
	Number      string  `json:"Number"`
	Description string  `json:"Description"`
	Tags        TagRefs `json:"Tags"`
}

// Tag is a named, colored label with the terms used to detect it in text.
type Tag struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Color Color    `json:"color"`
	Terms []string `json:"terms"`
}

// Arc names and colors the group of entries sharing an integer number.
type Arc struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// Arcs maps an arc key (see ArcKey) to its presentation.
type Arcs map[string]Arc

// KeyedArc is an Arc together with the key it is stored under.
type KeyedArc struct {
	Key string `json:"key"`
	Arc
}

// NewTag builds a tag with a derived id, palette-checked color and
// non-empty terms.
func NewTag(name string, color Color, terms []string) Tag {
	name = strings.TrimSpace(name)
	t := Tag{
		ID:    Slugify(name),
		Name:  name,
		Color: NormalizeColor(color),
		Terms: cleanTerms(terms),
	}
	if len(t.Terms) == 0 {
		t.Terms = []string{name}
	}
	return t
}

// Ref returns the reference an entry stores for this tag.
func (t Tag) Ref() TagRef {
	return TagRef{Name: t.Name, Color: t.Color}
}

// Clone returns a deep copy.
func (t Tag) Clone() Tag {
	c := t
	if t.Terms != nil {
		c.Terms = append([]string(nil), t.Terms...)
	}
	return c
}

// Equal reports deep equality; term order matters.
func (t Tag) Equal(o Tag) bool {
	if t.ID != o.ID || t.Name != o.Name || t.Color != o.Color || len(t.Terms) != len(o.Terms) {
		return false
	}
	for i := range t.Terms {
		if t.Terms[i] != o.Terms[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (e Entry) Clone() Entry {
	c := e
	c.Tags = e.Tags.Clone()
	return c
}

// Equal reports deep equality; tag order matters.
func (e Entry) Equal(o Entry) bool {
	return e.Number == o.Number && e.Description == o.Description && e.Tags.Equal(o.Tags)
}

// ValidateEntry checks the invariants every stored entry must satisfy.
func ValidateEntry(e Entry) error {
	if _, err := ParseNumber(e.Number); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrBlankDescription
	}
	for _, r := range e.Tags {
		if err := ValidateTagName(r.Name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTagName rejects names the serialized TagRefs form cannot carry.
// A comma separates refs, so a name holding one would come back as two
// tags after the next reload.
func ValidateTagName(name string) error {
	if strings.Contains(name, ",") {
		return ErrInvalidTagName
	}
	return nil
}

// Clone returns a deep copy; nil stays nil.
func (a Arcs) Clone() Arcs {
	if a == nil {
		return nil
	}
	c := make(Arcs, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// Equal compares two arc maps; nil equals empty.
func (a Arcs) Equal(o Arcs) bool {
	if len(a) != len(o) {
		return false
	}
	for k, v := range a {
		ov, ok := o[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
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
