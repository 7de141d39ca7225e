package lore

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagRef is the denormalized copy of a tag held by an entry.
// Entries join to tags by name, not id.
type TagRef struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// TagRefs is an ordered list of tag references.
// On the wire it is the legacy "name|color, name|color" string.
type TagRefs []TagRef

// ParseTagRefs parses the serialized form. Blank parts and parts with a
// blank name are dropped; unknown or missing colors become DefaultColor.
// The last '|' separates name from color so names may contain pipes.
func ParseTagRefs(s string) TagRefs {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var refs TagRefs
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, "|")
		if idx < 0 {
			refs = append(refs, TagRef{Name: part, Color: DefaultColor})
			continue
		}
		name := strings.TrimSpace(part[:idx])
		if name == "" {
			continue
		}
		color := Color(strings.TrimSpace(part[idx+1:]))
		refs = append(refs, TagRef{Name: name, Color: NormalizeColor(color)})
	}
	return refs
}

// String serializes the refs.
func (r TagRefs) String() string {
	parts := make([]string, len(r))
	for i, t := range r {
		parts[i] = t.Name + "|" + string(t.Color)
	}
	return strings.Join(parts, ", ")
}

// NameSet returns the referenced names as a set (exact case).
func (r TagRefs) NameSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r))
	for _, t := range r {
		set[t.Name] = struct{}{}
	}
	return set
}

// Contains reports whether a ref with this name exists, ignoring case.
func (r TagRefs) Contains(name string) bool {
	for _, t := range r {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// Clone returns a copy; nil stays nil.
func (r TagRefs) Clone() TagRefs {
	if r == nil {
		return nil
	}
	return append(TagRefs(nil), r...)
}

// Equal compares element-wise; nil equals empty.
func (r TagRefs) Equal(o TagRefs) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the serialized string form.
func (r TagRefs) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the serialized string, a JSON array of
// {name,color} objects, or null.
func (r *TagRefs) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ParseTagRefs(s)
		return nil
	}
	var list []TagRef
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags: expected string or list: %w", err)
	}
	out := make(TagRefs, 0, len(list))
	for _, t := range list {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			continue
		}
		t.Color = NormalizeColor(t.Color)
		out = append(out, t)
	}
	if len(out) == 0 {
		out = nil
	}
	*r = out
	return nil
}
