package catalog

import (
	"strings"

	"github.com/kittclouds/loredump/pkg/lore"
)

// Cascade rewrites every entry reference whose name matches oldName
// (case-insensitive) to ref. It returns the number of entries changed.
// This and StripTag are the only places the by-name join between tags
// and entries is resolved.
func (c *Catalog) Cascade(oldName string, ref lore.TagRef) int {
	changed := 0
	for i := range c.doc.Entries {
		e := &c.doc.Entries[i]
		touched := false
		for j := range e.Tags {
			if strings.EqualFold(e.Tags[j].Name, oldName) && e.Tags[j] != ref {
				e.Tags[j] = ref
				touched = true
			}
		}
		if touched {
			changed++
		}
	}
	return changed
}

// StripTag removes every reference named name (case-insensitive) from
// every entry. It returns the number of entries changed.
func (c *Catalog) StripTag(name string) int {
	changed := 0
	for i := range c.doc.Entries {
		e := &c.doc.Entries[i]
		kept := e.Tags[:0:0]
		for _, r := range e.Tags {
			if !strings.EqualFold(r.Name, name) {
				kept = append(kept, r)
			}
		}
		if len(kept) != len(e.Tags) {
			if len(kept) == 0 {
				kept = nil
			}
			e.Tags = kept
			changed++
		}
	}
	return changed
}
