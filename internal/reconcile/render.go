package reconcile

import (
	"fmt"
	"io"
)

var sectionTitles = map[Category]string{
	CategoryEntries: "Lore Entries",
	CategoryTags:    "Tags",
	CategoryArcs:    "Arcs",
}

// WriteText renders the review as plain text, one section per category.
func WriteText(w io.Writer, r *Review) error {
	if r == nil || r.Empty() {
		_, err := fmt.Fprintln(w, "No changes detected.")
		return err
	}

	var current Category
	for _, c := range r.changes {
		if c.Category != current {
			if current != "" {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			current = c.Category
			if _, err := fmt.Fprintln(w, sectionTitles[current]); err != nil {
				return err
			}
		}

		mark := " "
		if c.Selected {
			mark = "x"
		}
		if _, err := fmt.Fprintf(w, "  [%s] %-9s %s  (%s)\n", mark, c.Kind, c.Label, c.ID); err != nil {
			return err
		}
		for i, line := range c.Detail {
			prefix := "      "
			if c.Kind == Modified && len(c.Detail) == 2 {
				prefix = "      - "
				if i == 1 {
					prefix = "      + "
				}
			}
			if _, err := fmt.Fprintln(w, prefix+line); err != nil {
				return err
			}
		}
	}
	return nil
}
