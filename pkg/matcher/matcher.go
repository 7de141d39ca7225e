// Package matcher detects which tags a piece of text mentions.
//
// Every tag term compiles to one whole-word, case-insensitive pattern.
// Patterns are kept longest term first and rebuilt in a single pass
// whenever the tag source reports a new revision.
package matcher

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/kittclouds/loredump/pkg/lore"
)

// Source provides the tags to match and a revision that changes
// whenever they do. *catalog.Catalog satisfies it.
type Source interface {
	Tags() []lore.Tag
	Revision() uint64
}

// Pattern is one compiled term.
type Pattern struct {
	Term string
	Tag  lore.Tag
	re   *regexp.Regexp
}

// Matcher caches compiled patterns per source revision.
type Matcher struct {
	src Source

	mu       sync.Mutex
	built    bool
	revision uint64
	patterns []Pattern
}

// New creates a matcher over src. Nothing is compiled until first use.
func New(src Source) *Matcher {
	return &Matcher{src: src}
}

// Patterns returns the current pattern list, rebuilding it if the source
// revision moved since the last build.
func (m *Matcher) Patterns() []Pattern {
	m.mu.Lock()
	defer m.mu.Unlock()

	rev := m.src.Revision()
	if !m.built || rev != m.revision {
		m.patterns = compile(m.src.Tags())
		m.revision = rev
		m.built = true
	}
	return m.patterns
}

// FindTagsInText returns each tag with at least one term present in text
// as a whole word, ignoring case. A tag appears once, at the position of
// its longest matching term.
func (m *Matcher) FindTagsInText(text string) []lore.Tag {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var found []lore.Tag
	seen := make(map[string]struct{})
	for _, p := range m.Patterns() {
		if _, ok := seen[p.Tag.ID]; ok {
			continue
		}
		if p.re.MatchString(text) {
			seen[p.Tag.ID] = struct{}{}
			found = append(found, p.Tag.Clone())
		}
	}
	return found
}

// Suggest returns the tags found in text that current does not already
// reference (by name, ignoring case).
func (m *Matcher) Suggest(text string, current lore.TagRefs) []lore.Tag {
	var out []lore.Tag
	for _, t := range m.FindTagsInText(text) {
		if !current.Contains(t.Name) {
			out = append(out, t)
		}
	}
	return out
}

// compile builds one pattern per distinct lowercase term. When two tags
// share a term the later tag owns it. Longer terms sort first so a
// multi-word term is tried before the shorter terms it contains.
func compile(tags []lore.Tag) []Pattern {
	owners := make(map[string]lore.Tag)
	display := make(map[string]string)
	var order []string
	for _, t := range tags {
		for _, term := range t.Terms {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			key := strings.ToLower(term)
			if _, ok := owners[key]; !ok {
				order = append(order, key)
				display[key] = term
			}
			owners[key] = t
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(display[order[i]]) > len(display[order[j]])
	})

	patterns := make([]Pattern, 0, len(order))
	for _, key := range order {
		term := display[key]
		patterns = append(patterns, Pattern{
			Term: term,
			Tag:  owners[key],
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
		})
	}
	return patterns
}
