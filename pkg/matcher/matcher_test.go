package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/loredump/pkg/catalog"
	"github.com/kittclouds/loredump/pkg/lore"
)

// countingSource records how often tags are read so tests can observe
// cache rebuilds.
type countingSource struct {
	tags  []lore.Tag
	rev   uint64
	reads int
}

func (s *countingSource) Tags() []lore.Tag { s.reads++; return s.tags }
func (s *countingSource) Revision() uint64 { return s.rev }

func ids(tags []lore.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.ID
	}
	return out
}

func TestFindTagsInTextLongestTermFirst(t *testing.T) {
	src := &countingSource{tags: []lore.Tag{
		lore.NewTag("Nox", lore.Purple, []string{"Nox"}),
		lore.NewTag("Noxsyphone", lore.Blue, []string{"Noxsyphone"}),
	}}
	m := New(src)

	// Only the long term is a whole word here; "Nox" must not fire from
	// inside "Noxsyphone".
	assert.Equal(t, []string{"noxsyphone"}, ids(m.FindTagsInText("The Noxsyphone hums.")))

	// Both present: results follow pattern order, longest term first.
	assert.Equal(t, []string{"noxsyphone", "nox"}, ids(m.FindTagsInText("Nox held the noxsyphone")))
}

func TestFindTagsInTextWholeWordCaseInsensitive(t *testing.T) {
	src := &countingSource{tags: []lore.Tag{
		lore.NewTag("Void", lore.Slate, []string{"void", "the abyss"}),
		lore.NewTag("C++", lore.Teal, []string{"C++"}),
	}}
	m := New(src)

	assert.Equal(t, []string{"void"}, ids(m.FindTagsInText("Into THE ABYSS we go")))
	assert.Empty(t, m.FindTagsInText("avoidance is not a match"))
	assert.Empty(t, m.FindTagsInText("   "))
}

func TestFindTagsInTextDedupsByTag(t *testing.T) {
	src := &countingSource{tags: []lore.Tag{
		lore.NewTag("Cylene", lore.Pink, []string{"Cylene", "the Scribe"}),
	}}
	m := New(src)

	found := m.FindTagsInText("Cylene, the Scribe, wrote it")
	require.Len(t, found, 1)
	assert.Equal(t, "cylene", found[0].ID)
}

func TestPatternsRebuildOnlyOnRevisionChange(t *testing.T) {
	src := &countingSource{tags: []lore.Tag{lore.NewTag("Nox", lore.Purple, nil)}}
	m := New(src)

	m.FindTagsInText("Nox")
	m.FindTagsInText("Nox again")
	assert.Equal(t, 1, src.reads)

	src.tags = append(src.tags, lore.NewTag("Ethak", lore.Orange, nil))
	src.rev++
	assert.Equal(t, []string{"ethak"}, ids(m.FindTagsInText("Ethak")))
	assert.Equal(t, 2, src.reads)
}

func TestMatcherFollowsCatalogMutations(t *testing.T) {
	c := catalog.New(lore.Document{})
	m := New(c)

	_, err := c.AddTag("Hero", lore.Blue, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero"}, ids(m.FindTagsInText("a hero rises")))

	_, err = c.UpdateTag("hero", catalog.TagUpdate{Terms: []string{"champion"}})
	require.NoError(t, err)
	assert.Empty(t, m.FindTagsInText("a hero rises"))
	assert.Equal(t, []string{"hero"}, ids(m.FindTagsInText("the Champion rises")))

	require.True(t, c.DeleteTag("hero"))
	assert.Empty(t, m.FindTagsInText("the Champion rises"))
}

func TestSuggestSkipsCurrentTags(t *testing.T) {
	src := &countingSource{tags: []lore.Tag{
		lore.NewTag("Nox", lore.Purple, nil),
		lore.NewTag("Cylene", lore.Pink, nil),
	}}
	m := New(src)

	got := m.Suggest("Nox asked Cylene", lore.TagRefs{{Name: "nox", Color: lore.Purple}})
	assert.Equal(t, []string{"cylene"}, ids(got))
}
