package lore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagRefs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want TagRefs
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single", "Hero|blue", TagRefs{{"Hero", Blue}}},
		{"no color", "Hero", TagRefs{{"Hero", DefaultColor}}},
		{"unknown color", "Hero|crimson", TagRefs{{"Hero", DefaultColor}}},
		{"several", "Nox|purple, Voidlaw|green", TagRefs{{"Nox", Purple}, {"Voidlaw", Green}}},
		{"skips blanks", "Nox|purple, , |blue", TagRefs{{"Nox", Purple}}},
		{"last pipe wins", "A|B|teal", TagRefs{{"A|B", Teal}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagRefs(tt.in))
		})
	}
}

func TestValidateTagName(t *testing.T) {
	assert.NoError(t, ValidateTagName("Hero"))
	assert.NoError(t, ValidateTagName("A|B"))
	assert.ErrorIs(t, ValidateTagName("Hero, Jr"), ErrInvalidTagName)
	assert.ErrorIs(t, ValidateTagName(","), ErrInvalidTagName)
}

func TestValidateEntryRejectsCommaRef(t *testing.T) {
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`{"Number":"1","Description":"A","Tags":[{"name":"Hero, Jr","color":"blue"}]}`), &e))
	assert.ErrorIs(t, ValidateEntry(e), ErrInvalidTagName)
}

func TestTagRefsRoundTripValidNames(t *testing.T) {
	refs := TagRefs{{"A|B", Teal}, {"Black Sun", Amber}, {"x|", Slate}}
	for _, r := range refs {
		require.NoError(t, ValidateTagName(r.Name))
	}
	assert.Equal(t, refs, ParseTagRefs(refs.String()))
}

func TestTagRefsRoundTrip(t *testing.T) {
	in := "Nox|purple, Voidlaw|green"
	assert.Equal(t, in, ParseTagRefs(in).String())
}

func TestTagRefsJSON(t *testing.T) {
	e := Entry{Number: "2", Description: "B", Tags: TagRefs{{"Hero", Blue}}}
	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Number":"2","Description":"B","Tags":"Hero|blue"}`, string(data))

	var fromList Entry
	require.NoError(t, json.Unmarshal([]byte(`{"Number":"3","Description":"C","Tags":[{"name":"Nox","color":"bogus"}]}`), &fromList))
	assert.Equal(t, TagRefs{{"Nox", DefaultColor}}, fromList.Tags)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hero":             "hero",
		"Nox's Blade":      "noxs-blade",
		"  The -- Void  ":  "the-void",
		"Arc #12 (draft)":  "arc-12-draft",
		"Éclair":           "clair",
		"already-slugged":  "already-slugged",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestParseNumber(t *testing.T) {
	for _, ok := range []string{"1", "2.5", " 10 "} {
		_, err := ParseNumber(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "0", "-1", "abc", "NaN", "Inf"} {
		_, err := ParseNumber(bad)
		assert.ErrorIs(t, err, ErrInvalidNumber, bad)
	}
}

func TestValidateEntry(t *testing.T) {
	assert.NoError(t, ValidateEntry(Entry{Number: "1", Description: "A"}))
	assert.ErrorIs(t, ValidateEntry(Entry{Number: "x", Description: "A"}), ErrInvalidNumber)
	assert.ErrorIs(t, ValidateEntry(Entry{Number: "1", Description: "  "}), ErrBlankDescription)
}

func TestArcKeyAndNextNumber(t *testing.T) {
	k, ok := ArcKey("3.7")
	require.True(t, ok)
	assert.Equal(t, "3", k)
	_, ok = ArcKey("nope")
	assert.False(t, ok)

	assert.Equal(t, 1, NextEntryNumber(nil))
	assert.Equal(t, 5, NextEntryNumber([]Entry{{Number: "2"}, {Number: "4.5"}, {Number: "x"}}))
}

func TestSortEntriesNumericAndStable(t *testing.T) {
	entries := []Entry{
		{Number: "10", Description: "ten"},
		{Number: "2", Description: "first two"},
		{Number: "bad", Description: "bad"},
		{Number: "2", Description: "second two"},
		{Number: "1.5", Description: "one and a half"},
	}

	asc := append([]Entry(nil), entries...)
	SortEntries(asc, false)
	assert.Equal(t, []string{"one and a half", "first two", "second two", "ten", "bad"}, descriptions(asc))

	desc := append([]Entry(nil), entries...)
	SortEntries(desc, true)
	assert.Equal(t, []string{"ten", "first two", "second two", "one and a half", "bad"}, descriptions(desc))
}

func TestDocumentEqualTreatsNilAsEmpty(t *testing.T) {
	a := Document{}
	b := Document{Entries: []Entry{}, Tags: []Tag{}, Arcs: Arcs{}}
	assert.True(t, a.Equal(b))

	b.Arcs["1"] = Arc{Name: "Dawn", Color: Amber}
	assert.False(t, a.Equal(b))
}

func TestDocumentCloneIsDeep(t *testing.T) {
	doc := Document{
		Entries: []Entry{{Number: "1", Description: "A", Tags: TagRefs{{"Hero", Blue}}}},
		Tags:    []Tag{NewTag("Hero", Blue, nil)},
		Arcs:    Arcs{"1": {Name: "Dawn", Color: Amber}},
	}
	c := doc.Clone()
	c.Entries[0].Tags[0].Name = "Villain"
	c.Tags[0].Terms[0] = "changed"
	c.Arcs["1"] = Arc{Name: "Dusk"}

	assert.Equal(t, "Hero", doc.Entries[0].Tags[0].Name)
	assert.Equal(t, "Hero", doc.Tags[0].Terms[0])
	assert.Equal(t, "Dawn", doc.Arcs["1"].Name)
}

func TestDocumentUnmarshalIndexKeyedObject(t *testing.T) {
	raw := `{
		"entries": {"1": {"Number":"2","Description":"B","Tags":""}, "0": {"Number":"1","Description":"A","Tags":"Hero|blue"}, "x": {}},
		"tags": [{"name":"Nox's Blade","type":"character"}]
	}`
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "1", doc.Entries[0].Number)
	assert.Equal(t, "2", doc.Entries[1].Number)

	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "noxs-blade", doc.Tags[0].ID)
	assert.Equal(t, Purple, doc.Tags[0].Color)
	assert.Equal(t, []string{"Nox's Blade"}, doc.Tags[0].Terms)
}

func TestNewTagDefaults(t *testing.T) {
	tag := NewTag("Hero", "", []string{" ", ""})
	assert.Equal(t, "hero", tag.ID)
	assert.Equal(t, DefaultColor, tag.Color)
	assert.Equal(t, []string{"Hero"}, tag.Terms)
}

func descriptions(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Description
	}
	return out
}
