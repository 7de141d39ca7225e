package draft

import (
	"testing"
	"time"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/loredump/pkg/events"
	"github.com/kittclouds/loredump/pkg/lore"
)

func newTestManager(t *testing.T) (*Manager, *mem.FS, *[]events.Event) {
	t.Helper()
	fs, err := mem.NewFS()
	require.NoError(t, err)

	var got []events.Event
	bus := events.NewBus()
	bus.Subscribe(func(ev events.Event) { got = append(got, ev) })

	m := NewManager(fs, Options{
		Notifier: bus,
		Now:      func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) },
	})
	return m, fs, &got
}

func sampleDoc() lore.Document {
	return lore.Document{
		Entries: []lore.Entry{
			{Number: "1", Description: "A", Tags: nil},
			{Number: "2", Description: "B", Tags: lore.ParseTagRefs("Hero|blue")},
		},
		Tags: []lore.Tag{lore.NewTag("Hero", lore.Blue, nil)},
		Arcs: lore.Arcs{"1": {Name: "Dawn", Color: lore.Amber}},
	}
}

// =============================================================================
// Persistence
// =============================================================================

func TestSaveLoadRoundTrip(t *testing.T) {
	m, _, got := newTestManager(t)

	assert.Nil(t, m.Load())
	assert.False(t, m.Exists())

	require.NoError(t, m.Save(sampleDoc()))
	assert.True(t, m.Exists())
	assert.Equal(t, []events.Event{{Kind: events.DraftUpdated}}, *got)

	d := m.Load()
	require.NotNil(t, d)
	assert.True(t, sampleDoc().Equal(d.Document()))
	assert.Equal(t, time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC), d.UpdatedAt)
}

func TestSavedLayout(t *testing.T) {
	m, fs, _ := newTestManager(t)
	require.NoError(t, m.Save(sampleDoc()))

	data, err := hackpadfs.ReadFile(fs, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"entries": [
			{"Number":"1","Description":"A","Tags":""},
			{"Number":"2","Description":"B","Tags":"Hero|blue"}
		],
		"tags": [{"id":"hero","name":"Hero","color":"blue","terms":["Hero"]}],
		"arcs": {"1": {"name":"Dawn","color":"amber"}},
		"updatedAt": "2026-10-17T12:00:00Z"
	}`, string(data))
}

func TestLoadCorruptDraftIsAbsent(t *testing.T) {
	m, fs, _ := newTestManager(t)
	require.NoError(t, hackpadfs.WriteFullFile(fs, DefaultKey, []byte("{not json"), 0o644))

	assert.True(t, m.Exists())
	assert.Nil(t, m.Load())
}

func TestClear(t *testing.T) {
	m, _, got := newTestManager(t)
	require.NoError(t, m.Save(sampleDoc()))
	require.NoError(t, m.Clear())
	assert.Nil(t, m.Load())

	// Clearing twice is fine and still notifies.
	require.NoError(t, m.Clear())
	assert.Len(t, *got, 3)
}

// =============================================================================
// Change detection
// =============================================================================

func TestHasChanges(t *testing.T) {
	remote := sampleDoc()
	assert.False(t, HasChanges(remote, remote.Clone()))

	local := remote.Clone()
	local.Arcs["1"] = lore.Arc{Name: "Dusk", Color: lore.Amber}
	assert.True(t, HasChanges(remote, local))

	// Order matters.
	swapped := remote.Clone()
	swapped.Entries[0], swapped.Entries[1] = swapped.Entries[1], swapped.Entries[0]
	assert.True(t, HasChanges(remote, swapped))
}

func TestComputeSymmetry(t *testing.T) {
	doc := sampleDoc()
	d := Compute(doc, doc)
	assert.True(t, d.Empty())
	assert.Empty(t, d.Entries.Added)
	assert.Empty(t, d.Tags.Modified)
	assert.Empty(t, d.Arcs.Deleted)
}

func TestComputeClassifies(t *testing.T) {
	remote := sampleDoc()
	local := remote.Clone()

	local.Entries = append(local.Entries, lore.Entry{Number: "3", Description: "C"})
	local.Entries[1].Description = "B, revised"
	local.Entries = local.Entries[1:] // drop #1
	local.Tags = append(local.Tags, lore.NewTag("Nox", lore.Purple, nil))
	local.Tags[0].Color = lore.Teal
	delete(local.Arcs, "1")
	local.Arcs["3"] = lore.Arc{Name: "Storm", Color: lore.Blue}

	d := Compute(remote, local)

	require.Len(t, d.Entries.Added, 1)
	assert.Equal(t, "3", d.Entries.Added[0].Number)
	require.Len(t, d.Entries.Modified, 1)
	assert.Equal(t, "B", d.Entries.Modified[0].Old.Description)
	assert.Equal(t, "B, revised", d.Entries.Modified[0].New.Description)
	require.Len(t, d.Entries.Deleted, 1)
	assert.Equal(t, "1", d.Entries.Deleted[0].Number)

	require.Len(t, d.Tags.Added, 1)
	assert.Equal(t, "nox", d.Tags.Added[0].ID)
	require.Len(t, d.Tags.Modified, 1)
	assert.Equal(t, lore.Teal, d.Tags.Modified[0].New.Color)
	assert.Empty(t, d.Tags.Deleted)

	assert.Equal(t, []lore.KeyedArc{{Key: "3", Arc: lore.Arc{Name: "Storm", Color: lore.Blue}}}, d.Arcs.Added)
	assert.Equal(t, []lore.KeyedArc{{Key: "1", Arc: lore.Arc{Name: "Dawn", Color: lore.Amber}}}, d.Arcs.Deleted)
	assert.Equal(t, 7, d.Len())
}

func TestComputeAddedEntryAppearsOnce(t *testing.T) {
	remote := sampleDoc()
	for _, n := range []string{"3", "4", "10"} {
		local := remote.Clone()
		local.Entries = append(local.Entries, lore.Entry{Number: n, Description: "new " + n})

		d := Compute(remote, local)
		count := 0
		for _, e := range d.Entries.Added {
			if e.Number == n {
				count++
			}
		}
		assert.Equal(t, 1, count, n)
		for _, m := range d.Entries.Modified {
			assert.NotEqual(t, n, m.New.Number)
		}
		for _, e := range d.Entries.Deleted {
			assert.NotEqual(t, n, e.Number)
		}
	}
}

func TestComputeEditedBackIsNoChange(t *testing.T) {
	remote := sampleDoc()
	local := remote.Clone()
	local.Entries[0].Description = "changed"
	local.Entries[0].Description = "A"
	assert.True(t, Compute(remote, local).Empty())
}
