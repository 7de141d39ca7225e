package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/loredump/internal/store"
	"github.com/kittclouds/loredump/pkg/lore"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type testEnv struct {
	remote *store.MemStore
	fs     *mem.FS
	cfg    string
}

func newTestEnv(t *testing.T, doc lore.Document) *testEnv {
	t.Helper()
	fs, err := mem.NewFS()
	require.NoError(t, err)
	return &testEnv{
		remote: store.NewMemStoreWith(doc),
		fs:     fs,
		cfg:    filepath.Join(t.TempDir(), "config.yaml"),
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(WithStore(e.remote), WithDraftFS(e.fs))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.cfg, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "loredump %v", args)
	return out
}

func seed() lore.Document {
	return lore.Document{
		Entries: []lore.Entry{
			{Number: "1", Description: "The gate opens", Tags: lore.ParseTagRefs("Gate|amber")},
			{Number: "2", Description: "Hero arrives at the gate", Tags: lore.ParseTagRefs("Hero|blue, Gate|amber")},
		},
		Tags: []lore.Tag{lore.NewTag("Gate", lore.Amber, nil), lore.NewTag("Hero", lore.Blue, nil)},
		Arcs: lore.Arcs{"1": {Name: "Dawn", Color: lore.Teal}},
	}
}

// =============================================================================
// Entries
// =============================================================================

func TestListFiltersAndSorts(t *testing.T) {
	env := newTestEnv(t, seed())

	out := env.mustRun(t, "list")
	assert.Contains(t, out, "#1      The gate opens")
	assert.Contains(t, out, "Showing 2 of 2 entries")

	out = env.mustRun(t, "list", "--tag", "Hero")
	assert.NotContains(t, out, "The gate opens")
	assert.Contains(t, out, "Showing 1 of 2 entries")

	out = env.mustRun(t, "list", "--sort", "entry-desc", "--facets")
	assert.Less(t, bytes.Index([]byte(out), []byte("#2")), bytes.Index([]byte(out), []byte("#1")))
	assert.Contains(t, out, "Hero (1)")
}

func TestListJSON(t *testing.T) {
	env := newTestEnv(t, seed())
	out := env.mustRun(t, "--json", "list", "--search", "hero")

	var got struct {
		Data struct {
			Entries []lore.Entry `json:"entries"`
			Stats   struct {
				Total    int `json:"total"`
				Filtered int `json:"filtered"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Data.Stats.Total)
	require.Len(t, got.Data.Entries, 1)
	assert.Equal(t, "2", got.Data.Entries[0].Number)
}

func TestAddEditRemove(t *testing.T) {
	env := newTestEnv(t, seed())

	out := env.mustRun(t, "add", "--desc", "Nox watches the Hero", "--tags", "Nox|purple")
	assert.Contains(t, out, "Added entry #3")
	assert.Contains(t, out, "Created tag Nox")
	assert.Contains(t, out, "Suggested tags: Hero")

	out = env.mustRun(t, "show", "3")
	assert.Contains(t, out, "Entry #3")
	assert.Contains(t, out, "Arc:  Arc 3")
	assert.Contains(t, out, "Nox watches the Hero")

	out = env.mustRun(t, "show", "3", "--markdown")
	assert.Contains(t, out, "Nox watches the Hero")

	env.mustRun(t, "edit", "3", "--desc", "Nox sleeps")
	out = env.mustRun(t, "show", "3")
	assert.Contains(t, out, "Nox sleeps")
	assert.Contains(t, out, "Nox", "tags untouched when --tags not given")

	assert.Equal(t, "4\n", env.mustRun(t, "next"))

	env.mustRun(t, "rm", "3")
	_, err := env.run(t, "show", "3")
	assert.EqualError(t, err, "entry not found: 3")

	_, err = env.run(t, "add", "--number", "1", "--desc", "dup")
	assert.Error(t, err)
}

// =============================================================================
// Tags and arcs
// =============================================================================

func TestTagCommands(t *testing.T) {
	env := newTestEnv(t, seed())

	env.mustRun(t, "tags", "add", "Nox", "--color", "purple", "--terms", "Nox,the shadow")
	out := env.mustRun(t, "tags", "list", "--search", "shadow")
	assert.Contains(t, out, "nox")
	assert.NotContains(t, out, "gate")

	out = env.mustRun(t, "suggest", "the", "shadow", "falls")
	assert.Equal(t, "Nox\n", out)

	env.mustRun(t, "tags", "edit", "gate", "--name", "Portal", "--color", "pink")
	out = env.mustRun(t, "--json", "show", "2")
	assert.Contains(t, out, `"Tags": "Hero|blue, Portal|pink"`)

	env.mustRun(t, "tags", "rm", "portal")
	out = env.mustRun(t, "--json", "show", "1")
	assert.Contains(t, out, `"Tags": ""`)

	_, err := env.run(t, "tags", "rm", "portal")
	assert.Error(t, err)

	_, err = env.run(t, "tags", "edit", "hero", "--name", "Hero, Jr")
	assert.ErrorContains(t, err, "comma")
	out = env.mustRun(t, "--json", "show", "2")
	assert.Contains(t, out, `"Tags": "Hero|blue"`)
}

func TestArcCommands(t *testing.T) {
	env := newTestEnv(t, seed())
	env.mustRun(t, "add", "--number", "2.5", "--desc", "interlude")

	env.mustRun(t, "arcs", "name", "2", "Noon")
	env.mustRun(t, "arcs", "color", "2", "orange")

	out := env.mustRun(t, "arcs", "list")
	assert.Contains(t, out, "1    Dawn")
	assert.Contains(t, out, "2    Noon")
}

func TestArcCommandsRejectBadInput(t *testing.T) {
	env := newTestEnv(t, seed())

	_, err := env.run(t, "arcs", "name", "x", "Noon")
	assert.EqualError(t, err, `invalid arc key "x": must be an integer`)
	_, err = env.run(t, "arcs", "name", "1.5", "Noon")
	assert.Error(t, err)
	_, err = env.run(t, "arcs", "color", "1", "crimson")
	assert.ErrorContains(t, err, `invalid color "crimson"`)

	out := env.mustRun(t, "arcs", "color", "01", "Pink")
	assert.Equal(t, "Arc 1: pink\n", out)
	assert.Contains(t, env.mustRun(t, "arcs", "list"), "1    Dawn")
}

// =============================================================================
// Sync
// =============================================================================

func TestStatusDiffPublish(t *testing.T) {
	env := newTestEnv(t, seed())
	assert.Equal(t, "Up to date\n", env.mustRun(t, "status"))

	env.mustRun(t, "add", "--desc", "Villain appears", "--tags", "Villain|pink")
	assert.Contains(t, env.mustRun(t, "status"), "2 unpublished change(s)")

	out := env.mustRun(t, "diff")
	assert.Contains(t, out, "[x] added     Entry #3  (entries/3)")
	assert.Contains(t, out, "(tags/villain)")

	out = env.mustRun(t, "publish", "--exclude", "tags/villain")
	assert.Equal(t, "Published 1 change(s); 1 kept as draft\n", out)

	remote, err := env.remote.LoadDocument(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, remote.EntryIndex("3"), 0)
	assert.Equal(t, -1, remote.TagIndex("villain"))

	assert.Contains(t, env.mustRun(t, "status"), "1 unpublished change(s)")
	assert.Equal(t, "Published 1 change(s)\n", env.mustRun(t, "publish"))
	assert.Equal(t, "Up to date\n", env.mustRun(t, "status"))
	assert.Equal(t, "No changes detected.\n", env.mustRun(t, "publish"))

	_, err = env.run(t, "publish", "--exclude", "tags/none")
	assert.NoError(t, err, "nothing to publish wins over a bad id")
}

func TestPublishUnknownExclude(t *testing.T) {
	env := newTestEnv(t, seed())
	env.mustRun(t, "rm", "1")
	_, err := env.run(t, "publish", "--exclude", "entries/9")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	env := newTestEnv(t, seed())
	env.mustRun(t, "rm", "1")

	_, err := env.run(t, "discard")
	assert.Error(t, err, "needs --yes")

	env.mustRun(t, "discard", "--yes")
	assert.Equal(t, "Up to date\n", env.mustRun(t, "status"))
	assert.Contains(t, env.mustRun(t, "show", "1"), "The gate opens")
}

func TestHistoryAndRestore(t *testing.T) {
	env := newTestEnv(t, seed())
	env.mustRun(t, "rm", "2")
	env.mustRun(t, "publish")

	out := env.mustRun(t, "history")
	assert.Contains(t, out, "  v1 ")
	assert.Contains(t, out, "* v2 ")

	env.mustRun(t, "restore", "1")
	out = env.mustRun(t, "history")
	assert.Contains(t, out, "* v3 ")
	assert.Contains(t, out, "restore")

	// The restored remote now has entry #2 again; working state follows it.
	assert.Contains(t, env.mustRun(t, "show", "2"), "Hero arrives")

	_, err := env.run(t, "restore", "abc")
	assert.Error(t, err)
}
