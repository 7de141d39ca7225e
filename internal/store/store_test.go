package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/loredump/pkg/lore"
)

// =============================================================================
// Store Factory for Testing Both Implementations
// =============================================================================

// storeFactory creates a store for testing.
// We test both MemStore and SQLiteStore with the same test suite.
type storeFactory func() (Storer, error)

func memStoreFactory() (Storer, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (Storer, error) {
	return NewSQLiteStore()
}

// runTestsForAllStores runs a test function against both store implementations.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

func sampleDocument() lore.Document {
	return lore.Document{
		Entries: []lore.Entry{
			{Number: "1", Description: "The gate opens", Tags: lore.ParseTagRefs("Gate|amber")},
			{Number: "2", Description: "Hero arrives", Tags: lore.ParseTagRefs("Hero|blue, Gate|amber")},
		},
		Tags: []lore.Tag{
			lore.NewTag("Gate", lore.Amber, nil),
			lore.NewTag("Hero", lore.Blue, []string{"Hero", "the hero"}),
		},
		Arcs: lore.Arcs{"1": {Name: "Dawn", Color: lore.Teal}},
	}
}

// =============================================================================
// Document Tests
// =============================================================================

func TestLoadEmptyStore(t *testing.T) {
	runTestsForAllStores(t, "LoadEmpty", func(t *testing.T, store Storer) {
		doc, err := store.LoadDocument(context.Background())
		require.NoError(t, err)
		assert.Nil(t, doc, "Nothing published yet")
	})
}

func TestSaveAndLoad(t *testing.T) {
	runTestsForAllStores(t, "SaveAndLoad", func(t *testing.T, store Storer) {
		ctx := context.Background()

		echoed, err := store.SaveDocument(ctx, sampleDocument())
		require.NoError(t, err)
		assert.True(t, sampleDocument().Equal(echoed), "Save echoes stored content")

		loaded, err := store.LoadDocument(ctx)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.True(t, sampleDocument().Equal(*loaded))
	})
}

func TestSaveIsLastWriteWins(t *testing.T) {
	runTestsForAllStores(t, "LastWriteWins", func(t *testing.T, store Storer) {
		ctx := context.Background()
		_, err := store.SaveDocument(ctx, sampleDocument())
		require.NoError(t, err)

		second := sampleDocument()
		second.Entries = second.Entries[:1]
		second.Tags = nil
		_, err = store.SaveDocument(ctx, second)
		require.NoError(t, err)

		loaded, err := store.LoadDocument(ctx)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Len(t, loaded.Entries, 1)
		assert.Empty(t, loaded.Tags)
	})
}

func TestSaveDoesNotAliasCaller(t *testing.T) {
	runTestsForAllStores(t, "NoAlias", func(t *testing.T, store Storer) {
		ctx := context.Background()
		doc := sampleDocument()
		_, err := store.SaveDocument(ctx, doc)
		require.NoError(t, err)

		doc.Entries[0].Description = "mutated"
		loaded, err := store.LoadDocument(ctx)
		require.NoError(t, err)
		assert.Equal(t, "The gate opens", loaded.Entries[0].Description)
	})
}

// =============================================================================
// History Tests
// =============================================================================

func TestRevisionHistory(t *testing.T) {
	runTestsForAllStores(t, "History", func(t *testing.T, store Storer) {
		ctx := context.Background()

		_, err := store.SaveDocument(ctx, sampleDocument())
		require.NoError(t, err)
		second := sampleDocument()
		second.Entries = append(second.Entries, lore.Entry{Number: "3", Description: "Night falls"})
		_, err = store.SaveDocument(ctx, second)
		require.NoError(t, err)

		revs, err := store.ListRevisions(ctx)
		require.NoError(t, err)
		require.Len(t, revs, 2)

		assert.Equal(t, 1, revs[0].Version)
		assert.False(t, revs[0].IsCurrent)
		assert.NotNil(t, revs[0].ValidTo, "Closed version has valid_to")
		assert.Equal(t, 2, revs[0].EntryCount)

		assert.Equal(t, 2, revs[1].Version)
		assert.True(t, revs[1].IsCurrent)
		assert.Nil(t, revs[1].ValidTo)
		assert.Equal(t, 3, revs[1].EntryCount)
		assert.Equal(t, ReasonPublish, revs[1].ChangeReason)
		assert.NotEqual(t, revs[0].ID, revs[1].ID)

		v1, err := store.LoadRevision(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, v1.Entries, 2)
	})
}

func TestRestoreRevision(t *testing.T) {
	runTestsForAllStores(t, "Restore", func(t *testing.T, store Storer) {
		ctx := context.Background()
		_, err := store.SaveDocument(ctx, sampleDocument())
		require.NoError(t, err)
		_, err = store.SaveDocument(ctx, lore.Document{})
		require.NoError(t, err)

		restored, err := store.RestoreRevision(ctx, 1)
		require.NoError(t, err)
		assert.True(t, sampleDocument().Equal(restored))

		revs, err := store.ListRevisions(ctx)
		require.NoError(t, err)
		require.Len(t, revs, 3, "Restore appends a version")
		assert.Equal(t, ReasonRestore, revs[2].ChangeReason)
		assert.True(t, revs[2].IsCurrent)

		current, err := store.LoadDocument(ctx)
		require.NoError(t, err)
		assert.True(t, sampleDocument().Equal(*current))
	})
}

func TestMissingRevision(t *testing.T) {
	runTestsForAllStores(t, "MissingRevision", func(t *testing.T, store Storer) {
		ctx := context.Background()
		_, err := store.LoadRevision(ctx, 7)
		assert.ErrorIs(t, err, ErrRevisionNotFound)
		_, err = store.RestoreRevision(ctx, 7)
		assert.ErrorIs(t, err, ErrRevisionNotFound)
	})
}

// =============================================================================
// MemStore fault injection
// =============================================================================

func TestMemStoreFailures(t *testing.T) {
	ctx := context.Background()
	s := NewMemStoreWith(sampleDocument())
	boom := errors.New("offline")

	s.FailSaves(boom)
	_, err := s.SaveDocument(ctx, lore.Document{})
	assert.ErrorIs(t, err, boom)

	s.FailLoads(boom)
	_, err = s.LoadDocument(ctx)
	assert.ErrorIs(t, err, boom)

	s.FailLoads(nil)
	s.FailSaves(nil)
	doc, err := s.LoadDocument(ctx)
	require.NoError(t, err)
	assert.True(t, sampleDocument().Equal(*doc), "Failed save left content untouched")
}
