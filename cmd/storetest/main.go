// Command storetest runs a publish and restore cycle against both document
// stores and exits non-zero on the first failure. Pass a DSN to check a
// SQLite file instead of an in-memory database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kittclouds/loredump/internal/store"
	"github.com/kittclouds/loredump/pkg/lore"
)

func main() {
	ctx := context.Background()

	fmt.Println("Testing MemStore...")
	check(ctx, store.NewMemStore())

	fmt.Println("\nTesting SQLiteStore...")
	var (
		s   *store.SQLiteStore
		err error
	)
	if len(os.Args) > 1 {
		s, err = store.NewSQLiteStoreWithDSN(os.Args[1])
	} else {
		s, err = store.NewSQLiteStore()
	}
	if err != nil {
		log.Fatalf("NewSQLiteStore failed: %v", err)
	}
	check(ctx, s)

	fmt.Println("\nAll checks passed")
}

func check(ctx context.Context, s store.Storer) {
	defer s.Close()

	first := lore.Document{
		Entries: []lore.Entry{{Number: "1", Description: "The gate opens", Tags: lore.ParseTagRefs("Gate|amber")}},
		Tags:    []lore.Tag{lore.NewTag("Gate", lore.Amber, nil)},
		Arcs:    lore.Arcs{},
	}
	if _, err := s.SaveDocument(ctx, first); err != nil {
		log.Fatalf("SaveDocument failed: %v", err)
	}
	fmt.Println("  ✓ SaveDocument works")

	second := first.Clone()
	second.Entries = append(second.Entries, lore.Entry{Number: "2", Description: "Hero arrives"})
	if _, err := s.SaveDocument(ctx, second); err != nil {
		log.Fatalf("SaveDocument failed: %v", err)
	}

	got, err := s.LoadDocument(ctx)
	if err != nil {
		log.Fatalf("LoadDocument failed: %v", err)
	}
	if got == nil || len(got.Entries) != 2 {
		log.Fatal("LoadDocument did not return the latest version")
	}
	fmt.Println("  ✓ LoadDocument works")

	revs, err := s.ListRevisions(ctx)
	if err != nil {
		log.Fatalf("ListRevisions failed: %v", err)
	}
	if len(revs) != 2 {
		log.Fatalf("ListRevisions expected 2, got %d", len(revs))
	}
	fmt.Println("  ✓ ListRevisions works")

	restored, err := s.RestoreRevision(ctx, revs[0].Version)
	if err != nil {
		log.Fatalf("RestoreRevision failed: %v", err)
	}
	if len(restored.Entries) != 1 {
		log.Fatalf("RestoreRevision expected 1 entry, got %d", len(restored.Entries))
	}
	fmt.Println("  ✓ RestoreRevision works")
}
