package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docgate/docgate/internal/docgate/store"
	"github.com/docgate/docgate/internal/docgate/store/memory"
	"github.com/docgate/docgate/internal/docgate/types"
)

func TestDocumentStore_FetchSeedAndNotFound(t *testing.T) {
	ds := memory.NewDocumentStore(memory.SeedDocuments(), 0)
	ctx := context.Background()

	doc, err := ds.Fetch(ctx, "DOC002")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if doc.SecurityLevel != 5 {
		t.Errorf("expected DOC002 security_level=5, got %d", doc.SecurityLevel)
	}

	if _, err := ds.Fetch(ctx, "DOC999"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentStore_FetchReturnsCopy(t *testing.T) {
	ds := memory.NewDocumentStore([]types.Document{
		{ID: "D1", Title: "t", Content: "original", SecurityLevel: 1},
	}, 0)
	ctx := context.Background()

	doc, err := ds.Fetch(ctx, "D1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	doc.Content = "mutated by caller"

	again, err := ds.Fetch(ctx, "D1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if again.Content != "original" {
		t.Errorf("caller mutation leaked into the store: %q", again.Content)
	}
}

func TestDocumentStore_UpdateChangesOnlyContent(t *testing.T) {
	ds := memory.NewDocumentStore(memory.SeedDocuments(), 0)
	ctx := context.Background()

	if err := ds.Update(ctx, "DOC003", "new text"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, err := ds.Fetch(ctx, "DOC003")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if doc.Content != "new text" {
		t.Errorf("expected updated content, got %q", doc.Content)
	}
	if doc.Title != "Cafeteria Menu" || doc.SecurityLevel != 1 {
		t.Errorf("update touched fields other than content: %+v", doc)
	}

	if err := ds.Update(ctx, "DOC999", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentStore_SimulatedLatency(t *testing.T) {
	delay := 20 * time.Millisecond
	ds := memory.NewDocumentStore(memory.SeedDocuments(), delay)

	start := time.Now()
	if _, err := ds.Fetch(context.Background(), "DOC001"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if elapsed := time.Since(start); elapsed < delay {
		t.Errorf("expected fetch to take at least %s, took %s", delay, elapsed)
	}
}
