package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/docgate/docgate/internal/docgate/store"
	sqlitestore "github.com/docgate/docgate/internal/docgate/store/sqlite"
)

func TestDocumentStore_Fetch_ReturnsSeededRow(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	seedDocument(t, conn, "DOC001", "Quarterly Report", "Revenue is up.", 3)

	ds := sqlitestore.NewDocumentStore(conn, w, 0)

	doc, err := ds.Fetch(context.Background(), "DOC001")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if doc.ID != "DOC001" {
		t.Errorf("expected id=DOC001, got %q", doc.ID)
	}
	if doc.Title != "Quarterly Report" {
		t.Errorf("expected title, got %q", doc.Title)
	}
	if doc.SecurityLevel != 3 {
		t.Errorf("expected security_level=3, got %d", doc.SecurityLevel)
	}
	if doc.Size() != len("Revenue is up.") {
		t.Errorf("expected size derived from content, got %d", doc.Size())
	}
}

func TestDocumentStore_Fetch_UnknownID_NotFound(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDocumentStore(conn, w, 0)

	_, err := ds.Fetch(context.Background(), "DOC999")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentStore_Update_ChangesOnlyContent(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	seedDocument(t, conn, "DOC003", "Cafeteria Menu", "Monday: soup.", 1)

	ds := sqlitestore.NewDocumentStore(conn, w, 0)
	ctx := context.Background()

	if err := ds.Update(ctx, "DOC003", "new text"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, err := ds.Fetch(ctx, "DOC003")
	if err != nil {
		t.Fatalf("Fetch after update: %v", err)
	}
	if doc.Content != "new text" {
		t.Errorf("expected updated content, got %q", doc.Content)
	}
	if doc.Title != "Cafeteria Menu" || doc.SecurityLevel != 1 {
		t.Errorf("update touched fields other than content: %+v", doc)
	}
}

func TestDocumentStore_Update_UnknownID_NotFound(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDocumentStore(conn, w, 0)

	err := ds.Update(context.Background(), "DOC999", "x")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
