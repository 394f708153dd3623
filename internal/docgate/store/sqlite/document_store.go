package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/docgate/docgate/internal/db"
	"github.com/docgate/docgate/internal/docgate/store"
	"github.com/docgate/docgate/internal/docgate/types"
)

// DocumentStore is the durable document table.  Like the memory store it can
// imitate a slow upstream by sleeping before each operation, which keeps the
// dev and prod backends behaviourally interchangeable.
type DocumentStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
	delay  time.Duration
}

func NewDocumentStore(db *sql.DB, writer *dbpkg.Worker, delay time.Duration) *DocumentStore {
	return &DocumentStore{db: db, writer: writer, delay: delay}
}

func (s *DocumentStore) Fetch(ctx context.Context, id string) (types.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.Document{}, store.ErrNotFound
	}

	s.simulateLatency()

	var doc types.Document
	err := s.db.QueryRowContext(ctx, `
SELECT doc_id, title, content, security_level
FROM documents
WHERE doc_id = ?;
`, id).Scan(&doc.ID, &doc.Title, &doc.Content, &doc.SecurityLevel)

	if err == sql.ErrNoRows {
		return types.Document{}, store.ErrNotFound
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("Fetch query: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) Update(ctx context.Context, id string, newContent string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrNotFound
	}

	s.simulateLatency()

	nowMs := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE documents
SET content       = ?,
    updated_at_ms = ?
WHERE doc_id = ?;
`, newContent, nowMs, id)
		if err != nil {
			return fmt.Errorf("Update exec: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("Update rows affected: %w", err)
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *DocumentStore) simulateLatency() {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}
