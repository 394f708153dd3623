package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/docgate/docgate/internal/db"
	"github.com/docgate/docgate/internal/docgate/store"
)

type AuditStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAuditStore(db *sql.DB, writer *dbpkg.Worker) *AuditStore {
	return &AuditStore{db: db, writer: writer}
}

func (s *AuditStore) Record(ctx context.Context, rec store.AuditRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	recordedMs := rec.RecordedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO audit_events(
  event_id, document_id, username, clearance,
  action, event, detail, recorded_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.DocumentID, rec.Username, rec.Clearance,
			rec.Action, rec.Event, rec.Detail, recordedMs,
		); err != nil {
			return fmt.Errorf("Record insert: %w", err)
		}
		return nil
	})
}

func (s *AuditStore) List(ctx context.Context, limit int) ([]store.AuditRecord, error) {
	q := `
SELECT event_id, document_id, username, clearance,
       action, event, detail, recorded_at_ms
FROM audit_events
ORDER BY id ASC`
	args := []any{}
	if limit > 0 {
		q += `
LIMIT ?`
		args = append(args, limit)
	}
	q += ";"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []store.AuditRecord
	for rows.Next() {
		var rec store.AuditRecord
		var recordedMs int64
		if err := rows.Scan(
			&rec.ID, &rec.DocumentID, &rec.Username, &rec.Clearance,
			&rec.Action, &rec.Event, &rec.Detail, &recordedMs,
		); err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		rec.RecordedAt = time.UnixMilli(recordedMs).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List rows: %w", err)
	}
	return out, nil
}

func (s *AuditStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM audit_events WHERE recorded_at_ms < ?;`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan delete: %w", err)
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("PruneOlderThan rows affected: %w", err)
		}
		return nil
	})
	return deleted, err
}
