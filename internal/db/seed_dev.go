package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docgate/docgate/internal/docgate/types"
)

type SeedDevOptions struct {
	// Documents to pre-create.  Existing rows keep their current content —
	// re-running the seeder never clobbers live data.
	Documents []types.Document
}

func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	now := time.Now().UTC().UnixMilli()

	for _, d := range opt.Documents {
		if d.ID == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO documents(
  doc_id, title, content, security_level,
  created_at_ms, updated_at_ms
) VALUES (?, ?, ?, ?, ?, ?);`,
			d.ID, d.Title, d.Content, d.SecurityLevel, now, now,
		); err != nil {
			return fmt.Errorf("seed document %s: %w", d.ID, err)
		}
	}

	return nil
}
