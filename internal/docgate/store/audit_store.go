package store

import (
	"context"
	"time"
)

// Actions a caller can attempt against a document.
const (
	ActionView = "view"
	ActionEdit = "edit"
)

// Audit event kinds.  Every view or edit records an "attempt" event followed
// by exactly one terminal event.
const (
	EventAttempt  = "attempt"
	EventGranted  = "granted"
	EventDenied   = "denied"
	EventNotFound = "not_found"
	EventUpdated  = "updated"
)

// AuditRecord captures a single access-control decision point.
type AuditRecord struct {
	ID         string // uuid, assigned by the proxy
	DocumentID string
	Username   string
	Clearance  int
	Action     string // "view" | "edit"
	Event      string // one of the Event* constants
	Detail     string // free-text description for rendering
	RecordedAt time.Time
}

// AuditStore persists access decisions as an append-only, insertion-ordered
// log.
type AuditStore interface {
	Record(ctx context.Context, rec AuditRecord) error

	// List returns events in insertion order.  limit <= 0 means all.
	List(ctx context.Context, limit int) ([]AuditRecord, error)

	// PruneOlderThan deletes events recorded before cutoff and reports how
	// many were removed.  Used by the retention pruner only.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
