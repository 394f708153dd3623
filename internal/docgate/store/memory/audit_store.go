package memory

import (
	"context"
	"sync"
	"time"

	"github.com/docgate/docgate/internal/docgate/store"
)

// AuditStore is an in-memory append-only log of access decisions.  It is
// intended for use in tests and dev environments.
type AuditStore struct {
	mu     sync.Mutex
	events []store.AuditRecord
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Record(_ context.Context, rec store.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	s.events = append(s.events, rec)
	return nil
}

func (s *AuditStore) List(_ context.Context, limit int) ([]store.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]store.AuditRecord, n)
	copy(out, s.events[:n])
	return out, nil
}

func (s *AuditStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, ev := range s.events {
		if ev.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	return deleted, nil
}
