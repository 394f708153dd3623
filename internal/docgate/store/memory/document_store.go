package memory

import (
	"context"
	"sync"
	"time"

	"github.com/docgate/docgate/internal/docgate/store"
	"github.com/docgate/docgate/internal/docgate/types"
)

// DocumentStore is an in-memory document table.  It stands in for a real
// document service in dev and tests, and imitates one by sleeping for a
// configurable delay on every fetch and update.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[string]types.Document
	delay time.Duration
}

// NewDocumentStore seeds the store with the given documents.  delay is the
// simulated I/O latency per operation; 0 disables it (tests).
func NewDocumentStore(docs []types.Document, delay time.Duration) *DocumentStore {
	m := make(map[string]types.Document, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			continue
		}
		m[d.ID] = d
	}
	return &DocumentStore{docs: m, delay: delay}
}

// SeedDocuments is the fixed dev document set.
func SeedDocuments() []types.Document {
	return []types.Document{
		{ID: "DOC001", Title: "Quarterly Report", Content: "Revenue is up 12% quarter over quarter.", SecurityLevel: 3},
		{ID: "DOC002", Title: "Merger Plans", Content: "Confidential: acquisition target shortlist.", SecurityLevel: 5},
		{ID: "DOC003", Title: "Cafeteria Menu", Content: "Monday: soup. Tuesday: pasta.", SecurityLevel: 1},
	}
}

func (s *DocumentStore) Fetch(_ context.Context, id string) (types.Document, error) {
	s.simulateLatency()

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return types.Document{}, store.ErrNotFound
	}
	return doc, nil
}

func (s *DocumentStore) Update(_ context.Context, id string, newContent string) error {
	s.simulateLatency()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	doc.Content = newContent
	s.docs[id] = doc
	return nil
}

// simulateLatency blocks for the configured delay.  The store is assumed to
// always answer eventually, so the sleep is not cancellable.
func (s *DocumentStore) simulateLatency() {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}
