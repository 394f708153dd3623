package store

import (
	"context"
	"errors"

	"github.com/docgate/docgate/internal/docgate/types"
)

// ErrNotFound is returned by DocumentStore implementations when no document
// exists for the requested id.  Callers translate it into a not_found
// outcome; it never escapes the gateway as a hard failure.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the authoritative source of documents.  Implementations
// simulate (or incur) real I/O latency and perform no authorization — the
// store trusts its caller.
type DocumentStore interface {
	// Fetch returns a copy of the document for id, or ErrNotFound.
	Fetch(ctx context.Context, id string) (types.Document, error)

	// Update replaces the document's content, leaving every other field
	// unchanged.  Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, id string, newContent string) error
}
