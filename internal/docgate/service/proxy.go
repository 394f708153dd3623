package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docgate/docgate/internal/docgate/store"
	"github.com/docgate/docgate/internal/docgate/types"
	"github.com/docgate/docgate/internal/telemetry"
)

var (
	ErrInvalidDocumentID = errors.New("document_id is required")
	ErrInvalidUsername   = errors.New("username is required")
)

// AccessPolicy is the single authorization rule for the whole gateway: a
// caller may touch a document iff their clearance is at least the document's
// security level.  AllowAll is a dev/testing escape hatch.
type AccessPolicy struct {
	AllowAll bool
}

// HasAccess is pure — no side effects, no I/O.  It must be applied on every
// path that hands a document to a caller, cache hits included.
func (p AccessPolicy) HasAccess(user types.User, doc types.Document) bool {
	if p.AllowAll {
		return true
	}
	return user.ClearanceLevel >= doc.SecurityLevel
}

// StoreFactory constructs the backing document store.  The proxy calls it
// lazily, on the first request that actually needs the store.
type StoreFactory func(ctx context.Context) (store.DocumentStore, error)

// DocumentProxy is the single entry point for document access.  It enforces
// one consistent policy: lazy store construction, cache-first lookup,
// uniform authorization, cache invalidation on write, and an audit entry for
// every decision point.  Callers never talk to the store directly.
type DocumentProxy struct {
	policy     AccessPolicy
	auditStore store.AuditStore
	metrics    *telemetry.Collector

	// Lazily constructed backing store.  storeMu guards the check-and-set
	// so concurrent first requests construct it at most once.
	newStore StoreFactory
	storeMu  sync.Mutex
	docStore store.DocumentStore

	cacheMu sync.RWMutex
	cache   map[string]types.Document
}

// NewDocumentProxy wires a proxy.  The store is NOT constructed here —
// newStore runs on first use.  metrics may be nil.
func NewDocumentProxy(newStore StoreFactory, policy AccessPolicy, as store.AuditStore, metrics *telemetry.Collector) *DocumentProxy {
	return &DocumentProxy{
		policy:     policy,
		auditStore: as,
		metrics:    metrics,
		newStore:   newStore,
		cache:      make(map[string]types.Document),
	}
}

// View resolves a document (cache first, store second), applies the access
// policy, and reports one of three outcomes.  Denied responses carry no
// document content, even when the document was already cached.
func (p *DocumentProxy) View(ctx context.Context, req types.ViewRequest) (types.ViewResponse, error) {
	now := time.Now().UTC()

	id := strings.TrimSpace(req.DocumentID)
	user := req.User
	user.Username = strings.TrimSpace(user.Username)

	if id == "" {
		return types.ViewResponse{}, ErrInvalidDocumentID
	}
	if user.Username == "" {
		return types.ViewResponse{}, ErrInvalidUsername
	}

	p.recordAudit(ctx, id, user, store.ActionView, store.EventAttempt,
		fmt.Sprintf("%s (clearance %d) requests to view %s", user.Username, user.ClearanceLevel, id), now)

	doc, fromCache, err := p.resolve(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			p.recordAudit(ctx, id, user, store.ActionView, store.EventNotFound,
				fmt.Sprintf("%s does not exist", id), time.Now().UTC())
			p.metrics.RecordDecision(store.ActionView, string(types.OutcomeNotFound))

			return types.ViewResponse{
				Outcome:    types.OutcomeNotFound,
				DocumentID: id,
				ServerTime: now.Format(time.RFC3339Nano),
			}, nil
		}
		return types.ViewResponse{}, err
	}

	if !p.policy.HasAccess(user, doc) {
		p.recordAudit(ctx, id, user, store.ActionView, store.EventDenied,
			fmt.Sprintf("denied: clearance %d below level %d", user.ClearanceLevel, doc.SecurityLevel), time.Now().UTC())
		p.metrics.RecordDecision(store.ActionView, string(types.OutcomeDenied))

		return types.ViewResponse{
			Outcome:    types.OutcomeDenied,
			DocumentID: id,
			ServerTime: now.Format(time.RFC3339Nano),
		}, nil
	}

	p.recordAudit(ctx, id, user, store.ActionView, store.EventGranted,
		fmt.Sprintf("granted to %s", user.Username), time.Now().UTC())
	p.metrics.RecordDecision(store.ActionView, string(types.OutcomeGranted))

	return types.ViewResponse{
		Outcome:    types.OutcomeGranted,
		DocumentID: id,
		Document:   &doc,
		FromCache:  fromCache,
		ServerTime: now.Format(time.RFC3339Nano),
	}, nil
}

// Edit resolves the document, checks the policy, and only then writes
// through to the store.  A successful write invalidates the cache entry so
// the next read is forced back to the authoritative source.
func (p *DocumentProxy) Edit(ctx context.Context, req types.EditRequest) (types.EditResponse, error) {
	now := time.Now().UTC()

	id := strings.TrimSpace(req.DocumentID)
	user := req.User
	user.Username = strings.TrimSpace(user.Username)

	if id == "" {
		return types.EditResponse{}, ErrInvalidDocumentID
	}
	if user.Username == "" {
		return types.EditResponse{}, ErrInvalidUsername
	}

	p.recordAudit(ctx, id, user, store.ActionEdit, store.EventAttempt,
		fmt.Sprintf("%s (clearance %d) requests to edit %s", user.Username, user.ClearanceLevel, id), now)

	doc, _, err := p.resolve(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			p.recordAudit(ctx, id, user, store.ActionEdit, store.EventNotFound,
				fmt.Sprintf("%s does not exist", id), time.Now().UTC())
			p.metrics.RecordDecision(store.ActionEdit, string(types.OutcomeNotFound))

			return types.EditResponse{
				Outcome:    types.OutcomeNotFound,
				DocumentID: id,
				ServerTime: now.Format(time.RFC3339Nano),
			}, nil
		}
		return types.EditResponse{}, err
	}

	if !p.policy.HasAccess(user, doc) {
		p.recordAudit(ctx, id, user, store.ActionEdit, store.EventDenied,
			fmt.Sprintf("denied: clearance %d below level %d", user.ClearanceLevel, doc.SecurityLevel), time.Now().UTC())
		p.metrics.RecordDecision(store.ActionEdit, string(types.OutcomeDenied))

		return types.EditResponse{
			Outcome:    types.OutcomeDenied,
			DocumentID: id,
			ServerTime: now.Format(time.RFC3339Nano),
		}, nil
	}

	st, err := p.backingStore(ctx)
	if err != nil {
		return types.EditResponse{}, err
	}
	if err := st.Update(ctx, id, req.NewContent); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The document vanished between resolve and update.  Drop any
			// cached copy and report not_found like any other miss.
			p.invalidate(id)
			p.recordAudit(ctx, id, user, store.ActionEdit, store.EventNotFound,
				fmt.Sprintf("%s does not exist", id), time.Now().UTC())
			p.metrics.RecordDecision(store.ActionEdit, string(types.OutcomeNotFound))

			return types.EditResponse{
				Outcome:    types.OutcomeNotFound,
				DocumentID: id,
				ServerTime: now.Format(time.RFC3339Nano),
			}, nil
		}
		return types.EditResponse{}, err
	}

	p.invalidate(id)

	p.recordAudit(ctx, id, user, store.ActionEdit, store.EventUpdated,
		fmt.Sprintf("%s updated by %s", id, user.Username), time.Now().UTC())
	p.metrics.RecordDecision(store.ActionEdit, string(types.OutcomeUpdated))

	return types.EditResponse{
		Outcome:    types.OutcomeUpdated,
		DocumentID: id,
		ServerTime: now.Format(time.RFC3339Nano),
	}, nil
}

// AuditLog returns the recorded audit trail in insertion order.
// limit <= 0 means all entries.
func (p *DocumentProxy) AuditLog(ctx context.Context, limit int) ([]store.AuditRecord, error) {
	return p.auditStore.List(ctx, limit)
}

// resolve returns the document from cache when present, otherwise fetches it
// from the (lazily constructed) store.  Successful fetches always populate
// the cache — even when the current caller is then denied — because
// authorization is re-checked per caller on every access.
func (p *DocumentProxy) resolve(ctx context.Context, id string) (types.Document, bool, error) {
	p.cacheMu.RLock()
	doc, ok := p.cache[id]
	p.cacheMu.RUnlock()
	if ok {
		p.metrics.RecordCacheHit()
		return doc, true, nil
	}
	p.metrics.RecordCacheMiss()

	st, err := p.backingStore(ctx)
	if err != nil {
		return types.Document{}, false, err
	}

	start := time.Now()
	doc, err = st.Fetch(ctx, id)
	p.metrics.RecordStoreFetch(time.Since(start))
	if err != nil {
		// Not-found is never cached.
		return types.Document{}, false, err
	}

	p.cacheMu.Lock()
	p.cache[id] = doc
	p.cacheMu.Unlock()

	return doc, false, nil
}

// backingStore returns the document store, constructing it on first use.
// The mutex-guarded check-and-set guarantees at-most-once construction under
// concurrent first access.
func (p *DocumentProxy) backingStore(ctx context.Context) (store.DocumentStore, error) {
	p.storeMu.Lock()
	defer p.storeMu.Unlock()

	if p.docStore != nil {
		return p.docStore, nil
	}

	st, err := p.newStore(ctx)
	if err != nil {
		return nil, err
	}
	p.docStore = st
	p.metrics.RecordStoreInit()
	return st, nil
}

func (p *DocumentProxy) invalidate(id string) {
	p.cacheMu.Lock()
	delete(p.cache, id)
	p.cacheMu.Unlock()
}

// recordAudit appends one audit entry.  Errors are intentionally not
// returned to the caller — a failed audit write must never change the
// outcome of the request it describes.
func (p *DocumentProxy) recordAudit(
	ctx context.Context,
	docID string,
	user types.User,
	action, event, detail string,
	at time.Time,
) {
	_ = p.auditStore.Record(ctx, store.AuditRecord{
		ID:         uuid.NewString(),
		DocumentID: docID,
		Username:   user.Username,
		Clearance:  user.ClearanceLevel,
		Action:     action,
		Event:      event,
		Detail:     detail,
		RecordedAt: at,
	})
}
