package types

// Outcome is the terminal result of a view or edit request.  All three are
// ordinary results the caller branches on, never errors.
type Outcome string

const (
	OutcomeGranted  Outcome = "granted"
	OutcomeDenied   Outcome = "denied"
	OutcomeNotFound Outcome = "not_found"
	OutcomeUpdated  Outcome = "updated"
)

type ViewRequest struct {
	DocumentID string `json:"document_id"`
	User       User   `json:"user"`
}

// ViewResponse carries the outcome of a view.  Document is set only when the
// outcome is granted — denied responses must not leak content.
type ViewResponse struct {
	Outcome    Outcome   `json:"outcome"`
	DocumentID string    `json:"document_id"`
	Document   *Document `json:"document,omitempty"`
	FromCache  bool      `json:"from_cache,omitempty"`
	ServerTime string    `json:"server_time"`
}

type EditRequest struct {
	DocumentID string `json:"document_id"`
	User       User   `json:"user"`
	NewContent string `json:"new_content"`
}

type EditResponse struct {
	Outcome    Outcome `json:"outcome"`
	DocumentID string  `json:"document_id"`
	ServerTime string  `json:"server_time"`
}
