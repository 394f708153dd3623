package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/docgate/docgate/internal/docgate/service"
	"github.com/docgate/docgate/internal/docgate/store"
	"github.com/docgate/docgate/internal/docgate/types"
)

type Dependencies struct {
	Logger  *log.Logger
	Addr    string
	Proxy   *service.DocumentProxy
	Metrics http.Handler // optional; mounted at /metrics when set
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	proxy      *service.DocumentProxy
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger: d.Logger,
		mux:    mux,
		proxy:  d.Proxy,
	}

	mux.HandleFunc("POST /v1/documents/view", s.handleView)
	mux.HandleFunc("POST /v1/documents/edit", s.handleEdit)
	mux.HandleFunc("GET /v1/audit", s.handleAuditLog)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req types.ViewRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.proxy.View(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, "view", err)
		return
	}

	writeJSON(w, outcomeStatus(resp.Outcome), resp)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req types.EditRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.proxy.Edit(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, "edit", err)
		return
	}

	writeJSON(w, outcomeStatus(resp.Outcome), resp)
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	events, err := s.proxy.AuditLog(r.Context(), limit)
	if err != nil {
		s.logger.Printf("audit log error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, auditLogResponse{Events: auditEntriesFromRecords(events)})
}

func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDocumentID):
		writeError(w, http.StatusBadRequest, "invalid_document_id", err.Error())
	case errors.Is(err, service.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "invalid_username", err.Error())
	default:
		s.logger.Printf("%s error: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}

// outcomeStatus maps the three expected outcome kinds to HTTP statuses.
// All three are ordinary results; only denied and not_found get non-2xx
// codes so plain HTTP clients can branch without parsing the body.
func outcomeStatus(o types.Outcome) int {
	switch o {
	case types.OutcomeDenied:
		return http.StatusForbidden
	case types.OutcomeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

type auditLogResponse struct {
	Events []auditEntry `json:"events"`
}

// auditEntry is the wire form of one audit record.
type auditEntry struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Username   string `json:"username"`
	Clearance  int    `json:"clearance"`
	Action     string `json:"action"`
	Event      string `json:"event"`
	Detail     string `json:"detail,omitempty"`
	RecordedAt string `json:"recorded_at"`
}

func auditEntriesFromRecords(recs []store.AuditRecord) []auditEntry {
	out := make([]auditEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, auditEntry{
			ID:         rec.ID,
			DocumentID: rec.DocumentID,
			Username:   rec.Username,
			Clearance:  rec.Clearance,
			Action:     rec.Action,
			Event:      rec.Event,
			Detail:     rec.Detail,
			RecordedAt: rec.RecordedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}
