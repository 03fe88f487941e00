package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sform"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/redact"
	"github.com/aretw0/sform/pkg/runner"
)

// Form is the part of a form served over HTTP. *sform.Form[string, string] satisfies it.
type Form interface {
	ApplyEdit(id string, raw string) error
	Field(id string) domain.Binding[string, string]
	Fields() []domain.Binding[string, string]
	Has(id string) bool
	Snapshot() *domain.Snapshot[string, string]
}

// Server exposes one form instance. Edits are serialized by a mutex, so the form
// itself never sees concurrent calls.
type Server struct {
	mu       sync.Mutex
	form     Form
	name     string
	id       string
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	redactor *redact.Redactor
	Streams  *StreamManager
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithName sets the form name reported by GET /form.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithMetrics serves g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithRedactor masks sensitive values in every response and streamed diff.
func WithRedactor(r *redact.Redactor) Option {
	return func(s *Server) {
		s.redactor = r
	}
}

// NewServer wraps form. Every server gets a random instance id.
func NewServer(form Form, opts ...Option) *Server {
	s := &Server{
		form:   form,
		id:     uuid.NewString(),
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("instance", s.id)
	s.Streams = NewStreamManager(s.logger)
	return s
}

// ID returns the instance id.
func (s *Server) ID() string { return s.id }

// NewHandler creates a new HTTP handler for the form.
func NewHandler(form Form, opts ...Option) http.Handler {
	return NewServer(form, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/form", s.GetForm)
	r.Get("/fields/{id}", s.GetField)
	r.Put("/fields/{id}", s.PutField)
	r.Get("/values", s.GetValues)
	r.Get("/messages", s.GetMessages)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FormResponse is the payload of GET /form.
type FormResponse struct {
	ID      string                           `json:"id"`
	Form    string                           `json:"form,omitempty"`
	Version int                              `json:"version"`
	Valid   bool                             `json:"valid"`
	Fields  []domain.Binding[string, string] `json:"fields"`
}

// EditRequest is the body of PUT /fields/{id}.
type EditRequest struct {
	Value *string `json:"value"`
}

// EditResponse is returned by PUT /fields/{id}.
type EditResponse struct {
	Field domain.Binding[string, string]       `json:"field"`
	Valid bool                                 `json:"valid"`
	Diff  *domain.SnapshotDiff[string, string] `json:"diff,omitempty"`
}

// MessagesResponse is the payload of GET /messages.
type MessagesResponse struct {
	Field  map[string]string `json:"field"`
	Global map[string]string `json:"global"`
	Errors map[string]string `json:"errors"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":      "sform-http",
		"version":  strings.TrimSpace(sform.Version),
		"instance": s.id,
	})
}

// GetForm handles the GET /form request.
func (s *Server) GetForm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.form.Snapshot()
	resp := FormResponse{
		ID:      s.id,
		Form:    s.name,
		Version: snap.Version(),
		Valid:   snap.Valid(),
		Fields:  s.redactor.Bindings(s.form.Fields()),
	}
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, resp)
}

// GetField handles the GET /fields/{id} request.
func (s *Server) GetField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	known := s.form.Has(id)
	binding := s.redactor.Binding(s.form.Field(id))
	s.mu.Unlock()

	if !known {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrUnknownField, id))
		return
	}
	s.writeJSON(w, http.StatusOK, binding)
}

// PutField handles the PUT /fields/{id} request.
func (s *Server) PutField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body EditRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		s.logger.Warn("PutField: Invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, errors.New(`invalid request body: expected {"value": "..."}`))
		return
	}

	clean, err := runner.SanitizeInput(*body.Value)
	if err != nil {
		s.logger.Warn("PutField: Input rejected", "err", err, "size", len(*body.Value))
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, status, err := s.applyEdit(id, clean)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// applyEdit settles one edit under s.mu and broadcasts its diff before releasing the
// lock, so subscribers see diffs in version order. A panicking rule still unlocks.
func (s *Server) applyEdit(id, value string) (EditResponse, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.form.Has(id) {
		return EditResponse{}, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrUnknownField, id)
	}
	before := s.form.Snapshot()
	if err := s.form.ApplyEdit(id, value); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrReentrantEdit) {
			status = http.StatusConflict
		}
		s.logger.Error("PutField: Edit failed", "field", id, "err", err)
		return EditResponse{}, status, err
	}
	after := s.form.Snapshot()
	resp := EditResponse{
		Field: s.redactor.Binding(s.form.Field(id)),
		Valid: after.Valid(),
		Diff:  domain.Diff(before, after),
	}
	if resp.Diff != nil {
		resp.Diff.Values = s.redactor.Values(resp.Diff.Values, s.props)
		s.logger.Debug("PutField: Diff calculated", "field", id, "changed", resp.Diff.Changed())
		if bytes, err := json.Marshal(resp.Diff); err == nil {
			s.Streams.Broadcast(string(bytes))
		}
	}
	return resp, http.StatusOK, nil
}

// GetValues handles the GET /values request.
func (s *Server) GetValues(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	values := s.redactor.Values(s.form.Snapshot().Values(), s.props)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, values)
}

// props must be called with s.mu held.
func (s *Server) props(id string) map[string]any {
	return s.form.Field(id).Props
}

// GetMessages handles the GET /messages request.
func (s *Server) GetMessages(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.form.Snapshot()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, MessagesResponse{
		Field:  snap.FieldMessages(),
		Global: snap.GlobalMessages(),
		Errors: snap.Errors(),
	})
}

// SubscribeEvents handles the GET /events request (SSE). An optional "fields" query
// parameter (comma separated) drops diffs that touch none of the listed fields.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var watchList []string
	if raw := r.URL.Query().Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				watchList = append(watchList, f)
			}
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	s.logger.Info("SSE: Client subscribed", "fields", watchList)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !touches(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// touches reports whether the serialized diff changes any of fields.
func touches(msg string, fields []string) bool {
	var diff domain.SnapshotDiff[string, string]
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, f := range fields {
		if _, ok := diff.Values[f]; ok {
			return true
		}
		if _, ok := diff.Errors[f]; ok {
			return true
		}
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
