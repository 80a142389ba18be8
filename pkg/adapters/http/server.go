package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/contrib"
	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/ports"
	"github.com/aretw0/contrib/pkg/schema"
	"github.com/aretw0/contrib/pkg/when"
	"github.com/go-chi/chi/v5"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// Server bridges a host to remote clients over HTTP.
type Server struct {
	host     ports.Host
	store    ports.ContextStore
	manifest func() *domain.Manifest
	schema   schema.Schema
	metrics  http.Handler
	logger   *slog.Logger
	Streams  *StreamManager
}

// Option configures a Server.
type Option func(*Server)

// WithManifest serves the manifest returned by fn on GET /manifest.
func WithManifest(fn func() *domain.Manifest) Option {
	return func(s *Server) {
		s.manifest = fn
	}
}

// WithSchema rejects context values that do not match their declared type.
func WithSchema(sc schema.Schema) Option {
	return func(s *Server) {
		s.schema = sc
	}
}

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler. Context reads go to store, which must
// be the store the host writes setContext values to.
func NewHandler(host ports.Host, store ports.ContextStore, opts ...Option) http.Handler {
	s := &Server{
		host:    host,
		store:   store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Streams: NewStreamManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/manifest", s.GetManifest)
	r.Get("/context", s.GetContext)
	r.Put("/context/{key}", s.SetContext)
	r.Delete("/context/{key}", s.DeleteContext)
	r.Post("/commands/{id}", s.ExecuteCommand)
	r.Post("/when/eval", s.EvalWhen)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":     "contrib-http",
		"version": strings.TrimSpace(contrib.Version),
	})
}

// GetManifest handles the GET /manifest request.
func (s *Server) GetManifest(w http.ResponseWriter, r *http.Request) {
	if s.manifest == nil {
		http.Error(w, "No manifest configured", http.StatusNotFound)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, s.manifest())
}

// GetContext handles the GET /context request.
func (s *Server) GetContext(w http.ResponseWriter, r *http.Request) {
	values, err := s.store.All(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Context error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetContext failed", "err", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, values)
}

// SetContext handles the PUT /context/{key} request. The body is the JSON value.
func (s *Server) SetContext(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var value any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&value); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SetContext: Invalid request body", "err", err)
		return
	}
	if err := s.schema.ValidateValue(key, value); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if _, err := s.host.ExecuteCommand(r.Context(), ports.SetContextCommand, key, value); err != nil {
		http.Error(w, fmt.Sprintf("setContext error: %v", err), http.StatusInternalServerError)
		s.logger.Error("SetContext failed", "key", key, "err", err)
		return
	}
	s.broadcast(key, value)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteContext handles the DELETE /context/{key} request.
func (s *Server) DeleteContext(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if _, err := s.host.ExecuteCommand(r.Context(), ports.SetContextCommand, key, nil); err != nil {
		http.Error(w, fmt.Sprintf("setContext error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DeleteContext failed", "key", key, "err", err)
		return
	}
	if err := s.store.Delete(r.Context(), key); err != nil {
		http.Error(w, fmt.Sprintf("Context error: %v", err), http.StatusInternalServerError)
		return
	}
	s.broadcast(key, nil)
	w.WriteHeader(http.StatusNoContent)
}

// ExecuteRequest is the body of POST /commands/{id}.
type ExecuteRequest struct {
	Args []any `json:"args"`
}

// ExecuteResponse is returned by POST /commands/{id}.
type ExecuteResponse struct {
	Result any `json:"result"`
}

// ExecuteCommand handles the POST /commands/{id} request.
func (s *Server) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == ports.SetContextCommand {
		http.Error(w, "Use PUT /context/{key} to set context keys", http.StatusBadRequest)
		return
	}

	var body ExecuteRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("ExecuteCommand: Invalid request body", "err", err)
			return
		}
	}

	start := time.Now()
	out, err := s.host.ExecuteCommand(r.Context(), id, body.Args...)
	if err != nil {
		if errors.Is(err, domain.ErrCommandNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Command error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ExecuteCommand failed", "command", id, "err", err)
		return
	}
	s.logger.Debug("command executed", "command", id, "duration", time.Since(start))
	writeJSON(w, s.logger, http.StatusOK, ExecuteResponse{Result: out})
}

// EvalRequest is the body of POST /when/eval. When Values is nil the current
// context of the host is used.
type EvalRequest struct {
	Clause string         `json:"clause"`
	Values map[string]any `json:"values,omitempty"`
}

// EvalResponse is returned by POST /when/eval.
type EvalResponse struct {
	Result     bool     `json:"result"`
	Normalized string   `json:"normalized"`
	Atoms      []string `json:"atoms"`
}

// EvalWhen handles the POST /when/eval request.
func (s *Server) EvalWhen(w http.ResponseWriter, r *http.Request) {
	var body EvalRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("EvalWhen: Invalid request body", "err", err)
		return
	}

	dnf, err := when.Parse(body.Clause)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	values := body.Values
	if values == nil {
		values, err = s.store.All(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Context error: %v", err), http.StatusInternalServerError)
			return
		}
	}

	result, err := dnf.EvalValues(values)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	atoms := dnf.Atoms()
	if atoms == nil {
		atoms = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, EvalResponse{
		Result:     result,
		Normalized: dnf.String(),
		Atoms:      atoms,
	})
}

func (s *Server) broadcast(key string, value any) {
	event := domain.ContextEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventContextSet},
		Key:       key,
		Value:     value,
	}
	if data, err := json.Marshal(event); err == nil {
		s.Streams.Broadcast(key, string(data))
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
