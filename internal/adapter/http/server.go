// Package http exposes the feasibility API plus health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/mapview"
	"github.com/couchcryptid/parcel-feasibility/internal/session"
)

// Analyzer runs a full feasibility analysis for one address.
type Analyzer interface {
	Analyze(ctx context.Context, addr domain.Address) (*domain.FeasibilityRecord, error)
}

// ChatService answers follow-up questions about a completed analysis.
type ChatService interface {
	Chat(ctx context.Context, record *domain.FeasibilityRecord, question string, history []domain.ChatExchange) string
}

// OverlayBuilder assembles the map overlay for a completed analysis.
type OverlayBuilder interface {
	Build(record *domain.FeasibilityRecord) (*mapview.Overlay, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the feasibility HTTP API.
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	chat       ChatService
	overlays   OverlayBuilder
	sessions   *session.Store
	city       string
	state      string
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API and operational routes.
// City and state are appended to every analyzed address. narrativeTimeout is
// the per-call budget for the narrative generator; the write timeout is
// derived from it so a worst-case analysis never trips it.
func NewServer(addr string, analyzer Analyzer, chat ChatService, overlays OverlayBuilder, sessions *session.Store, ready ReadinessChecker, city, state string, narrativeTimeout time.Duration, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// One analysis makes up to three sequential generation calls.
	writeTimeout := 3*narrativeTimeout + 10*time.Second

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		analyzer: analyzer,
		chat:     chat,
		overlays: overlays,
		sessions: sessions,
		city:     city,
		state:    state,
		logger:   logger,
	}

	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/report/{id}", s.handleReport)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/map/{id}", s.handleMap)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type analyzeRequest struct {
	Street string `json:"street"`
	Zip    string `json:"zip"`
}

type analyzeResponse struct {
	SessionID string                    `json:"session_id"`
	Record    *domain.FeasibilityRecord `json:"record"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Street = strings.TrimSpace(req.Street)
	if req.Street == "" {
		writeError(w, http.StatusBadRequest, "street is required")
		return
	}

	addr := domain.Address{
		Street: req.Street,
		City:   s.city,
		State:  s.state,
		Zip:    strings.TrimSpace(req.Zip),
	}

	record, err := s.analyzer.Analyze(r.Context(), addr)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAddressNotFound):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrParcelNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			s.logger.Error("analysis failed", "street", req.Street, "error", err)
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	sess := s.sessions.Create(record)
	writeJSON(w, http.StatusOK, analyzeResponse{SessionID: sess.ID, Record: record})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type chatResponse struct {
	Answer string                `json:"answer"`
	Chat   []domain.ChatExchange `json:"chat"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	sess, err := s.sessions.Get(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	answer := s.chat.Chat(r.Context(), sess.Record, req.Question, sess.Chat)
	transcript, err := s.sessions.AppendChat(sess.ID, req.Question, answer)
	if err != nil {
		// Session expired between read and append.
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Answer: answer, Chat: transcript})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	overlay, err := s.overlays.Build(sess.Record)
	if err != nil {
		s.logger.Error("overlay build failed", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "map overlay failed")
		return
	}
	writeJSON(w, http.StatusOK, overlay)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
