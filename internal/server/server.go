// Package server exposes the orchestrator over HTTP: blocking and streaming
// execution, task status, producer listing, metrics, and cancellation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/dispatch"
	"github.com/kweiss/deskpilot/internal/orchestrator"
	"github.com/kweiss/deskpilot/internal/tracker"
)

// Server wraps the orchestrator behind an HTTP surface.
type Server struct {
	orch *orchestrator.Orchestrator
	log  zerolog.Logger
	http *http.Server
}

// New builds a server bound to addr.
func New(orch *orchestrator.Orchestrator, addr string, log zerolog.Logger) *Server {
	s := &Server{orch: orch, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /producers", s.handleProducers)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /status/{id}", s.handleStatus)
	mux.HandleFunc("POST /execute", s.handleExecute)
	mux.HandleFunc("POST /execute_stream", s.handleExecuteStream)
	mux.HandleFunc("POST /cancel/{id}", s.handleCancel)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProducers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"producers": s.orch.Producers()})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Metrics())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	exec, err := s.orch.Status(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	res, err := s.orch.Execute(r.Context(), req)
	if err != nil && res.Outcome == nil {
		// Never dispatched. Run failures below still answer with the
		// terminal result.
		writeError(w, dispatchStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExecuteStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	taskID, stream, err := s.orch.ExecuteStreaming(r.Context(), req)
	if err != nil {
		writeError(w, dispatchStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Task-ID", taskID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for chunk := range stream {
		payload, err := json.Marshal(chunk)
		if err != nil {
			// skip the chunk but keep draining so the run settles
			s.log.Error().Err(err).Str("task_id", taskID).Msg("encoding chunk")
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	err := s.orch.Cancel(taskID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID, "status": "cancelling"})
	case errors.Is(err, tracker.ErrUnknownTask):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, tracker.ErrAlreadyTerminal):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (orchestrator.Request, bool) {
	var req orchestrator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return req, false
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, errors.New("description is required"))
		return req, false
	}
	return req, true
}

// dispatchStatus maps dispatch failures onto HTTP statuses: naming a
// nonexistent producer is a client error, having none enabled is not.
func dispatchStatus(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrUnknownProducer):
		return http.StatusBadRequest
	case errors.Is(err, dispatch.ErrNoProducerAvailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
