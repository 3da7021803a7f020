// Package server exposes the analysis pipeline and move executor over a
// small HTTP surface. Handlers are thin adapters: request decoding,
// NDJSON streaming, and status mapping live here; all behavior lives in
// the pipeline, engine, and mover packages.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sortwise/sortwise/internal/model"
	"github.com/sortwise/sortwise/internal/mover"
	"github.com/sortwise/sortwise/internal/ollama"
	"github.com/sortwise/sortwise/internal/pipeline"
	"github.com/sortwise/sortwise/internal/service"
)

// Server wires the pipeline, mover, and inference client behind HTTP
// handlers. Store may be nil when persistence is disabled.
type Server struct {
	pipeline *pipeline.Pipeline
	executor *mover.Executor
	client   ollama.Client
	store    service.Storage
	logger   *slog.Logger
}

// New creates a Server. logger must not be nil; store may be nil.
func New(p *pipeline.Pipeline, executor *mover.Executor, client ollama.Client, store service.Storage, logger *slog.Logger) *Server {
	return &Server{
		pipeline: p,
		executor: executor,
		client:   client,
		store:    store,
		logger:   logger,
	}
}

// Handler returns the routed HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/analysis/health", s.handleAnalysisHealth)
	mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/v1/operations/move", s.handleMove)
	return mux
}

// ListenAndServe runs the HTTP server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalysisHealth(w http.ResponseWriter, r *http.Request) {
	ready := s.client.HealthCheck(r.Context())
	status := "ready"
	if !ready {
		status = "unavailable"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"model":  s.client.Model(),
		"ready":  ready,
	})
}

type analyzeRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

// handleAnalyze runs the pipeline and streams progress events to the
// client as newline-delimited JSON, one event per line. The run is tied
// to the request context: a disconnecting client cancels it.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	enc := json.NewEncoder(w)
	for event := range s.pipeline.Run(r.Context(), req.Path, req.Recursive) {
		if err := enc.Encode(event); err != nil {
			s.logger.Warn("client disconnected during stream", "error", err)
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}

type moveRequestEntry struct {
	Path              string `json:"path"`
	Category          string `json:"category"`
	SuggestedCategory string `json:"suggested_category"`
}

type moveRequest struct {
	BasePath string             `json:"base_path"`
	Files    []moveRequestEntry `json:"files"`
}

type moveResponse struct {
	Results []model.MoveResult `json:"results"`
	Moved   int                `json:"moved"`
	Total   int                `json:"total"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BasePath == "" {
		writeError(w, http.StatusBadRequest, "base_path is required")
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "files must not be empty")
		return
	}

	requests := make([]model.MoveRequest, 0, len(req.Files))
	for _, f := range req.Files {
		category := f.Category
		if category == "" {
			category = f.SuggestedCategory
		}
		requests = append(requests, model.MoveRequest{
			SourcePath: f.Path,
			Category:   category,
			BasePath:   req.BasePath,
		})
	}

	results := s.executor.Move(requests)
	moved := 0
	for _, res := range results {
		if res.Moved {
			moved++
		}
	}
	s.recordOperations(r.Context(), results)

	writeJSON(w, http.StatusOK, moveResponse{
		Results: results,
		Moved:   moved,
		Total:   len(results),
	})
}

func (s *Server) recordOperations(ctx context.Context, results []model.MoveResult) {
	if s.store == nil {
		return
	}
	for _, res := range results {
		op := model.Operation{
			Type:            "move",
			SourcePath:      res.SourcePath,
			DestinationPath: res.Destination,
			Status:          model.OperationStatusSuccess,
			ErrorMessage:    res.Error,
		}
		if !res.Moved {
			op.Status = model.OperationStatusFailed
		}
		if err := s.store.RecordOperation(ctx, &op); err != nil {
			s.logger.Warn("failed to record operation", "source", res.SourcePath, "error", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
