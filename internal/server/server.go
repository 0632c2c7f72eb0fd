// Package server exposes the webhook ingress and the operator-facing
// status endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/chainguard-dev/clog"

	"github.com/mrvivektikoo/pr-doc-agent/internal/pubsub"
	"github.com/mrvivektikoo/pr-doc-agent/internal/store"
)

// maxPayloadBytes caps webhook request bodies. GitHub caps payloads at 25 MB;
// pull request events are far smaller.
const maxPayloadBytes = 1 << 20

// Server serves /webhook, /stats, /processed, and /health.
// Depends only on the Store interface and the producer/consumer pair.
type Server struct {
	store        store.Store
	producer     *pubsub.Producer
	consumer     *pubsub.Consumer
	historyLimit int
	http         *http.Server
}

// NewServer wires the routes. historyLimit bounds the /processed payload.
func NewServer(addr string, s store.Store, prod *pubsub.Producer, cons *pubsub.Consumer, historyLimit int) *Server {
	srv := &Server{store: s, producer: prod, consumer: cons, historyLimit: historyLimit}
	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/webhook", srv.handleWebhook)
	mux.HandleFunc("/stats", srv.handleStats)
	mux.HandleFunc("/processed", srv.handleProcessed)
	mux.HandleFunc("/health", srv.handleHealth)
	srv.http = &http.Server{Addr: addr, Handler: mux}
	return srv
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "pr-doc-agent is running\n")
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no JSON data received"})
		return
	}

	deliveryID := r.Header.Get("X-GitHub-Delivery")
	job, depth, err := s.producer.Accept(r.Context(), deliveryID, body)
	switch {
	case errors.Is(err, pubsub.ErrFiltered):
		clog.FromContext(r.Context()).Debug("webhook skipped", "pr", job.PRURL, "action", job.Action)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "PR webhook received",
			"pr_url":  job.PRURL,
			"status":  "skipped",
		})
	case errors.Is(err, pubsub.ErrDuplicate):
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "PR webhook received",
			"pr_url":  job.PRURL,
			"status":  "duplicate",
		})
	case errors.Is(err, pubsub.ErrQueueFull):
		clog.FromContext(r.Context()).Warn("webhook rejected, queue full", "pr", job.PRURL)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "queue full"})
	case err != nil:
		clog.FromContext(r.Context()).Warn("webhook rejected", "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"message":        "PR webhook received and queued",
			"pr_url":         job.PRURL,
			"queue_position": depth,
			"status":         "enqueued",
		})
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	received, err := s.store.EventCount(r.Context())
	if err != nil {
		clog.FromContext(r.Context()).Error("stats: event count", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	processed, err := s.store.ResultCount(r.Context())
	if err != nil {
		clog.FromContext(r.Context()).Error("stats: result count", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	recent, err := s.store.RecentResults(r.Context(), 5)
	if err != nil {
		clog.FromContext(r.Context()).Error("stats: recent results", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	workerStatus := "stopped"
	if s.consumer.Running() {
		workerStatus = "running"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"total_received":  received,
			"total_processed": processed,
			"queue_size":      s.producer.Depth(),
		},
		"recently_processed": recent,
		"worker_status":      workerStatus,
	})
}

func (s *Server) handleProcessed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	results, err := s.store.RecentResults(r.Context(), s.historyLimit)
	if err != nil {
		clog.FromContext(r.Context()).Error("processed: recent results", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_processed": len(results),
		"processed_prs":   results,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.store.Ping(r.Context()); err != nil {
		clog.FromContext(r.Context()).Warn("health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
