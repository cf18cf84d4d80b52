// Package server provides the HTTP surface for the chat service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dshills/toolchat-go/chat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config carries the server's runtime settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// AllowOrigin is the CORS Access-Control-Allow-Origin value.
	// Empty defaults to "*".
	AllowOrigin string

	// RequestTimeout bounds one whole chat turn. Zero means no timeout.
	RequestTimeout time.Duration

	// Logger receives request logs. Nil uses slog.Default().
	Logger *slog.Logger

	// Metrics, when set, is served at /metrics.
	Metrics *prometheus.Registry
}

// Server is the HTTP server for the chat API.
type Server struct {
	orch           *chat.Orchestrator
	logger         *slog.Logger
	registry       *prometheus.Registry
	addr           string
	allowOrigin    string
	requestTimeout time.Duration
}

// New creates an HTTP server over the given orchestrator.
func New(orch *chat.Orchestrator, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	allowOrigin := cfg.AllowOrigin
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	return &Server{
		orch:           orch,
		logger:         logger,
		registry:       cfg.Metrics,
		addr:           cfg.Addr,
		allowOrigin:    allowOrigin,
		requestTimeout: cfg.RequestTimeout,
	}
}

// Handler builds the full HTTP handler, middleware included. Exposed so
// tests can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("server starting", "addr", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown failed", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// chatRequest is the POST /chat request body.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the POST /chat success body. Tool and ToolOutput are
// present only when a tool was invoked.
type chatResponse struct {
	Response   string                 `json:"response"`
	Tool       string                 `json:"tool,omitempty"`
	ToolOutput map[string]interface{} `json:"tool_output,omitempty"`
}

// handleChat processes a single chat turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	turn, err := s.orch.Run(ctx, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "no message provided")
		case errors.Is(err, chat.ErrModelUnavailable):
			s.logger.Error("model call failed", "error", err)
			writeError(w, http.StatusBadGateway, "failed to communicate with the AI model.")
		default:
			s.logger.Error("chat turn failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:   turn.Answer,
		Tool:       turn.Tool,
		ToolOutput: turn.ToolOutput,
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
