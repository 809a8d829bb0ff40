package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/aretw0/txgraph/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// FormatJSON returns the document itself instead of a rendering.
const FormatJSON = "json"

// Engine defines the interface for the graph expansion core.
type Engine interface {
	Expand(ctx context.Context, seed string) (*edges.Document, error)
}

// Server serves seed graphs over HTTP.
type Server struct {
	engine  Engine
	locker  ports.Locker
	lockTTL time.Duration
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLocker serializes concurrent expansions of the same seed.
func WithLocker(l ports.Locker, ttl time.Duration) Option {
	return func(s *Server) {
		s.locker = l
		s.lockTTL = ttl
	}
}

// WithMetrics mounts a metrics handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// DocumentResponse is the JSON shape of a seed document.
type DocumentResponse struct {
	Seed  string       `json:"seed"`
	Empty bool         `json:"empty"`
	Edges []edges.Edge `json:"edges"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine:  engine,
		lockTTL: 5 * time.Minute,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Get("/graph/{address}", s.Graph)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(txgraph.Version),
	})
}

// Graph handles GET /graph/{address}?format=dot|mermaid|json.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	seed := domain.NormalizeAddress(chi.URLParam(r, "address"))
	format := r.URL.Query().Get("format")
	if format == "" {
		format = txgraph.FormatDOT
	}
	if format != txgraph.FormatDOT && format != txgraph.FormatMermaid && format != FormatJSON {
		http.Error(w, "unknown format "+format, http.StatusBadRequest)
		return
	}
	if err := domain.ValidateAddress(seed); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, seed, s.lockTTL)
		if err != nil {
			s.logger.Warn("Graph: lock failed", "seed", seed, "err", err)
			http.Error(w, "seed is busy", http.StatusServiceUnavailable)
			return
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Graph: unlock failed", "seed", seed, "err", err)
			}
		}()
	}

	doc, err := s.engine.Expand(ctx, seed)
	if err != nil {
		status := statusFor(err)
		s.logger.Error("Graph: expansion failed", "seed", seed, "status", status, "err", err)
		http.Error(w, err.Error(), status)
		return
	}

	if format == FormatJSON {
		list := doc.Edges
		if list == nil {
			list = []edges.Edge{}
		}
		writeJSON(w, http.StatusOK, DocumentResponse{Seed: doc.Seed, Empty: doc.Empty, Edges: list})
		return
	}

	text, err := txgraph.Render(doc, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if format == txgraph.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// statusFor maps expansion errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingCache):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
