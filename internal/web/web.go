// Package web exposes draft generation over HTTP: a JSON endpoint for
// one-shot callers and a WebSocket that streams UI updates as they happen.
package web

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/contact-draft/internal/draft"
)

// DefaultAPITimeout bounds a single POST /api/drafts call.
const DefaultAPITimeout = 2 * time.Minute

// Handlers serves the draft endpoints.
type Handlers struct {
	factory    draft.Factory
	logger     *zap.Logger
	apiTimeout time.Duration
	upgrader   websocket.Upgrader
}

// Option configures Handlers.
type Option func(*Handlers)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handlers) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithAPITimeout overrides DefaultAPITimeout. Zero disables the limit.
func WithAPITimeout(d time.Duration) Option {
	return func(h *Handlers) { h.apiTimeout = d }
}

// WithAllowedOrigins restricts which browser origins may open the draft
// socket. Patterns follow go-chi/cors: case-insensitive, "*" allows any
// origin, and a single "*" inside a pattern matches any run of characters.
// Without this option, or with an empty list, only same-host pages are
// accepted. Requests without an Origin header are always accepted.
func WithAllowedOrigins(patterns []string) Option {
	return func(h *Handlers) {
		if len(patterns) > 0 {
			h.upgrader.CheckOrigin = originChecker(patterns)
		}
	}
}

// New creates draft handlers that build an Orchestrator per request from factory.
func New(factory draft.Factory, opts ...Option) *Handlers {
	h := &Handlers{
		factory:    factory,
		logger:     zap.NewNop(),
		apiTimeout: DefaultAPITimeout,
		upgrader:   websocket.Upgrader{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the draft routes onto the given router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.apiTimeout > 0 {
			r.Use(middleware.Timeout(h.apiTimeout))
		}
		r.Post("/api/drafts", h.handleCreateDraft)
	})
	r.Get("/ws/drafts", h.handleWebSocket)
}

type wildcard struct {
	prefix, suffix string
}

func (w wildcard) match(s string) bool {
	return len(s) >= len(w.prefix)+len(w.suffix) && strings.HasPrefix(s, w.prefix) && strings.HasSuffix(s, w.suffix)
}

func originChecker(patterns []string) func(r *http.Request) bool {
	var exact []string
	var wild []wildcard
	for _, p := range patterns {
		p = strings.ToLower(p)
		if p == "*" {
			return func(r *http.Request) bool { return true }
		}
		if i := strings.IndexByte(p, '*'); i >= 0 {
			wild = append(wild, wildcard{prefix: p[:i], suffix: p[i+1:]})
		} else {
			exact = append(exact, p)
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		origin = strings.ToLower(origin)
		if slices.Contains(exact, origin) {
			return true
		}
		for _, w := range wild {
			if w.match(origin) {
				return true
			}
		}
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
