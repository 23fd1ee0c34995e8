// internal/httpserver/server.go
//
// HTTP server wiring for the word-hunt backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     zerolog access logs).
//   - Public endpoints: "/", "/health", "/api/levels", "/api/daily".
//   - Session endpoints: POST/GET /api/session, GET /api/session/history.
//   - Attempt endpoints (session required): mounted under /api/attempts.
//   - Dictionary proxy: POST /api/define.
//   - WebSocket gesture + event channel: GET /ws.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The session cookie carries a signed JWT whose only claim of interest is
//     the session ID; there are no accounts.
//   - /ws sits outside the request timeout because the connection is long-lived.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordhunt/internal/config"
	"github.com/robalobadob/wordhunt/internal/definition"
	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/levels"
	"github.com/robalobadob/wordhunt/internal/results"
	"github.com/robalobadob/wordhunt/internal/store"
	"github.com/robalobadob/wordhunt/internal/words"
)

var errBadPointer = errors.New("pointer type must be down, move or up")

// History reads a session's attempt log.
type History interface {
	History(ctx context.Context, sessionID string, limit int) ([]results.Result, error)
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Config   *config.Config
	Store    store.Store
	Words    words.Pools
	Recorder game.Recorder // optional
	History  History       // optional
	Definer  definition.Definer
	// Now is the clock used for daily seeds. Defaults to time.Now.
	Now func() time.Time
}

// Server bundles the router and its dependencies.
type Server struct {
	r      *chi.Mux
	deps   Deps
	cfg    *config.Config
	themed mapset.Set[string] // Primary pool, for /api/define
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Config == nil {
		d.Config = config.Load()
	}
	if d.Definer == nil {
		d.Definer = definition.Unavailable{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), deps: d, cfg: d.Config, themed: d.Words.PrimarySet()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.cors)

	// Long-lived: no timeout, no JSON default.
	s.r.Get("/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"wordhunt","endpoints":["/health","/api/levels","/api/session","/api/attempts","/api/define","/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			p, sec := len(s.deps.Words.Primary), len(s.deps.Words.Secondary)
			body := map[string]any{"ok": true, "primaryWords": p, "secondaryWords": sec}
			if db, ok := s.deps.History.(interface{ Ping(context.Context) error }); ok {
				if err := db.Ping(r.Context()); err != nil {
					body["ok"], body["db"] = false, "down"
					writeJSON(w, http.StatusServiceUnavailable, body)
					return
				}
				body["db"] = "up"
			}
			writeJSON(w, http.StatusOK, body)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/levels", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, levels.All())
			})
			r.Post("/session", s.handleNewSession)
			r.Post("/define", s.handleDefine)
			s.mountDaily(r)

			r.Group(func(r chi.Router) {
				r.Use(s.requireSession)
				r.Get("/session", s.handleSessionInfo)
				r.Get("/session/history", s.handleHistory)
				s.mountAttempts(r)
			})
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr. It returns when ctx is cancelled and
// the server has drained.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.Server.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("requestId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeGameError maps controller errors to status codes.
func writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadPointer):
		writeError(w, http.StatusBadRequest, "bad_pointer")
	case errors.Is(err, game.ErrNoAttempt):
		writeError(w, http.StatusNotFound, "no_attempt")
	case errors.Is(err, game.ErrAttemptEnded):
		writeError(w, http.StatusConflict, "attempt_ended")
	case errors.Is(err, game.ErrNoHints):
		writeError(w, http.StatusConflict, "no_hints")
	case errors.Is(err, game.ErrNothingToHint):
		writeError(w, http.StatusConflict, "nothing_to_hint")
	case errors.Is(err, levels.ErrUnknownLevel):
		writeError(w, http.StatusBadRequest, "unknown_level")
	case errors.Is(err, game.ErrSessionClosed):
		writeError(w, http.StatusGone, "session_closed")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("game error")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
