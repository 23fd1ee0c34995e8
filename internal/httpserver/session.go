// internal/httpserver/session.go
//
// Session identity and the session endpoints.
// A player gets a session on POST /api/session; its ID travels in an HS256
// JWT (claim "sid") set as an HttpOnly cookie and also returned in the body
// for clients that prefer Authorization: Bearer. Sessions are never
// resumed once swept, so an unknown ID is simply 401.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordhunt/internal/game"
)

const cookieName = "wordhunt_session"

// ctxSessionKey is the context key type for the resolved *game.Session.
type ctxSessionKey struct{}

func sessionFrom(r *http.Request) *game.Session {
	s, _ := r.Context().Value(ctxSessionKey{}).(*game.Session)
	return s
}

// newSession creates and registers a session wired to the server's deps.
func (s *Server) newSession(ctx context.Context) (*game.Session, error) {
	sess := game.NewSession(game.Options{
		TickInterval: s.cfg.Game.TickInterval,
		Primary:      s.deps.Words.Primary,
		Secondary:    s.deps.Words.Secondary,
		Recorder:     s.deps.Recorder,
	})
	if err := s.deps.Store.Save(ctx, sess); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

type sessionRes struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	game.Info
}

// handleNewSession starts a fresh session, dropping any previous one.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	if old, err := s.sessionIDFromToken(bearerOrCookie(r)); err == nil {
		_ = s.deps.Store.Delete(r.Context(), old)
	}

	sess, err := s.newSession(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signJWT(sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)
	hlog.FromRequest(r).Info().Str("session", sess.ID).Msg("session created")
	writeJSON(w, http.StatusCreated, sessionRes{Token: tok, Expires: exp, Info: sess.Info()})
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Info())
}

// handleHistory returns the session's ended attempts, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.deps.History.History(r.Context(), sessionFrom(r).ID, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// requireSession resolves the session token and injects the session into
// the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.resolve(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "no_session")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) resolve(r *http.Request) (*game.Session, error) {
	tok := bearerOrCookie(r)
	if tok == "" {
		tok = r.URL.Query().Get("token") // browsers cannot set headers on WebSocket upgrades
	}
	id, err := s.sessionIDFromToken(tok)
	if err != nil {
		return nil, err
	}
	return s.deps.Store.Get(r.Context(), id)
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT carrying the session ID. The token outlives
// most sessions; the store's idle sweep is what actually ends them.
func (s *Server) signJWT(sid string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.Server.JWTSecret))
	return ss, exp, err
}

func (s *Server) sessionIDFromToken(tok string) (string, error) {
	if tok == "" {
		return "", errors.New("missing token")
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Server.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("invalid token")
	}
	return sid, nil
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.cfg.IsProduction()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
