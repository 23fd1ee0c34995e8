// internal/httpserver/routes_attempts.go
//
// Attempt endpoints. All require a session (see requireSession).
//   - POST /attempts                     {level, daily} → start a level
//   - GET  /attempts/current             → snapshot of the running/last attempt
//   - POST /attempts/current/pointer     {type, row, col} → raw gesture event
//   - POST /attempts/current/trace       {path} → whole gesture in one call
//   - POST /attempts/current/hint        → spend a hint
//   - POST /attempts/current/dictionary/{action} (open|close)
//   - POST /attempts/current/abandon
//   - POST /attempts/next, /attempts/retry
//
// Every mutating endpoint answers with the new snapshot or the play result,
// so clients that cannot hold a WebSocket can still poll.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/grid"
)

// mountAttempts registers /attempts routes on a session-guarded router.
func (s *Server) mountAttempts(r chi.Router) {
	r.Route("/attempts", func(r chi.Router) {
		r.Post("/", s.handleStartAttempt)
		r.Post("/next", s.handleNext)
		r.Post("/retry", s.handleRetry)

		r.Route("/current", func(r chi.Router) {
			r.Get("/", s.handleSnapshot)
			r.Post("/pointer", s.handlePointer)
			r.Post("/trace", s.handleTrace)
			r.Post("/hint", s.handleHint)
			r.Post("/dictionary/{action}", s.handleDictionary)
			r.Post("/abandon", s.handleAbandon)
		})
	})
}

type startReq struct {
	Level int  `json:"level"`
	Daily bool `json:"daily"`
}

func (s *Server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	var p startReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	sess := sessionFrom(r)

	var (
		snap game.Snapshot
		err  error
	)
	if p.Daily {
		snap, err = sess.StartDaily(p.Level, s.dailySeed(p.Level))
	} else {
		snap, err = sess.Start(p.Level, time.Now().UnixNano())
	}
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().
		Str("session", sess.ID).
		Str("attempt", snap.ID).
		Int("level", p.Level).
		Bool("daily", p.Daily).
		Msg("attempt started")
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	snap, err := sessionFrom(r).Next()
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	snap, err := sessionFrom(r).Retry()
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := sessionFrom(r).Snapshot()
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// pointerReq is a single pointer event. Type is down, move or up.
type pointerReq struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type pointerRes struct {
	Changed bool       `json:"changed"`
	Play    *game.Play `json:"play,omitempty"`
}

// applyPointer routes one pointer event to the session. It is shared by the
// HTTP and WebSocket paths.
func applyPointer(sess *game.Session, p pointerReq) (pointerRes, error) {
	c := grid.Coord{Row: p.Row, Col: p.Col}
	switch p.Type {
	case "down":
		ok, err := sess.PointerDown(c)
		return pointerRes{Changed: ok}, err
	case "move":
		ok, err := sess.PointerMove(c)
		return pointerRes{Changed: ok}, err
	case "up":
		play, err := sess.PointerUp()
		if err != nil {
			return pointerRes{}, err
		}
		return pointerRes{Changed: play.Selected, Play: &play}, nil
	default:
		return pointerRes{}, errBadPointer
	}
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var p pointerReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	res, err := applyPointer(sessionFrom(r), p)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type traceReq struct {
	Path []grid.Coord `json:"path"`
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	var p traceReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	play, err := sessionFrom(r).Trace(p.Path)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, play)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	h, err := sessionFrom(r).Hint()
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var err error
	switch chi.URLParam(r, "action") {
	case "open":
		err = sess.OpenDictionary()
	case "close":
		err = sess.CloseDictionary()
	default:
		writeError(w, http.StatusBadRequest, "bad_action")
		return
	}
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	s.handleSnapshot(w, r)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if err := sessionFrom(r).Abandon(); err != nil {
		writeGameError(w, r, err)
		return
	}
	s.handleSnapshot(w, r)
}
