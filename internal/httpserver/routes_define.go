// internal/httpserver/routes_define.go
//
// POST /api/define {word} → {word, definition, themed, success}
// Thin proxy to the configured definition backend. Lookups never touch a
// running attempt; pausing the clock is the client's job (dictionary/open).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordhunt/internal/definition"
)

type defineReq struct {
	Word string `json:"word"`
}

type defineRes struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Themed     bool   `json:"themed"`
	Success    bool   `json:"success"`
}

func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	var p defineReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()
	def, err := s.deps.Definer.Define(ctx, p.Word)
	switch {
	case err == nil:
	case errors.Is(err, definition.ErrEmptyWord), errors.Is(err, definition.ErrInvalidWord):
		writeError(w, http.StatusBadRequest, "invalid_word")
		return
	case errors.Is(err, definition.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "definitions_unavailable")
		return
	default:
		hlog.FromRequest(r).Warn().Err(err).Str("word", p.Word).Msg("definition lookup failed")
		writeError(w, http.StatusBadGateway, "lookup_failed")
		return
	}

	word, _ := definition.Normalize(p.Word)
	writeJSON(w, http.StatusOK, defineRes{
		Word:       word,
		Definition: def,
		Themed:     s.themed.Has(word),
		Success:    true,
	})
}
