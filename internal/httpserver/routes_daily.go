// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Every level has one grid per UTC day, derived from date + salt, so all
// players see the same board. Starting a daily attempt goes through
// POST /api/attempts with {"daily": true}; this file exposes the calendar:
//   - GET /daily → today's date key and when it rolls over
//
// Daily attempts obey the same unlock rules as normal ones.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordhunt/internal/daily"
	"github.com/robalobadob/wordhunt/internal/levels"
)

// dailyRes is returned by GET /daily.
type dailyRes struct {
	Date     string    `json:"date"`
	ResetsAt time.Time `json:"resetsAt"`
	Levels   int       `json:"levels"`
}

// mountDaily registers the /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := s.deps.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	writeJSON(w, http.StatusOK, dailyRes{
		Date:     daily.DateKey(now),
		ResetsAt: midnight,
		Levels:   levels.Count(),
	})
}

// dailySeed returns today's seed for level.
func (s *Server) dailySeed(level int) int64 {
	return daily.Seed(s.deps.Now(), s.cfg.Game.DailySalt, level)
}
