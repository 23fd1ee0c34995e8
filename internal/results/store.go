package results

import (
	"context"
	"database/sql"
	"time"

	"github.com/robalobadob/wordhunt/assets"
	"github.com/robalobadob/wordhunt/internal/game"
)

// Result is one ended attempt as stored in the log.
type Result struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"-"`
	Level        int       `json:"level"`
	Outcome      string    `json:"outcome"`
	Score        int       `json:"score"`
	PrimaryFound int       `json:"primaryFound"`
	PrimaryTotal int       `json:"primaryTotal"`
	WordsFound   int       `json:"wordsFound"`
	HintsUsed    int       `json:"hintsUsed"`
	Elapsed      int       `json:"elapsed"`
	Daily        bool      `json:"daily"`
	CreatedAt    time.Time `json:"createdAt"`
}

// timeLayout is fixed-width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Open opens dsn, applies the embedded migrations and returns a Store.
func Open(dsn string) (*Store, error) {
	db, err := OpenDB(dsn)
	if err != nil {
		return nil, err
	}
	migrations, err := assets.Migrations()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := Migrate(db, migrations); err != nil {
		db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Record(ctx context.Context, r Result) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO attempts
			(id, session_id, level, outcome, score, primary_found, primary_total,
			 words_found, hints_used, elapsed_s, daily, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Level, r.Outcome, r.Score, r.PrimaryFound, r.PrimaryTotal,
		r.WordsFound, r.HintsUsed, r.Elapsed, r.Daily, r.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

// RecordAttempt stores a game summary. It satisfies game.Recorder.
func (s *Store) RecordAttempt(ctx context.Context, sum game.Summary) error {
	return s.Record(ctx, Result{
		ID:           sum.AttemptID,
		SessionID:    sum.SessionID,
		Level:        sum.Level,
		Outcome:      string(sum.Outcome),
		Score:        sum.Score,
		PrimaryFound: sum.PrimaryFound,
		PrimaryTotal: sum.PrimaryTotal,
		WordsFound:   sum.WordsFound,
		HintsUsed:    sum.HintsUsed,
		Elapsed:      sum.Elapsed,
		Daily:        sum.Daily,
		CreatedAt:    sum.EndedAt,
	})
}

// History returns the session's attempts, newest first. Default limit is 20.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, outcome, score, primary_found, primary_total,
		       words_found, hints_used, elapsed_s, daily, created_at
		FROM attempts
		WHERE session_id=?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r       Result
			created string
		)
		if err := rows.Scan(&r.ID, &r.Level, &r.Outcome, &r.Score, &r.PrimaryFound, &r.PrimaryTotal,
			&r.WordsFound, &r.HintsUsed, &r.Elapsed, &r.Daily, &created); err != nil {
			return nil, err
		}
		r.SessionID = sessionID
		r.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Purge deletes every attempt of a session.
func (s *Store) Purge(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attempts WHERE session_id=?`, sessionID)
	return err
}
