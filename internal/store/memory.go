// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Sessions are ephemeral: they live until they go idle for longer than the
// TTL and are then closed and dropped. Nothing is restored on restart.
//
// Characteristics:
//   - Stores *game.Session objects keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sweep closes idle sessions and hands their IDs to an optional purge
//     hook so attached data (the attempt log) goes with them.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/game"
)

// ErrNotFound is returned by Get for unknown or swept sessions.
var ErrNotFound = errors.New("session not found")

// Store defines the registry of live sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete closes and removes a session.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions idle since before cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) int
}

// PurgeFunc is called with the ID of every swept or deleted session.
type PurgeFunc func(ctx context.Context, sessionID string) error

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
	purge    PurgeFunc
}

// NewMemoryStore constructs a new in-memory Store. purge may be nil.
func NewMemoryStore(purge PurgeFunc) Store {
	return &memory{sessions: make(map[string]*game.Session), purge: purge}
}

// Save adds or replaces the session in the map.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Delete closes the session and purges its data.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	m.drop(ctx, s)
	return nil
}

// Sweep drops every session whose last activity is before cutoff.
func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	var stale []*game.Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		m.drop(ctx, s)
	}
	if len(stale) > 0 {
		log.Info().Int("swept", len(stale)).Msg("idle sessions removed")
	}
	return len(stale)
}

func (m *memory) drop(ctx context.Context, s *game.Session) {
	s.Close()
	if m.purge == nil {
		return
	}
	if err := m.purge(ctx, s.ID); err != nil {
		log.Error().Err(err).Str("session", s.ID).Msg("purge session data")
	}
}

// RunSweeper sweeps every interval until ctx is done.
func RunSweeper(ctx context.Context, st Store, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			st.Sweep(ctx, now.Add(-ttl))
		}
	}
}
