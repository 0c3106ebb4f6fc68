package assistant

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"fleet-assistant-backend/internal/model"
)

// Sessions keeps the last few turns per conversation in memory. A session
// is dropped after idle time without a new turn.
type Sessions struct {
	mu    sync.Mutex
	items *gocache.Cache
	limit int
}

// NewSessions keeps at most limit turns per session.
func NewSessions(limit int, idle time.Duration) *Sessions {
	return &Sessions{
		items: gocache.New(idle, idle),
		limit: limit,
	}
}

// History returns a copy of the session's turns, oldest first.
func (s *Sessions) History(id string) []model.Turn {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.items.Get(id)
	if !ok {
		return nil
	}
	turns := raw.([]model.Turn)
	out := make([]model.Turn, len(turns))
	copy(out, turns)
	return out
}

// Append adds turns and trims the session to its limit.
func (s *Sessions) Append(id string, turns ...model.Turn) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []model.Turn
	if raw, ok := s.items.Get(id); ok {
		current = raw.([]model.Turn)
	}
	next := make([]model.Turn, 0, len(current)+len(turns))
	next = append(next, current...)
	next = append(next, turns...)
	s.items.SetDefault(id, lastTurns(next, s.limit))
}

// lastTurns returns the trailing n turns.
func lastTurns(turns []model.Turn, n int) []model.Turn {
	if n > 0 && len(turns) > n {
		return turns[len(turns)-n:]
	}
	return turns
}
