package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pinsetter/pinsetter/pkg/bowling"
)

// ErrLaneNotFound is returned by View for an unknown lane ID.
var ErrLaneNotFound = errors.New("lane not found")

// Lane is a point-in-time copy of one lane's game.
type Lane struct {
	ID          string              `json:"id"`
	ActiveFrame int                 `json:"active_frame"`
	Standing    int                 `json:"standing"`
	Complete    bool                `json:"complete"`
	FinalScore  *int                `json:"final_score,omitempty"`
	Frames      []bowling.FrameView `json:"frames"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type entry struct {
	game      *bowling.Game
	updatedAt time.Time
}

// Store is a thread-safe in-memory lane store keyed by lane ID.
type Store struct {
	mu    sync.Mutex
	lanes map[string]*entry
	ttl   time.Duration
	now   func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		lanes: make(map[string]*entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create opens a new game on a lane with a generated ID.
func (s *Store) Create() Lane {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &entry{game: bowling.New(), updatedAt: s.now()}
	s.lanes[id] = e
	slog.Debug("store: lane created", "lane", id)
	return snapshot(id, e)
}

// Update runs fn on the game for id, starting a new game if the lane has none.
// The lane's timestamp is refreshed even when fn fails, and the returned Lane
// always reflects the game after fn ran.
func (s *Store) Update(id string, fn func(*bowling.Game) error) (Lane, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lanes[id]
	if !ok {
		e = &entry{game: bowling.New()}
		s.lanes[id] = e
		slog.Debug("store: lane created", "lane", id)
	}
	err := fn(e.game)
	e.updatedAt = s.now()
	return snapshot(id, e), err
}

// View runs fn on the game for id without refreshing its timestamp. fn must
// not keep the game after it returns.
func (s *Store) View(id string, fn func(*bowling.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lanes[id]
	if !ok {
		return fmt.Errorf("lane %q: %w", id, ErrLaneNotFound)
	}
	return fn(e.game)
}

// Get returns a snapshot of lane id and whether it exists.
func (s *Store) Get(id string) (Lane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lanes[id]
	if !ok {
		return Lane{}, false
	}
	return snapshot(id, e), true
}

// Reset replaces the game on lane id with a fresh one.
func (s *Store) Reset(id string) Lane {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &entry{game: bowling.New(), updatedAt: s.now()}
	s.lanes[id] = e
	return snapshot(id, e)
}

// Delete removes lane id and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lanes[id]
	delete(s.lanes, id)
	return ok
}

// List returns snapshots of all lanes updated within the TTL, ordered by ID.
// Stale lanes that have not yet been evicted are excluded.
func (s *Store) List() []Lane {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	out := make([]Lane, 0, len(s.lanes))
	for id, e := range s.lanes {
		if e.updatedAt.After(cutoff) {
			out = append(out, snapshot(id, e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of lanes held, including stale ones.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lanes)
}

// Evict removes lanes whose last update is older than now minus TTL.
// It returns the number of lanes removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for id, e := range s.lanes {
		if !e.updatedAt.After(cutoff) {
			delete(s.lanes, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL
// (minimum 1 second) and blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := max(s.ttl/2, time.Second)
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted idle lanes", "count", n)
			}
		}
	}
}

// snapshot must be called with s.mu held.
func snapshot(id string, e *entry) Lane {
	l := Lane{
		ID:          id,
		ActiveFrame: e.game.ActiveFrame(),
		Standing:    e.game.Standing(),
		Complete:    e.game.Complete(),
		Frames:      e.game.Frames(),
		UpdatedAt:   e.updatedAt,
	}
	if final, err := e.game.FinalScore(); err == nil {
		l.FinalScore = &final
	}
	return l
}
