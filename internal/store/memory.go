// internal/store/memory.go
//
// Persistence for Connections game states, keyed by owner and puzzle date.
// Writes are last-write-wins per key; there are no transactions beyond that.
//
// This file holds the Store interface and an in-memory implementation used in
// tests and when durability is not required:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - States are deep-copied on the way in and out.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
)

// ErrNotFound is returned by Load when no state is saved for the key.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game states.
type Store interface {
	// Load returns the saved state for owner and date, or ErrNotFound.
	Load(ctx context.Context, owner, date string) (connections.GameState, error)

	// Save stores s, replacing any previous state for the key.
	Save(ctx context.Context, owner, date string, s connections.GameState) error

	// List returns the saved states among dates. Missing dates are omitted.
	List(ctx context.Context, owner string, dates []string) (map[string]connections.GameState, error)

	// All returns every saved state for owner, keyed by date.
	All(ctx context.Context, owner string) (map[string]connections.GameState, error)

	// Claim moves from's states to owner to, keeping any state to already has.
	Claim(ctx context.Context, from, to string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex                                // guards states
	states map[string]map[string]connections.GameState // owner -> date -> state
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{states: make(map[string]map[string]connections.GameState)}
}

func (m *memory) Load(ctx context.Context, owner, date string) (connections.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.states[owner][date]; ok {
		return s.Clone(), nil
	}
	return connections.GameState{}, ErrNotFound
}

func (m *memory) Save(ctx context.Context, owner, date string, s connections.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states[owner] == nil {
		m.states[owner] = make(map[string]connections.GameState)
	}
	m.states[owner][date] = s.Clone()
	return nil
}

func (m *memory) List(ctx context.Context, owner string, dates []string) (map[string]connections.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]connections.GameState, len(dates))
	for _, d := range dates {
		if s, ok := m.states[owner][d]; ok {
			out[d] = s.Clone()
		}
	}
	return out, nil
}

func (m *memory) All(ctx context.Context, owner string) (map[string]connections.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]connections.GameState, len(m.states[owner]))
	for d, s := range m.states[owner] {
		out[d] = s.Clone()
	}
	return out, nil
}

func (m *memory) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states[to] == nil {
		m.states[to] = make(map[string]connections.GameState)
	}
	for d, s := range m.states[from] {
		if _, ok := m.states[to][d]; !ok {
			m.states[to][d] = s
		}
	}
	delete(m.states, from)
	return nil
}
