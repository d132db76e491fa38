// internal/game/session.go
//
// A Session drives the Connections engine for one player and one puzzle date.
// Responsibilities:
//   - Hold the current state and replace it on every action.
//   - Hand each changed state to the SaveFunc (best effort, logged only).
//   - Track the timed "one away" hint after a near-miss guess.
//
// Notes:
//   - Hydrate overwrites whatever is in memory. If a load resolves after the
//     player already acted, those unsaved moves are lost (last-write-wins).
//   - Sessions are not safe for concurrent use; actions are applied one at a time.

package game

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
)

// Session is the engine's caller for one puzzle.
type Session struct {
	engine       *connections.Engine
	state        connections.GameState
	save         SaveFunc
	now          func() time.Time
	oneAwayUntil time.Time
}

// New validates p and starts a fresh session for it.
func New(p connections.PuzzleData, opts ...Option) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	e := connections.NewEngine(p, o.rng)
	return &Session{
		engine: e,
		state:  e.Initial(),
		save:   o.save,
		now:    o.now,
	}, nil
}

// Hydrate replaces the in-memory state with a previously persisted one.
func (s *Session) Hydrate(st connections.GameState) {
	s.state = s.engine.Reduce(s.state, connections.Action{Type: connections.ActionSetState, State: &st})
	s.oneAwayUntil = time.Time{}
}

// Dispatch applies a and persists the result if anything changed.
func (s *Session) Dispatch(ctx context.Context, a connections.Action) connections.GameState {
	prev := s.state
	next := s.engine.Reduce(prev, a)
	s.state = next

	switch {
	case a.Type == connections.ActionReset || a.Type == connections.ActionSetState:
		s.oneAwayUntil = time.Time{}
	case len(next.Guesses) > len(prev.Guesses):
		if connections.LastGuessOneAway(next) {
			s.oneAwayUntil = s.now().Add(connections.OneAwayDuration)
		} else {
			s.oneAwayUntil = time.Time{}
		}
	}

	if s.save != nil && !reflect.DeepEqual(prev, next) {
		date := s.Date()
		if err := s.save(ctx, date, next.Clone()); err != nil {
			log.Warn().Err(err).Str("date", date).Str("action", string(a.Type)).Msg("save game state")
		}
	}
	return next.Clone()
}

// State returns a copy of the current state.
func (s *Session) State() connections.GameState { return s.state.Clone() }

// Puzzle returns the puzzle being played.
func (s *Session) Puzzle() connections.PuzzleData { return s.engine.Puzzle() }

// Date is the puzzle date used as the persistence key.
func (s *Session) Date() string { return s.engine.Puzzle().PrintDate }

// Status classifies the current state.
func (s *Session) Status() connections.Status { return connections.StatusOf(s.state) }

// Over reports whether the game has been won or lost.
func (s *Session) Over() bool { return connections.IsOver(s.state) }

// OneAwayUntil is when the current "one away" hint expires (zero if none).
func (s *Session) OneAwayUntil() time.Time { return s.oneAwayUntil }

// OneAwayActive reports whether the hint should be shown at time t.
func (s *Session) OneAwayActive(t time.Time) bool {
	return !s.oneAwayUntil.IsZero() && t.Before(s.oneAwayUntil)
}
