// internal/game/types.go
//
// Type definitions for a play session.
// Defines:
//   - SaveFunc: the persistence bridge, called after each state change.
//   - Option: functional options for New (random source, clock, saver).

package game

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
)

// SaveFunc persists a state for a puzzle date. Failures are logged by the
// session and never returned to the player.
type SaveFunc func(ctx context.Context, date string, s connections.GameState) error

// Option configures a Session.
type Option func(*options)

type options struct {
	rng  *rand.Rand
	now  func() time.Time
	save SaveFunc
}

// WithRand sets the random source used for shuffles.
func WithRand(rng *rand.Rand) Option { return func(o *options) { o.rng = rng } }

// WithClock overrides time.Now (used for the "one away" window).
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithSaver installs the persistence bridge.
func WithSaver(fn SaveFunc) Option { return func(o *options) { o.save = fn } }
