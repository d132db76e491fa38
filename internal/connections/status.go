// internal/connections/status.go
//
// Derived views over a GameState: coarse status for list screens,
// game-over detection, mistake budget, solved groups, and the "one away" hint.

package connections

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// Status is the coarse progress of a game, as shown in list views.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// OneAwayDuration is how long the "one away" hint stays visible.
const OneAwayDuration = 5 * time.Second

// Tally counts correct and incorrect guesses.
func Tally(s GameState) (correct, incorrect int) {
	correct = lo.CountBy(s.Guesses, func(g Guess) bool { return g.Correct })
	return correct, len(s.Guesses) - correct
}

// TerminalStatus reports StatusWon or StatusLost once the game has ended,
// and ok=false while it is still playable.
func TerminalStatus(s GameState) (status Status, ok bool) {
	correct, incorrect := Tally(s)
	switch {
	case correct >= GroupCount:
		return StatusWon, true
	case incorrect >= MaxMistakes:
		return StatusLost, true
	}
	return "", false
}

// IsOver reports whether the game has been won or lost.
func IsOver(s GameState) bool {
	_, over := TerminalStatus(s)
	return over
}

// StatusOf classifies s. It is derived from the correct/incorrect tallies,
// not from the total number of guesses.
func StatusOf(s GameState) Status {
	if len(s.Guesses) == 0 {
		return StatusNotStarted
	}
	if st, ok := TerminalStatus(s); ok {
		return st
	}
	return StatusInProgress
}

// MistakesRemaining is the number of incorrect guesses still allowed.
func MistakesRemaining(s GameState) int {
	_, incorrect := Tally(s)
	return max(MaxMistakes-incorrect, 0)
}

// Selected returns the selected words in pool order.
func Selected(s GameState) []string {
	return lo.FilterMap(s.Cards, func(c CardState, _ int) (string, bool) {
		return c.Word, c.Selected
	})
}

// FoundGroups returns the solved groups in the order they were guessed.
func FoundGroups(s GameState) []GroupSummary {
	var out []GroupSummary
	for _, g := range s.Guesses {
		if !g.Correct || len(g.Words) == 0 {
			continue
		}
		idx := g.Words[0].GroupIndex
		if grp, ok := lo.Find(s.Groups, func(x GroupSummary) bool { return x.GroupIndex == idx }); ok {
			out = append(out, grp)
		}
	}
	return out
}

// OneAway reports whether g has three words from one group and one from another.
func OneAway(g Guess) bool {
	counts := lo.Values(lo.CountValuesBy(g.Words, func(w GuessWord) int { return w.GroupIndex }))
	slices.Sort(counts)
	return slices.Equal(counts, []int{1, 3})
}

// LastGuessOneAway applies OneAway to the most recent guess, if any.
func LastGuessOneAway(s GameState) bool {
	if len(s.Guesses) == 0 {
		return false
	}
	return OneAway(s.Guesses[len(s.Guesses)-1])
}
