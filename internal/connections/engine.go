// internal/connections/engine.go
//
// Game engine for a single Connections puzzle.
// Responsibilities:
//   - Build the initial state from PuzzleData (cards in board position order).
//   - Reduce actions (select/deselect, shuffle, submit, reset, set-state) into a new state.
//
// Notes:
//   - Reduce never mutates its input; every call returns a fresh GameState.
//   - The random source is injected so shuffles are reproducible in tests.
//   - Once a game is over (see IsOver), SELECT_WORD and SUBMIT_GUESS are no-ops.

package connections

import (
	"math/rand/v2"
	"sort"

	"github.com/samber/lo"
)

// ActionType names a reducer action.
type ActionType string

const (
	ActionSelectWord   ActionType = "SELECT_WORD"
	ActionDeselectWord ActionType = "DESELECT_WORD"
	ActionDeselectAll  ActionType = "DESELECT_ALL"
	ActionShuffle      ActionType = "SHUFFLE"
	ActionSubmitGuess  ActionType = "SUBMIT_GUESS"
	ActionReset        ActionType = "RESET"
	ActionSetState     ActionType = "SET_STATE"
)

// Action is a single user (or hydration) event.
// Word is used by SELECT_WORD/DESELECT_WORD, State by SET_STATE.
type Action struct {
	Type  ActionType `json:"type"`
	Word  string     `json:"word,omitempty"`
	State *GameState `json:"state,omitempty"`
}

// Engine reduces actions for one puzzle.
type Engine struct {
	puzzle PuzzleData
	rng    *rand.Rand
}

// NewEngine returns an engine for p. A nil rng gets a time-seeded source.
func NewEngine(p PuzzleData, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{puzzle: p, rng: rng}
}

// Puzzle returns the puzzle the engine was created with.
func (e *Engine) Puzzle() PuzzleData { return e.puzzle }

// Initial returns the fresh state for the engine's puzzle.
func (e *Engine) Initial() GameState { return NewState(e.puzzle) }

// NewState builds the starting state: one group per category (index kept),
// every card in the pool ordered by its board position, and no guesses.
func NewState(p PuzzleData) GameState {
	groups := make([]GroupSummary, 0, len(p.Categories))
	type posCard struct {
		CardState
		pos int
	}
	var pcards []posCard
	for i, cat := range p.Categories {
		words := make([]string, 0, len(cat.Cards))
		for _, c := range cat.Cards {
			words = append(words, c.Content)
			pcards = append(pcards, posCard{CardState{Word: c.Content, GroupIndex: i}, c.Position})
		}
		groups = append(groups, GroupSummary{GroupIndex: i, Name: cat.Title, Words: words})
	}
	sort.SliceStable(pcards, func(a, b int) bool { return pcards[a].pos < pcards[b].pos })

	return GameState{
		PuzzleDate: p.PrintDate,
		Groups:     groups,
		Cards:      lo.Map(pcards, func(c posCard, _ int) CardState { return c.CardState }),
		Guesses:    []Guess{},
	}
}

// Reduce applies a to s and returns the resulting state.
// Invalid words and impossible sequences degrade to no-ops.
func (e *Engine) Reduce(s GameState, a Action) GameState {
	switch a.Type {
	case ActionSelectWord:
		if IsOver(s) || countSelected(s.Cards) >= GroupSize {
			return s.Clone()
		}
		return setSelected(s, func(c CardState) bool { return c.Word == a.Word }, true)

	case ActionDeselectWord:
		return setSelected(s, func(c CardState) bool { return c.Word == a.Word }, false)

	case ActionDeselectAll:
		return setSelected(s, func(CardState) bool { return true }, false)

	case ActionShuffle:
		return e.shuffle(s)

	case ActionSubmitGuess:
		if IsOver(s) {
			return s.Clone()
		}
		return submit(s)

	case ActionReset:
		return e.Initial()

	case ActionSetState:
		if a.State == nil {
			return s.Clone()
		}
		return a.State.Clone()
	}
	return s.Clone()
}

// shuffle repeatedly picks a uniformly random remaining card and appends it.
func (e *Engine) shuffle(s GameState) GameState {
	out := s.Clone()
	remaining := append([]CardState(nil), s.Cards...)
	cards := make([]CardState, 0, len(remaining))
	for len(remaining) > 0 {
		i := e.rng.IntN(len(remaining))
		cards = append(cards, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	out.Cards = cards
	return out
}

// submit records the selected cards as a guess. It is a no-op unless
// exactly four cards are selected. Correct guesses leave the pool.
func submit(s GameState) GameState {
	selected := lo.Filter(s.Cards, func(c CardState, _ int) bool { return c.Selected })
	if len(selected) != GroupSize {
		return s.Clone()
	}
	words := lo.Map(selected, func(c CardState, _ int) GuessWord {
		return GuessWord{Word: c.Word, GroupIndex: c.GroupIndex}
	})
	groups := lo.Uniq(lo.Map(selected, func(c CardState, _ int) int { return c.GroupIndex }))
	correct := len(groups) == 1

	out := s.Clone()
	out.Guesses = append(out.Guesses, Guess{Words: words, Correct: correct})
	if correct {
		out.Cards = lo.Reject(out.Cards, func(c CardState, _ int) bool { return c.Selected })
	}
	return out
}

func setSelected(s GameState, match func(CardState) bool, v bool) GameState {
	out := s.Clone()
	for i := range out.Cards {
		if match(out.Cards[i]) {
			out.Cards[i].Selected = v
		}
	}
	return out
}

func countSelected(cards []CardState) int {
	return lo.CountBy(cards, func(c CardState) bool { return c.Selected })
}
