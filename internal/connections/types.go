// internal/connections/types.go
//
// Core type definitions for the Connections grouping puzzle.
// Defines:
//   - PuzzleData / Category / Card: one day's puzzle as served by the provider.
//   - GameState and its parts: groups, the card pool, and the guess log.
//   - Validate: ingestion check for the 4x4 shape the engine relies on.

package connections

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// GroupCount is the number of categories in every puzzle.
	GroupCount = 4
	// GroupSize is the number of cards per category (and per guess).
	GroupSize = 4
	// MaxMistakes is the number of incorrect guesses that ends a game.
	MaxMistakes = 4
)

var (
	ErrPuzzleShape       = errors.New("puzzle must have 4 categories of 4 cards")
	ErrDuplicateWord     = errors.New("puzzle has duplicate or empty card words")
	ErrDuplicatePosition = errors.New("puzzle has duplicate card positions")
)

// Card is a single word tile. Position orders the tile across the whole board.
type Card struct {
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// Category is one of the four solution groups.
type Category struct {
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

// PuzzleData is the immutable description of one day's puzzle.
// Field names follow the provider's JSON.
type PuzzleData struct {
	Status     string     `json:"status,omitempty"`
	ID         int        `json:"id"`
	PrintDate  string     `json:"print_date"`
	Editor     string     `json:"editor"`
	Categories []Category `json:"categories"`
}

// Validate rejects puzzles the engine cannot play: anything other than
// 4 categories of 4 cards, empty or repeated words, or repeated positions.
func (p PuzzleData) Validate() error {
	if len(p.Categories) != GroupCount {
		return fmt.Errorf("%w: got %d categories", ErrPuzzleShape, len(p.Categories))
	}
	words := make(map[string]struct{}, GroupCount*GroupSize)
	positions := make(map[int]struct{}, GroupCount*GroupSize)
	for i, cat := range p.Categories {
		if len(cat.Cards) != GroupSize {
			return fmt.Errorf("%w: category %d has %d cards", ErrPuzzleShape, i, len(cat.Cards))
		}
		for _, c := range cat.Cards {
			w := strings.TrimSpace(c.Content)
			if w == "" {
				return fmt.Errorf("%w: category %d has an empty card", ErrDuplicateWord, i)
			}
			if _, dup := words[w]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateWord, w)
			}
			words[w] = struct{}{}
			if _, dup := positions[c.Position]; dup {
				return fmt.Errorf("%w: %d", ErrDuplicatePosition, c.Position)
			}
			positions[c.Position] = struct{}{}
		}
	}
	return nil
}

// GroupSummary is a category as exposed for rendering a found group.
// GroupIndex matches the category's index in PuzzleData.Categories.
type GroupSummary struct {
	GroupIndex int      `json:"groupIndex"`
	Name       string   `json:"name"`
	Words      []string `json:"words"`
}

// CardState is a card still in the pool.
type CardState struct {
	Word       string `json:"word"`
	GroupIndex int    `json:"groupIndex"`
	Selected   bool   `json:"selected"`
}

// GuessWord is one word of a submitted guess, tagged with its true group.
type GuessWord struct {
	Word       string `json:"word"`
	GroupIndex int    `json:"groupIndex"`
}

// Guess is one submitted set of four words. Correct iff all share a group.
type Guess struct {
	Words   []GuessWord `json:"words"`
	Correct bool        `json:"correct"`
}

// GameState is a snapshot of one player's progress on one puzzle date.
// It is replaced, never mutated, by the engine.
type GameState struct {
	PuzzleDate string         `json:"puzzleDate"`
	Groups     []GroupSummary `json:"groups"`
	Cards      []CardState    `json:"cards"`
	Guesses    []Guess        `json:"guesses"`
}

// Clone returns a deep copy of s.
func (s GameState) Clone() GameState {
	out := GameState{
		PuzzleDate: s.PuzzleDate,
		Groups:     make([]GroupSummary, len(s.Groups)),
		Cards:      make([]CardState, len(s.Cards)),
		Guesses:    make([]Guess, len(s.Guesses)),
	}
	for i, g := range s.Groups {
		g.Words = append([]string(nil), g.Words...)
		out.Groups[i] = g
	}
	copy(out.Cards, s.Cards)
	for i, g := range s.Guesses {
		g.Words = append([]GuessWord(nil), g.Words...)
		out.Guesses[i] = g
	}
	return out
}
