package connections

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fixturePuzzle has groups A=[w1..w4], B=[w5..w8], C=[w9..w12], D=[w13..w16].
// Board positions are scrambled (idx*7 mod 16) so the initial order differs
// from category order.
func fixturePuzzle() PuzzleData {
	p := PuzzleData{Status: "OK", ID: 1, PrintDate: "2024-06-01", Editor: "Wyna Liu"}
	for i := 0; i < GroupCount; i++ {
		cat := Category{Title: fmt.Sprintf("group %c", 'A'+i)}
		for j := 0; j < GroupSize; j++ {
			idx := i*GroupSize + j
			cat.Cards = append(cat.Cards, Card{Content: fmt.Sprintf("w%d", idx+1), Position: idx * 7 % 16})
		}
		p.Categories = append(p.Categories, cat)
	}
	return p
}

func newTestEngine(seed uint64) *Engine {
	return NewEngine(fixturePuzzle(), rand.New(rand.NewPCG(seed, 1024)))
}

func play(e *Engine, s GameState, actions ...Action) GameState {
	for _, a := range actions {
		s = e.Reduce(s, a)
	}
	return s
}

func selectWords(words ...string) []Action {
	out := make([]Action, 0, len(words))
	for _, w := range words {
		out = append(out, Action{Type: ActionSelectWord, Word: w})
	}
	return out
}

func guessWith(words ...string) []Action {
	return append(selectWords(words...), Action{Type: ActionSubmitGuess}, Action{Type: ActionDeselectAll})
}

func poolWords(s GameState) []string {
	out := make([]string, 0, len(s.Cards))
	for _, c := range s.Cards {
		out = append(out, c.Word)
	}
	return out
}

func TestNewState(t *testing.T) {
	p := fixturePuzzle()
	s := NewState(p)

	if len(s.Cards) != 16 {
		t.Fatalf("cards = %d, want 16", len(s.Cards))
	}
	if len(s.Groups) != 4 {
		t.Fatalf("groups = %d, want 4", len(s.Groups))
	}
	if s.Guesses == nil || len(s.Guesses) != 0 {
		t.Errorf("guesses = %#v, want empty", s.Guesses)
	}
	if s.PuzzleDate != p.PrintDate {
		t.Errorf("puzzleDate = %q, want %q", s.PuzzleDate, p.PrintDate)
	}

	pos := map[string]int{}
	group := map[string]int{}
	for i, cat := range p.Categories {
		for _, c := range cat.Cards {
			pos[c.Content] = c.Position
			group[c.Content] = i
		}
	}
	for i, c := range s.Cards {
		if c.Selected {
			t.Errorf("card %q starts selected", c.Word)
		}
		if c.GroupIndex != group[c.Word] {
			t.Errorf("card %q group = %d, want %d", c.Word, c.GroupIndex, group[c.Word])
		}
		if i > 0 && pos[s.Cards[i-1].Word] >= pos[c.Word] {
			t.Errorf("cards not in position order at %d: %v", i, poolWords(s))
		}
	}
	for i, g := range s.Groups {
		if g.GroupIndex != i || g.Name != p.Categories[i].Title {
			t.Errorf("group %d = %+v", i, g)
		}
	}
	if diff := cmp.Diff(NewState(p), s); diff != "" {
		t.Errorf("NewState not deterministic (-want +got):\n%s", diff)
	}
}

func TestPuzzleData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *PuzzleData)
		wantErr error
	}{
		{"valid", func(p *PuzzleData) {}, nil},
		{"three categories", func(p *PuzzleData) { p.Categories = p.Categories[:3] }, ErrPuzzleShape},
		{"five cards", func(p *PuzzleData) {
			p.Categories[2].Cards = append(p.Categories[2].Cards, Card{Content: "extra", Position: 99})
		}, ErrPuzzleShape},
		{"duplicate word", func(p *PuzzleData) { p.Categories[3].Cards[0].Content = "w1" }, ErrDuplicateWord},
		{"empty word", func(p *PuzzleData) { p.Categories[1].Cards[2].Content = "  " }, ErrDuplicateWord},
		{"duplicate position", func(p *PuzzleData) {
			p.Categories[1].Cards[0].Position = p.Categories[0].Cards[0].Position
		}, ErrDuplicatePosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fixturePuzzle()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReduce_SelectWord(t *testing.T) {
	e := newTestEngine(1)
	s0 := e.Initial()

	once := play(e, s0, selectWords("w3")...)
	twice := play(e, s0, selectWords("w3", "w3")...)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("select not idempotent (-once +twice):\n%s", diff)
	}
	if got := Selected(once); !cmp.Equal(got, []string{"w3"}) {
		t.Errorf("selected = %v, want [w3]", got)
	}
	if len(Selected(s0)) != 0 {
		t.Errorf("input state was mutated: %v", Selected(s0))
	}

	capped := play(e, s0, selectWords("w1", "w5", "w9", "w13", "w2", "w6")...)
	if n := len(Selected(capped)); n != 4 {
		t.Errorf("selected count = %d, want 4", n)
	}
	for _, w := range []string{"w2", "w6"} {
		for _, c := range capped.Cards {
			if c.Word == w && c.Selected {
				t.Errorf("%s selected past the cap", w)
			}
		}
	}

	unknown := play(e, s0, selectWords("nope")...)
	if diff := cmp.Diff(s0, unknown); diff != "" {
		t.Errorf("unknown word changed state (-want +got):\n%s", diff)
	}
}

func TestReduce_Deselect(t *testing.T) {
	e := newTestEngine(1)
	s := play(e, e.Initial(), selectWords("w1", "w2", "w3")...)

	s = e.Reduce(s, Action{Type: ActionDeselectWord, Word: "w2"})
	if got := Selected(s); !cmp.Equal(got, []string{"w1", "w3"}) && !cmp.Equal(got, []string{"w3", "w1"}) {
		t.Errorf("selected = %v, want w1 and w3", got)
	}

	again := e.Reduce(s, Action{Type: ActionDeselectWord, Word: "w2"})
	if diff := cmp.Diff(s, again); diff != "" {
		t.Errorf("deselecting an unselected word changed state:\n%s", diff)
	}
	missing := e.Reduce(s, Action{Type: ActionDeselectWord, Word: "zzz"})
	if diff := cmp.Diff(s, missing); diff != "" {
		t.Errorf("deselecting a missing word changed state:\n%s", diff)
	}

	s = e.Reduce(s, Action{Type: ActionDeselectAll})
	if n := len(Selected(s)); n != 0 {
		t.Errorf("selected after DESELECT_ALL = %d", n)
	}
}

func TestReduce_Shuffle(t *testing.T) {
	e := newTestEngine(42)
	s := play(e, e.Initial(), guessWith("w1", "w2", "w3", "w5")...)
	s = play(e, s, selectWords("w9", "w10")...)

	shuffled := e.Reduce(s, Action{Type: ActionShuffle})

	key := func(c CardState) string { return fmt.Sprintf("%s/%d/%t", c.Word, c.GroupIndex, c.Selected) }
	count := map[string]int{}
	for _, c := range s.Cards {
		count[key(c)]++
	}
	for _, c := range shuffled.Cards {
		count[key(c)]--
	}
	for k, n := range count {
		if n != 0 {
			t.Errorf("card %s count changed by %d", k, -n)
		}
	}
	if diff := cmp.Diff(s.Groups, shuffled.Groups); diff != "" {
		t.Errorf("shuffle changed groups:\n%s", diff)
	}
	if diff := cmp.Diff(s.Guesses, shuffled.Guesses); diff != "" {
		t.Errorf("shuffle changed guesses:\n%s", diff)
	}

	a := newTestEngine(7).Reduce(s, Action{Type: ActionShuffle})
	b := newTestEngine(7).Reduce(s, Action{Type: ActionShuffle})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different shuffles:\n%s", diff)
	}
}

func TestReduce_ShuffleReachesEveryPermutation(t *testing.T) {
	e := newTestEngine(99)
	s := GameState{Cards: []CardState{{Word: "a"}, {Word: "b"}, {Word: "c"}, {Word: "d"}}, Guesses: []Guess{}}

	seen := map[string]int{}
	const rounds = 24000
	for i := 0; i < rounds; i++ {
		seen[strings.Join(poolWords(e.Reduce(s, Action{Type: ActionShuffle})), "")]++
	}
	if len(seen) != 24 {
		t.Fatalf("reached %d permutations, want 24", len(seen))
	}
	// Expect ~1000 each; allow generous slack.
	for perm, n := range seen {
		if n < 800 || n > 1200 {
			t.Errorf("permutation %s seen %d times, expected about %d", perm, n, rounds/24)
		}
	}
}

func TestReduce_SubmitGuess(t *testing.T) {
	e := newTestEngine(1)
	s0 := e.Initial()

	t.Run("fewer than four selected", func(t *testing.T) {
		s := play(e, s0, selectWords("w1", "w2", "w3")...)
		got := e.Reduce(s, Action{Type: ActionSubmitGuess})
		if diff := cmp.Diff(s, got); diff != "" {
			t.Errorf("submit with 3 selected changed state:\n%s", diff)
		}
	})

	t.Run("correct", func(t *testing.T) {
		s := play(e, s0, selectWords("w5", "w6", "w7", "w8")...)
		got := e.Reduce(s, Action{Type: ActionSubmitGuess})
		if len(got.Guesses) != 1 || !got.Guesses[0].Correct {
			t.Fatalf("guesses = %+v, want one correct", got.Guesses)
		}
		for _, w := range got.Guesses[0].Words {
			if w.GroupIndex != 1 {
				t.Errorf("guess word %+v, want group 1", w)
			}
		}
		if len(got.Cards) != 12 {
			t.Fatalf("pool = %d, want 12", len(got.Cards))
		}
		for _, c := range got.Cards {
			if c.GroupIndex == 1 {
				t.Errorf("%s still in pool", c.Word)
			}
		}
	})

	t.Run("incorrect", func(t *testing.T) {
		s := play(e, s0, selectWords("w1", "w2", "w3", "w16")...)
		got := e.Reduce(s, Action{Type: ActionSubmitGuess})
		if len(got.Guesses) != 1 || got.Guesses[0].Correct {
			t.Fatalf("guesses = %+v, want one incorrect", got.Guesses)
		}
		if diff := cmp.Diff(s.Cards, got.Cards); diff != "" {
			t.Errorf("incorrect guess changed the pool:\n%s", diff)
		}
	})
}

func TestReduce_EndToEnd(t *testing.T) {
	e := newTestEngine(3)
	s := play(e, e.Initial(), selectWords("w1", "w2", "w3", "w4")...)
	s = e.Reduce(s, Action{Type: ActionSubmitGuess})

	wantFirst := Guess{Correct: true}
	for _, w := range Selected(play(e, e.Initial(), selectWords("w1", "w2", "w3", "w4")...)) {
		wantFirst.Words = append(wantFirst.Words, GuessWord{Word: w, GroupIndex: 0})
	}
	if diff := cmp.Diff([]Guess{wantFirst}, s.Guesses); diff != "" {
		t.Fatalf("guesses (-want +got):\n%s", diff)
	}
	if len(s.Cards) != 12 {
		t.Fatalf("pool = %d, want 12", len(s.Cards))
	}
	for _, c := range s.Cards {
		if c.GroupIndex == 0 {
			t.Errorf("group 0 card %s left in pool", c.Word)
		}
	}

	s = play(e, s, selectWords("w5", "w6", "w7", "w9")...)
	s = e.Reduce(s, Action{Type: ActionSubmitGuess})
	if len(s.Guesses) != 2 || s.Guesses[1].Correct {
		t.Fatalf("second guess = %+v, want incorrect", s.Guesses)
	}
	if len(s.Cards) != 12 || len(Selected(s)) != 4 {
		t.Fatalf("pool = %d selected = %d, want 12 and 4", len(s.Cards), len(Selected(s)))
	}
	if !LastGuessOneAway(s) {
		t.Error("w5,w6,w7,w9 should be one away")
	}
	s = e.Reduce(s, Action{Type: ActionDeselectAll})
	if len(Selected(s)) != 0 {
		t.Error("selection survived DESELECT_ALL")
	}
}

func TestReduce_Reset(t *testing.T) {
	e := newTestEngine(5)
	s := play(e, e.Initial(), guessWith("w1", "w2", "w3", "w4")...)
	s = play(e, s, guessWith("w5", "w9", "w13", "w6")...)
	s = play(e, s, Action{Type: ActionShuffle}, Action{Type: ActionShuffle})
	s = play(e, s, selectWords("w10")...)

	got := e.Reduce(s, Action{Type: ActionReset})
	if diff := cmp.Diff(NewState(fixturePuzzle()), got); diff != "" {
		t.Errorf("reset (-want +got):\n%s", diff)
	}
}

func TestReduce_SetState(t *testing.T) {
	e := newTestEngine(5)
	saved := play(e, e.Initial(), guessWith("w13", "w14", "w15", "w16")...)

	got := e.Reduce(e.Initial(), Action{Type: ActionSetState, State: &saved})
	if diff := cmp.Diff(saved, got); diff != "" {
		t.Errorf("set state (-want +got):\n%s", diff)
	}
	got.Cards[0].Selected = true
	if saved.Cards[0].Selected {
		t.Error("SET_STATE result aliases the supplied state")
	}

	s0 := e.Initial()
	if diff := cmp.Diff(s0, e.Reduce(s0, Action{Type: ActionSetState})); diff != "" {
		t.Errorf("nil SET_STATE changed state:\n%s", diff)
	}
	if diff := cmp.Diff(s0, e.Reduce(s0, Action{Type: "BOGUS"})); diff != "" {
		t.Errorf("unknown action changed state:\n%s", diff)
	}
}

func TestReduce_NoMovesAfterGameOver(t *testing.T) {
	e := newTestEngine(5)
	s := e.Initial()
	for _, odd := range []string{"w5", "w6", "w7", "w8"} {
		s = play(e, s, guessWith("w1", "w2", "w3", odd)...)
	}
	if st := StatusOf(s); st != StatusLost {
		t.Fatalf("status = %s, want lost", st)
	}

	after := play(e, s, selectWords("w9", "w10", "w11", "w12")...)
	after = e.Reduce(after, Action{Type: ActionSubmitGuess})
	if diff := cmp.Diff(s, after); diff != "" {
		t.Errorf("moves accepted after game over:\n%s", diff)
	}

	// Reset is still allowed.
	if got := e.Reduce(s, Action{Type: ActionReset}); len(got.Guesses) != 0 {
		t.Errorf("reset after loss kept %d guesses", len(got.Guesses))
	}
}
