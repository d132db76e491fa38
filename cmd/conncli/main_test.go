package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
	"github.com/robalobadob/puzzles/apps/go-server/internal/game"
	"github.com/robalobadob/puzzles/apps/go-server/internal/store"
)

func testPuzzle() connections.PuzzleData {
	p := connections.PuzzleData{Status: "OK", ID: 1, PrintDate: "2024-03-01"}
	for g := 0; g < 4; g++ {
		cat := connections.Category{Title: fmt.Sprintf("Group %d", g)}
		for i := 0; i < 4; i++ {
			cat.Cards = append(cat.Cards, connections.Card{Content: fmt.Sprintf("Word%d%d", g, i), Position: g*4 + i})
		}
		p.Categories = append(p.Categories, cat)
	}
	return p
}

func TestParseCommand(t *testing.T) {
	st := connections.NewState(testPuzzle())
	tests := []struct {
		line    string
		want    command
		wantErr bool
	}{
		{"s word00", command{kind: cmdAction, action: connections.Action{Type: connections.ActionSelectWord, Word: "Word00"}}, false},
		{"  select   WORD13 ", command{kind: cmdAction, action: connections.Action{Type: connections.ActionSelectWord, Word: "Word13"}}, false},
		{"d Word21", command{kind: cmdAction, action: connections.Action{Type: connections.ActionDeselectWord, Word: "Word21"}}, false},
		{"clear", command{kind: cmdAction, action: connections.Action{Type: connections.ActionDeselectAll}}, false},
		{"SHUFFLE", command{kind: cmdAction, action: connections.Action{Type: connections.ActionShuffle}}, false},
		{"submit", command{kind: cmdAction, action: connections.Action{Type: connections.ActionSubmitGuess}}, false},
		{"reset", command{kind: cmdAction, action: connections.Action{Type: connections.ActionReset}}, false},
		{"", command{kind: cmdNone}, false},
		{"help", command{kind: cmdHelp}, false},
		{"q", command{kind: cmdQuit}, false},
		{"s", command{}, true},
		{"s nope", command{}, true},
		{"jump", command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line, st)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCommand(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(command{})); diff != "" {
				t.Errorf("parseCommand(%q) (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestPlay_SolvesGroupAndSaves(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	sess, err := game.New(testPuzzle(), game.WithSaver(func(ctx context.Context, date string, s connections.GameState) error {
		return st.Save(ctx, owner, date, s)
	}))
	if err != nil {
		t.Fatal(err)
	}

	in := strings.NewReader("s word10\ns word11\ns word12\ns word13\nsubmit\nq\n")
	var out bytes.Buffer
	play(ctx, sess, in, &out)

	saved, err := st.Load(ctx, owner, "2024-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Guesses) != 1 || !saved.Guesses[0].Correct {
		t.Fatalf("saved guesses = %+v", saved.Guesses)
	}
	if len(saved.Cards) != 12 {
		t.Errorf("cards left = %d, want 12", len(saved.Cards))
	}
	if !strings.Contains(out.String(), "GROUP 1") {
		t.Errorf("solved group not rendered:\n%s", out.String())
	}
}

func TestPrintList(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	won := connections.GameState{PuzzleDate: "2024-03-01"}
	for i := 0; i < 4; i++ {
		won.Guesses = append(won.Guesses, connections.Guess{Correct: true})
	}
	if err := st.Save(ctx, owner, "2024-03-01", won); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := printList(ctx, &out, st, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), 3); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "2024-03-02") || !strings.Contains(lines[0], "not-started") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2024-03-01") || !strings.Contains(lines[1], "won") {
		t.Errorf("line 1 = %q", lines[1])
	}
}
