package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
	"github.com/robalobadob/puzzles/apps/go-server/internal/game"
)

const boardKeys = "←↑↓→ move · space select · enter submit · s shuffle · c clear · r reset · q quit"

// hintExpired re-renders the board once the "one away" window closes.
type hintExpired struct{}

// board is the interactive bubbletea model over a game session.
type board struct {
	ctx    context.Context
	sess   *game.Session
	cursor int
	now    func() time.Time
}

func newBoard(ctx context.Context, sess *game.Session) board {
	return board{ctx: ctx, sess: sess, now: time.Now}
}

func (m board) Init() tea.Cmd { return nil }

func (m board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	cards := m.sess.State().Cards

	var a connections.Action
	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "left", "h":
		m.cursor--
	case "right", "l":
		m.cursor++
	case "up", "k":
		m.cursor -= 4
	case "down", "j":
		m.cursor += 4
	case " ", "space", "x":
		if m.cursor < len(cards) {
			a = connections.Action{Type: connections.ActionSelectWord, Word: cards[m.cursor].Word}
			if cards[m.cursor].Selected {
				a.Type = connections.ActionDeselectWord
			}
		}
	case "enter":
		a.Type = connections.ActionSubmitGuess
	case "s":
		a.Type = connections.ActionShuffle
	case "c":
		a.Type = connections.ActionDeselectAll
	case "r":
		a.Type = connections.ActionReset
	}

	var cmd tea.Cmd
	if a.Type != "" {
		m.sess.Dispatch(m.ctx, a)
		if a.Type == connections.ActionSubmitGuess && m.sess.OneAwayActive(m.now()) {
			cmd = tea.Tick(connections.OneAwayDuration, func(time.Time) tea.Msg { return hintExpired{} })
		}
	}
	m.cursor = clamp(m.cursor, 0, len(m.sess.State().Cards)-1)
	return m, cmd
}

func (m board) View() string {
	return renderBoard(m.sess.State(), m.sess.OneAwayActive(m.now()), m.cursor) + "\n" + styleSubtle.Render(boardKeys) + "\n"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
