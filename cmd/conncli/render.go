package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
)

// Group colours follow the difficulty order of the published game.
var groupColors = []lipgloss.Color{"220", "71", "75", "135"}

var (
	styleCard     = lipgloss.NewStyle().Width(14).Align(lipgloss.Center).Border(lipgloss.RoundedBorder())
	styleSelected = styleCard.Reverse(true).Bold(true)
	styleCursor   = lipgloss.Color("14")
	styleHeader   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleWon      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleLost     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleHint     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func groupStyle(idx int) lipgloss.Style {
	c := groupColors[idx%len(groupColors)]
	return lipgloss.NewStyle().Width(4*16).Align(lipgloss.Center).Background(c).Foreground(lipgloss.Color("0")).Padding(0, 1)
}

// renderBoard draws solved groups, the remaining cards and the mistake counter.
// cursor is the highlighted card index, or -1 for none.
func renderBoard(st connections.GameState, oneAway bool, cursor int) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Connections " + st.PuzzleDate))
	b.WriteString("\n\n")

	for _, g := range connections.FoundGroups(st) {
		line := strings.ToUpper(g.Name) + "\n" + strings.Join(g.Words, ", ")
		b.WriteString(groupStyle(g.GroupIndex).Render(line))
		b.WriteString("\n")
	}

	for row := 0; row*4 < len(st.Cards); row++ {
		end := min(row*4+4, len(st.Cards))
		cells := make([]string, 0, 4)
		for i, c := range st.Cards[row*4 : end] {
			style := styleCard
			if c.Selected {
				style = styleSelected
			}
			if row*4+i == cursor {
				style = style.BorderForeground(styleCursor)
			}
			cells = append(cells, style.Render(c.Word))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	left := connections.MistakesRemaining(st)
	dots := strings.Repeat("● ", left) + strings.Repeat("○ ", connections.MaxMistakes-left)
	b.WriteString(styleSubtle.Render("Mistakes remaining: " + strings.TrimSpace(dots)))
	b.WriteString("\n")

	if oneAway {
		b.WriteString(styleHint.Render("One away..."))
		b.WriteString("\n")
	}
	switch connections.StatusOf(st) {
	case connections.StatusWon:
		b.WriteString(styleWon.Render("Solved!"))
		b.WriteString("\n")
	case connections.StatusLost:
		b.WriteString(styleLost.Render("Out of mistakes. Answers:"))
		b.WriteString("\n")
		for _, g := range st.Groups {
			b.WriteString(groupStyle(g.GroupIndex).Render(strings.ToUpper(g.Name) + "\n" + strings.Join(g.Words, ", ")))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// statusIcon is the one-character marker used in the date list.
func statusIcon(s connections.Status) string {
	switch s {
	case connections.StatusWon:
		return styleWon.Render("✔")
	case connections.StatusLost:
		return styleLost.Render("✘")
	case connections.StatusInProgress:
		return styleHint.Render("…")
	}
	return styleSubtle.Render("·")
}

func renderListLine(date string, s connections.Status) string {
	return fmt.Sprintf("%s  %s  %s", statusIcon(s), date, styleSubtle.Render(string(s)))
}

const helpText = `commands:
  s|select <word>     select a card
  d|deselect <word>   deselect a card
  clear               deselect everything
  shuffle             shuffle the remaining cards
  submit              submit the four selected cards
  reset               start the puzzle over
  help                show this text
  q|quit              leave (progress is saved)`
