// internal/daily/daily.go
//
// Puzzle dates. A date key ("YYYY-MM-DD") is the primary key for puzzle
// data and saved game states alike.
// Responsibilities:
//   - Format and validate date keys (format, real calendar date, not before FirstGame).
//   - Paginate the list of playable dates for overview screens.

package daily

import (
	"errors"
	"regexp"
	"time"
)

// FirstGame is the date of the first published Connections puzzle.
const FirstGame = "2023-06-12"

// DefaultPageSize is the number of dates per list page.
const DefaultPageSize = 20

const layout = "2006-01-02"

var (
	ErrBadDate  = errors.New("malformed puzzle date")
	ErrTooEarly = errors.New("puzzle date before first game")
)

var keyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(layout)
}

// Validate checks that key is a well-formed date on or after FirstGame.
func Validate(key string) error {
	if !keyRe.MatchString(key) {
		return ErrBadDate
	}
	if _, err := time.Parse(layout, key); err != nil {
		return ErrBadDate
	}
	// Keys are zero-padded, so lexical order is date order.
	if key < FirstGame {
		return ErrTooEarly
	}
	return nil
}

// Page is one page of the date list, newest first.
type Page struct {
	Number  int      `json:"page"`
	PerPage int      `json:"perPage"`
	Dates   []string `json:"dates"`
	First   int      `json:"first"` // 1-based row number of Dates[0]
	Last    int      `json:"last"`
	Total   int      `json:"total"`
	HasPrev bool     `json:"hasPrev"`
	HasNext bool     `json:"hasNext"`
}

// Paginate lists dates from today back to FirstGame. Page numbers start at 1;
// smaller values are clamped. A page past the end has no dates.
func Paginate(today time.Time, page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	first, _ := time.Parse(layout, FirstGame)
	day := time.Date(today.UTC().Year(), today.UTC().Month(), today.UTC().Day(), 0, 0, 0, 0, time.UTC)

	total := 0
	if !day.Before(first) {
		total = int(day.Sub(first).Hours()/24) + 1
	}

	p := Page{Number: page, PerPage: perPage, Total: total, Dates: []string{}, HasPrev: page > 1}
	// Checked before multiplying so a huge page cannot wrap start negative.
	if page-1 > total/perPage {
		p.First = total + 1
		p.Last = total
		return p
	}
	start := (page - 1) * perPage
	for i := start; i < start+perPage && i < total; i++ {
		p.Dates = append(p.Dates, DateKey(day.AddDate(0, 0, -i)))
	}
	p.First = start + 1
	p.Last = p.First + len(p.Dates) - 1
	p.HasNext = start+perPage < total
	return p
}
