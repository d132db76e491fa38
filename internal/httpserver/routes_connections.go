// internal/httpserver/routes_connections.go
//
// HTTP routes for Connections, mounted under /games/connections:
//   - GET  /games/connections?page=N        → paginated dates with per-date status
//   - GET  /games/connections/today         → redirect to today's puzzle
//   - GET  /games/connections/cached        → dates whose puzzle data is cached
//   - GET  /games/connections/{gid}/data    → raw puzzle JSON (publicly cacheable)
//   - GET  /games/connections/{gid}         → puzzle + saved (or fresh) state
//   - POST /games/connections/{gid}/actions → apply one Action and persist
//
// Game states belong to the caller's owner id (user or anonymous cookie).
// Saves go through a game.Session, so a failed write is logged and the
// player still gets the new state back.
//
// Every request builds a new session, so the "one away" hint is only set on
// the POST that made the guess. Its response carries oneAwayUntil and the
// client keeps the hint up until then; a later GET reports oneAway:false.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
	"github.com/robalobadob/puzzles/apps/go-server/internal/daily"
	"github.com/robalobadob/puzzles/apps/go-server/internal/game"
	"github.com/robalobadob/puzzles/apps/go-server/internal/store"
)

// mountConnections registers all /games/connections routes.
func (s *Server) mountConnections(r chi.Router) {
	r.Route("/games/connections", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/today", s.handleToday)
		r.Get("/cached", s.handleCached)
		r.Route("/{gid}", func(r chi.Router) {
			r.Get("/", s.handleGame)
			r.Get("/data", s.handleData)
			r.Post("/actions", s.handleAction)
		})
	})
}

// -----------------------------------------------------------------------------
// list

// listRow is one date in the list view.
type listRow struct {
	Date   string             `json:"date"`
	Status connections.Status `json:"status"`
}

// listRes is returned by GET /games/connections.
type listRes struct {
	daily.Page
	Games []listRow `json:"games"`
}

// handleList returns one page of dates, newest first, with the caller's status for each.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, `{"error":"bad_page"}`, http.StatusBadRequest)
			return
		}
		page = n
	}
	p := daily.Paginate(s.now(), page, s.cfg.PageSize)

	states, err := s.store.List(r.Context(), s.owner(w, r), p.Dates)
	if err != nil {
		log.Error().Err(err).Msg("list game states")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	res := listRes{Page: p, Games: make([]listRow, 0, len(p.Dates))}
	for _, d := range p.Dates {
		st := connections.StatusNotStarted
		if gs, ok := states[d]; ok {
			st = connections.StatusOf(gs)
		}
		res.Games = append(res.Games, listRow{Date: d, Status: st})
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleToday redirects to today's game.
func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/games/connections/"+daily.DateKey(s.now()), http.StatusFound)
}

// handleCached lists puzzle dates already held in the cache.
func (s *Server) handleCached(w http.ResponseWriter, r *http.Request) {
	dates, err := s.source.Dates(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list cached puzzles")
		http.Error(w, `{"error":"cache_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string][]string{"gameIds": dates})
}

// handleData serves the raw puzzle JSON for {gid}.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	body, err := s.source.Raw(r.Context(), chi.URLParam(r, "gid"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body)
}

// -----------------------------------------------------------------------------
// play

// gameRes is returned by GET /{gid} and POST /{gid}/actions.
type gameRes struct {
	Puzzle            connections.PuzzleData     `json:"puzzle"`
	State             connections.GameState      `json:"state"`
	Status            connections.Status         `json:"status"`
	Over              bool                       `json:"over"`
	MistakesRemaining int                        `json:"mistakesRemaining"`
	FoundGroups       []connections.GroupSummary `json:"foundGroups"`
	Selected          []string                   `json:"selected"`
	OneAway           bool                       `json:"oneAway"` // set only on the guessing POST
	OneAwayUntil      *time.Time                 `json:"oneAwayUntil,omitempty"`
}

// handleGame returns the puzzle and the caller's state for it.
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(s.view(sess))
}

// handleAction applies one action to the caller's game and returns the new view.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var a connections.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	switch a.Type {
	case connections.ActionSelectWord, connections.ActionDeselectWord, connections.ActionDeselectAll,
		connections.ActionShuffle, connections.ActionSubmitGuess, connections.ActionReset:
	case connections.ActionSetState:
		if a.State == nil {
			http.Error(w, `{"error":"missing_state"}`, http.StatusBadRequest)
			return
		}
		// States are stored by URL date; a pasted state cannot move to another key.
		a.State.PuzzleDate = chi.URLParam(r, "gid")
	default:
		http.Error(w, `{"error":"bad_action"}`, http.StatusBadRequest)
		return
	}

	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	sess.Dispatch(r.Context(), a)
	_ = json.NewEncoder(w).Encode(s.view(sess))
}

// openSession loads the puzzle for {gid} and hydrates the caller's saved state.
// It writes the error response itself and reports false on failure.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	gid := chi.URLParam(r, "gid")
	p, err := s.source.Get(r.Context(), gid)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}

	owner := s.owner(w, r)
	sess, err := game.New(p,
		game.WithClock(s.now),
		game.WithSaver(func(ctx context.Context, _ string, st connections.GameState) error {
			return s.store.Save(ctx, owner, gid, st)
		}),
	)
	if err != nil {
		log.Error().Err(err).Str("date", gid).Msg("start session")
		http.Error(w, `{"error":"bad_puzzle"}`, http.StatusInternalServerError)
		return nil, false
	}

	saved, err := s.store.Load(r.Context(), owner, gid)
	switch {
	case err == nil:
		sess.Hydrate(saved)
	case errors.Is(err, store.ErrNotFound):
	default:
		log.Warn().Err(err).Str("date", gid).Msg("load game state")
	}
	return sess, true
}

func (s *Server) view(sess *game.Session) gameRes {
	st := sess.State()
	res := gameRes{
		Puzzle:            sess.Puzzle(),
		State:             st,
		Status:            sess.Status(),
		Over:              sess.Over(),
		MistakesRemaining: connections.MistakesRemaining(st),
		FoundGroups:       connections.FoundGroups(st),
		Selected:          connections.Selected(st),
		OneAway:           sess.OneAwayActive(s.now()),
	}
	if res.OneAway {
		until := sess.OneAwayUntil()
		res.OneAwayUntil = &until
	}
	return res
}

// -----------------------------------------------------------------------------
// stats

// statsRes is returned by GET /stats/me.
type statsRes struct {
	Played     int `json:"played"`
	Won        int `json:"won"`
	Lost       int `json:"lost"`
	InProgress int `json:"inProgress"`
	Streak     int `json:"streak"` // consecutive wins, most recent finished game first
}

// handleStats summarizes every stored game for the caller.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.All(r.Context(), s.owner(w, r))
	if err != nil {
		log.Error().Err(err).Msg("load game states")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(summarize(all))
}

func summarize(all map[string]connections.GameState) statsRes {
	dates := make([]string, 0, len(all))
	for d := range all {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	var res statsRes
	streakOpen := true
	for _, d := range dates {
		switch connections.StatusOf(all[d]) {
		case connections.StatusWon:
			res.Won++
			if streakOpen {
				res.Streak++
			}
		case connections.StatusLost:
			res.Lost++
			streakOpen = false
		case connections.StatusInProgress:
			res.InProgress++
		}
	}
	res.Played = res.Won + res.Lost
	return res
}
