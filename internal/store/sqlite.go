// internal/store/sqlite.go
//
// SQLite-backed Store. One row per (owner, date) in game_states, holding the
// GameState as a JSON blob. The table is created by the migrations in assets/.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
)

type sqliteStore struct{ db *sql.DB }

// NewSQLiteStore returns a Store over db.
func NewSQLiteStore(db *sql.DB) Store { return &sqliteStore{db: db} }

func (s *sqliteStore) Load(ctx context.Context, owner, date string) (connections.GameState, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM game_states WHERE owner=? AND date=?`, owner, date,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return connections.GameState{}, ErrNotFound
	}
	if err != nil {
		return connections.GameState{}, err
	}
	var st connections.GameState
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		return connections.GameState{}, fmt.Errorf("decode state %s/%s: %w", owner, date, err)
	}
	return st, nil
}

func (s *sqliteStore) Save(ctx context.Context, owner, date string, st connections.GameState) error {
	body, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO game_states (owner, date, state, status, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(owner, date) DO UPDATE SET
            state=excluded.state, status=excluded.status, updated_at=excluded.updated_at`,
		owner, date, string(body), string(connections.StatusOf(st)), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *sqliteStore) List(ctx context.Context, owner string, dates []string) (map[string]connections.GameState, error) {
	out := make(map[string]connections.GameState, len(dates))
	if len(dates) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(dates)+1)
	args = append(args, owner)
	for _, d := range dates {
		args = append(args, d)
	}
	q := `SELECT date, state FROM game_states WHERE owner=? AND date IN (?` +
		strings.Repeat(",?", len(dates)-1) + `)`
	return s.query(ctx, out, q, args...)
}

func (s *sqliteStore) All(ctx context.Context, owner string) (map[string]connections.GameState, error) {
	return s.query(ctx, map[string]connections.GameState{},
		`SELECT date, state FROM game_states WHERE owner=?`, owner)
}

func (s *sqliteStore) query(ctx context.Context, out map[string]connections.GameState, q string, args ...any) (map[string]connections.GameState, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var date, body string
		if err := rows.Scan(&date, &body); err != nil {
			return nil, err
		}
		var st connections.GameState
		if err := json.Unmarshal([]byte(body), &st); err != nil {
			return nil, fmt.Errorf("decode state %s: %w", date, err)
		}
		out[date] = st
	}
	return out, rows.Err()
}

func (s *sqliteStore) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE OR IGNORE game_states SET owner=? WHERE owner=?`, to, from); err != nil {
		return fmt.Errorf("claim states: %w", err)
	}
	// Rows left behind collided with states the account already had.
	if _, err := tx.ExecContext(ctx, `DELETE FROM game_states WHERE owner=?`, from); err != nil {
		return fmt.Errorf("drop claimed states: %w", err)
	}
	return tx.Commit()
}
