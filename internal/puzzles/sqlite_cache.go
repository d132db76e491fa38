// internal/puzzles/sqlite_cache.go
//
// SQLite puzzle cache: one row per key in puzzle_data (see assets/migrations).
// Rows are inserted once and only removed when Cached finds them unreadable.

package puzzles

import (
	"context"
	"database/sql"
	"errors"
)

// SQLiteCache keeps puzzle JSON in the puzzle_data table.
type SQLiteCache struct{ db *sql.DB }

// NewSQLiteCache returns a Cache over db (migrations must have run).
func NewSQLiteCache(db *sql.DB) *SQLiteCache { return &SQLiteCache{db: db} }

func (s *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM puzzle_data WHERE key=?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(body), true, nil
}

// Put is write-once: an existing entry is kept.
func (s *SQLiteCache) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO puzzle_data (key, body, fetched_at) VALUES (?, ?, ?)`,
		key, string(body), nowRFC3339(),
	)
	return err
}

func (s *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM puzzle_data WHERE key=?`, key)
	return err
}

func (s *SQLiteCache) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM puzzle_data ORDER BY key DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
