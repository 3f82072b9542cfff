package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"league_grid_go/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS puzzles (
	id         TEXT PRIMARY KEY,
	policy     TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS puzzles_created_at ON puzzles(created_at);
`

// SQLite stores puzzles in a single table, payload holding the JSON document.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (creating when needed) the database at path. Use ":memory:"
// for a throwaway store.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	logger.Debug("sqlite store ready", zap.String("path", path))
	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Save(ctx context.Context, p *types.Puzzle) error {
	if p == nil || p.ID == "" {
		return errors.New("invalid puzzle: missing ID")
	}
	data, err := p.ToJSON()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO puzzles (id, policy, created_at, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET policy = excluded.policy,
		   created_at = excluded.created_at, payload = excluded.payload`,
		p.ID, string(p.Policy), p.CreatedAt.UnixMilli(), string(data))
	if err != nil {
		return fmt.Errorf("save puzzle %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, id string) (*types.Puzzle, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM puzzles WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load puzzle %s: %w", id, err)
	}
	return types.FromJSON([]byte(payload))
}

func (s *SQLite) List(ctx context.Context) ([]types.PuzzleMeta, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, policy, created_at FROM puzzles`)
	if err != nil {
		return nil, fmt.Errorf("list puzzles: %w", err)
	}
	defer rows.Close()

	var out []types.PuzzleMeta
	for rows.Next() {
		var (
			meta    types.PuzzleMeta
			policy  string
			created int64
		)
		if err := rows.Scan(&meta.ID, &policy, &created); err != nil {
			return nil, err
		}
		meta.Policy = types.Policy(policy)
		meta.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortNewestFirst(out)
	return out, nil
}
