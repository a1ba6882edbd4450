// Package db persists per-user progress snapshots in an embedded sqlite
// database. Only the durable slice of a session lives here; everything
// else is process-lifetime state in the session store.
package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl string

type Progress struct {
	db *sql.DB
}

func Open(path string) (*Progress, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := sqldb.ExecContext(context.Background(), ddl); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Progress{db: sqldb}, nil
}

func (p *Progress) Close() error {
	return p.db.Close()
}

func (p *Progress) Load(ctx context.Context, userID int64) (level, totalScore int, found bool, err error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT level, total_score FROM progress WHERE user_id = ?`, userID)
	if err := row.Scan(&level, &totalScore); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, false, nil
		}
		return 0, 0, false, fmt.Errorf("load progress: %w", err)
	}
	return level, totalScore, true, nil
}

func (p *Progress) Save(ctx context.Context, userID int64, level, totalScore int) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO progress (user_id, level, total_score, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT (user_id) DO UPDATE SET
		     level = excluded.level,
		     total_score = excluded.total_score,
		     updated_at = excluded.updated_at`,
		userID, level, totalScore)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (p *Progress) Clear(ctx context.Context, userID int64) error {
	if _, err := p.db.ExecContext(ctx,
		`DELETE FROM progress WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
