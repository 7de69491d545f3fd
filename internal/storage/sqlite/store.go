// Package sqlite provides a SQLite-backed round storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	"github.com/louisbranch/mindvsmachine/internal/game/round"
	"github.com/louisbranch/mindvsmachine/internal/platform/id"
	sqlitemigrate "github.com/louisbranch/mindvsmachine/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/mindvsmachine/internal/storage/sqlite/migrations"
)

// Store persists rounds in SQLite, ordered by insertion.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite round store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListRounds returns every round, oldest first.
func (s *Store) ListRounds(ctx context.Context) ([]round.Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, prediction, generated, created_at, game_mode, min_val, max_val, algorithm
		 FROM rounds ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []round.Round
	for rows.Next() {
		var (
			r          round.Round
			prediction sql.NullInt64
			createdAt  int64
			mode       string
			algorithm  string
		)
		if err := rows.Scan(&r.ID, &prediction, &r.Generated, &createdAt, &mode, &r.Min, &r.Max, &algorithm); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		if prediction.Valid {
			p := int(prediction.Int64)
			r.Prediction = &p
		}
		r.Timestamp = fromMillis(createdAt)
		r.Mode = round.Mode(mode)
		r.Algorithm = rng.Algorithm(algorithm)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return rounds, nil
}

// AppendRound inserts one round.
func (s *Store) AppendRound(ctx context.Context, r round.Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return insertRound(ctx, s.sqlDB, r)
}

// ReplaceRounds swaps the whole history in one transaction.
func (s *Store) ReplaceRounds(ctx context.Context, rounds []round.Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace rounds: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rounds`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete rounds: %w", err)
	}
	for _, r := range rounds {
		if err := insertRound(ctx, tx, r); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace rounds: %w", err)
	}
	return nil
}

// ClearRounds deletes every round.
func (s *Store) ClearRounds(ctx context.Context) error {
	return s.ReplaceRounds(ctx, nil)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRound(ctx context.Context, db execer, r round.Round) error {
	roundID := strings.TrimSpace(r.ID)
	if roundID == "" {
		var err error
		if roundID, err = id.NewID(); err != nil {
			return err
		}
	}
	createdAt := r.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var prediction sql.NullInt64
	if r.Prediction != nil {
		prediction = sql.NullInt64{Int64: int64(*r.Prediction), Valid: true}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO rounds (id, prediction, generated, created_at, game_mode, min_val, max_val, algorithm)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		roundID,
		prediction,
		r.Generated,
		toMillis(createdAt),
		string(r.Mode),
		r.Min,
		r.Max,
		string(r.Algorithm),
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}
