// Package storage defines persistence contracts for round history.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/mindvsmachine/internal/game/round"
)

// ErrUnknownBackend indicates a storage backend name outside the supported set.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend names a storage implementation.
type Backend string

const (
	// BackendJSON keeps history in a pretty-printed JSON array file.
	BackendJSON Backend = "json"
	// BackendSQLite keeps history in a SQLite database.
	BackendSQLite Backend = "sqlite"
)

// Default file names inside the data directory.
const (
	SessionFile = "sessions.json"
	SQLiteFile  = "sessions.db"
	ExportDir   = "exports"
)

// RoundStore persists round history in insertion order.
type RoundStore interface {
	// ListRounds returns every round, oldest first.
	ListRounds(ctx context.Context) ([]round.Round, error)
	// AppendRound adds one round at the end of the history.
	AppendRound(ctx context.Context, r round.Round) error
	// ReplaceRounds overwrites the history with rounds.
	ReplaceRounds(ctx context.Context, rounds []round.Round) error
	// ClearRounds deletes every round.
	ClearRounds(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}
