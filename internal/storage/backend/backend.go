// Package backend opens the configured round store.
package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/mindvsmachine/internal/storage"
	"github.com/louisbranch/mindvsmachine/internal/storage/jsonfile"
	"github.com/louisbranch/mindvsmachine/internal/storage/sqlite"
)

// Config selects a backend and where it keeps data.
type Config struct {
	Backend string
	DataDir string
}

// Open creates the data directory and opens the selected backend.
func Open(cfg Config) (storage.RoundStore, error) {
	dataDir := strings.TrimSpace(cfg.DataDir)
	if dataDir == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	switch storage.Backend(strings.ToLower(strings.TrimSpace(cfg.Backend))) {
	case "", storage.BackendJSON:
		return jsonfile.Open(filepath.Join(dataDir, storage.SessionFile))
	case storage.BackendSQLite:
		return sqlite.Open(filepath.Join(dataDir, storage.SQLiteFile))
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, cfg.Backend)
	}
}

// ExportDir returns the directory CSV exports are written to.
func ExportDir(dataDir string) string {
	return filepath.Join(dataDir, storage.ExportDir)
}
