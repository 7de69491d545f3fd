package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/louisbranch/mindvsmachine/internal/game/round"
	"github.com/louisbranch/mindvsmachine/internal/storage"
)

func TestOpenBackends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		backend string
		file    string
	}{
		{backend: "", file: storage.SessionFile},
		{backend: "json", file: storage.SessionFile},
		{backend: "SQLite", file: storage.SQLiteFile},
	}
	for _, tc := range tests {
		dir := filepath.Join(t.TempDir(), "data")
		store, err := Open(Config{Backend: tc.backend, DataDir: dir})
		if err != nil {
			t.Fatalf("Open(%q) error = %v", tc.backend, err)
		}
		if err := store.AppendRound(context.Background(), round.Round{ID: "r1", Generated: 4}); err != nil {
			t.Fatalf("%q append: %v", tc.backend, err)
		}
		if _, err := os.Stat(filepath.Join(dir, tc.file)); err != nil {
			t.Fatalf("%q expected %s: %v", tc.backend, tc.file, err)
		}
		_ = store.Close()
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Open(Config{Backend: "redis", DataDir: t.TempDir()})
	if !errors.Is(err, storage.ErrUnknownBackend) {
		t.Fatalf("Open() error = %v, want ErrUnknownBackend", err)
	}
}

func TestOpenRequiresDataDir(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{}); err == nil {
		t.Fatal("expected missing data dir error")
	}
}

func TestExportDir(t *testing.T) {
	t.Parallel()

	if got := ExportDir("data"); got != filepath.Join("data", "exports") {
		t.Fatalf("ExportDir() = %q", got)
	}
}
