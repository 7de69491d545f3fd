// Package jsonfile stores round history as a JSON array on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/louisbranch/mindvsmachine/internal/game/round"
	"github.com/louisbranch/mindvsmachine/internal/platform/timeouts"
)

const lockRetryDelay = 20 * time.Millisecond

// Store persists rounds in one JSON file. A mutex orders goroutines and a
// sibling ".lock" file orders processes sharing the data directory.
type Store struct {
	path string

	mu   sync.Mutex
	lock *flock.Flock
}

// Open prepares a store at path, creating the parent directory. An existing
// file is read once so a corrupt history is reported before any write.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	s := &Store{
		path: cleanPath,
		lock: flock.New(cleanPath + ".lock"),
	}
	if _, err := s.ListRounds(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the JSON file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the file lock handle.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Close()
}

// ListRounds reads the file; a missing file is an empty history.
func (s *Store) ListRounds(ctx context.Context) ([]round.Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.read()
}

// AppendRound rewrites the file with r appended.
func (s *Store) AppendRound(ctx context.Context, r round.Round) error {
	return s.update(ctx, func(rounds []round.Round) []round.Round {
		return append(rounds, r)
	})
}

// ReplaceRounds rewrites the file with rounds.
func (s *Store) ReplaceRounds(ctx context.Context, rounds []round.Round) error {
	return s.update(ctx, func([]round.Round) []round.Round {
		return rounds
	})
}

// ClearRounds rewrites the file as an empty array.
func (s *Store) ClearRounds(ctx context.Context) error {
	return s.ReplaceRounds(ctx, nil)
}

func (s *Store) update(ctx context.Context, mutate func([]round.Round) []round.Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	rounds, err := s.read()
	if err != nil {
		return err
	}
	return s.write(mutate(rounds))
}

func (s *Store) acquire(ctx context.Context, exclusive bool) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, timeouts.FileLock)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryRLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: not acquired", s.path)
	}
	return func() { _ = s.lock.Unlock() }, nil
}

func (s *Store) read() ([]round.Round, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	var rounds []round.Round
	if err := json.Unmarshal(data, &rounds); err != nil {
		return nil, fmt.Errorf("decode sessions %s: %w", s.path, err)
	}
	return rounds, nil
}

func (s *Store) write(rounds []round.Round) error {
	if rounds == nil {
		rounds = []round.Round{}
	}
	data, err := json.MarshalIndent(rounds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp sessions file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write sessions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close sessions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace sessions: %w", err)
	}
	return nil
}
