package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	"github.com/louisbranch/mindvsmachine/internal/game/round"
	"github.com/louisbranch/mindvsmachine/internal/platform/id"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/sessioncookie"
)

// visitorIdleTTL drops visitor state that has not been touched for this long.
const visitorIdleTTL = 24 * time.Hour

// Settings are the sidebar choices of one visitor.
type Settings struct {
	Algorithm rng.Algorithm
	Mode      round.Mode
	Min       int
	Max       int
	DarkMode  bool
}

// DefaultSettings mirror a first visit.
func DefaultSettings() Settings {
	return Settings{
		Algorithm: rng.AlgorithmStandard,
		Mode:      round.ModeExactMatch,
		Min:       rng.DefaultMin,
		Max:       rng.DefaultMax,
		DarkMode:  true,
	}
}

// visitorState is the per-browser UI state. Round history is shared.
type visitorState struct {
	Settings       Settings
	SettingsError  string
	LastRound      *round.Round
	LastPrediction *int
	LastChoice     string
	ShowPrediction bool
	ConfirmDelete  bool
	LastSeed       *int64
	seen           time.Time
}

func newVisitorState() visitorState {
	return visitorState{Settings: DefaultSettings(), ShowPrediction: true}
}

// visitorStore keeps visitor state in memory, keyed by the visitor cookie.
type visitorStore struct {
	now func() time.Time

	mu     sync.Mutex
	states map[string]visitorState
}

func newVisitorStore(now func() time.Time) *visitorStore {
	if now == nil {
		now = time.Now
	}
	return &visitorStore{now: now, states: make(map[string]visitorState)}
}

// Get returns a copy of the visitor's state, creating defaults on first use.
func (s *visitorStore) Get(visitorID string) visitorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[visitorID]
	if !ok {
		state = newVisitorState()
	}
	state.seen = s.now()
	s.states[visitorID] = state
	return state
}

// Update applies fn to the visitor's state under the store lock.
func (s *visitorStore) Update(visitorID string, fn func(*visitorState)) visitorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[visitorID]
	if !ok {
		state = newVisitorState()
	}
	fn(&state)
	state.seen = s.now()
	s.states[visitorID] = state
	return state
}

// ClearLastRounds forgets every visitor's last result after the history is wiped.
func (s *visitorStore) ClearLastRounds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, state := range s.states {
		state.LastRound = nil
		s.states[key] = state
	}
}

// Prune removes state idle for longer than ttl and returns how many were dropped.
func (s *visitorStore) Prune(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	dropped := 0
	for key, state := range s.states {
		if state.seen.Before(cutoff) {
			delete(s.states, key)
			dropped++
		}
	}
	return dropped
}

// Len reports how many visitors are tracked.
func (s *visitorStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

type visitorKey struct{}

// withVisitor assigns a visitor cookie when missing and stores the id on the context.
func withVisitor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID, ok := sessioncookie.Read(r)
			if !ok {
				generated, err := id.NewID()
				if err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				visitorID = generated
				sessioncookie.Write(w, visitorID)
			}
			ctx := context.WithValue(r.Context(), visitorKey{}, visitorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func visitorIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	visitorID, _ := r.Context().Value(visitorKey{}).(string)
	return visitorID
}
