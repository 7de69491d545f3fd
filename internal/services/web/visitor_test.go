package web

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/mindvsmachine/internal/game/round"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/sessioncookie"
)

func TestVisitorStoreDefaultsAndUpdate(t *testing.T) {
	t.Parallel()

	store := newVisitorStore(func() time.Time { return fixedNow })
	state := store.Get("v1")
	if !state.ShowPrediction || state.Settings != DefaultSettings() {
		t.Fatalf("default state = %+v", state)
	}

	store.Update("v1", func(s *visitorState) {
		s.ConfirmDelete = true
		s.Settings.Max = 10
	})
	if got := store.Get("v1"); !got.ConfirmDelete || got.Settings.Max != 10 {
		t.Fatalf("updated state = %+v", got)
	}
	if got := store.Get("v2"); got.ConfirmDelete {
		t.Fatal("visitors must not share state")
	}
}

func TestVisitorStoreClearLastRounds(t *testing.T) {
	t.Parallel()

	store := newVisitorStore(nil)
	rnd := round.Round{Generated: 3}
	for _, id := range []string{"a", "b"} {
		store.Update(id, func(s *visitorState) { s.LastRound = &rnd })
	}
	store.ClearLastRounds()
	for _, id := range []string{"a", "b"} {
		if store.Get(id).LastRound != nil {
			t.Fatalf("visitor %s kept its last round", id)
		}
	}
}

func TestVisitorStorePrune(t *testing.T) {
	t.Parallel()

	now := fixedNow
	store := newVisitorStore(func() time.Time { return now })
	store.Get("old")
	now = now.Add(2 * visitorIdleTTL)
	store.Get("fresh")

	if dropped := store.Prune(visitorIdleTTL); dropped != 1 {
		t.Fatalf("Prune() = %d, want 1", dropped)
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
}

func TestVisitorStoreConcurrentUpdates(t *testing.T) {
	t.Parallel()

	store := newVisitorStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("shared", func(s *visitorState) { s.Settings.Max++ })
		}()
	}
	wg.Wait()
	if got := store.Get("shared").Settings.Max; got != DefaultSettings().Max+50 {
		t.Fatalf("Max = %d, want %d", got, DefaultSettings().Max+50)
	}
}

func TestWithVisitorAssignsCookieOnce(t *testing.T) {
	t.Parallel()

	var seen string
	h := withVisitor()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = visitorIDFromRequest(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessioncookie.Name {
		t.Fatalf("cookies = %+v", cookies)
	}
	if seen == "" || seen != cookies[0].Value {
		t.Fatalf("visitor id = %q, cookie = %q", seen, cookies[0].Value)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("existing visitor should not get a new cookie")
	}
	if seen != cookies[0].Value {
		t.Fatalf("visitor id = %q, want %q", seen, cookies[0].Value)
	}
}
