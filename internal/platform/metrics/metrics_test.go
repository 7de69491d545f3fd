package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRoundCountsHits(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRound("standard", "exact_match", true)
	m.ObserveRound("standard", "exact_match", false)
	m.ObserveRound("secrets", "high_low", false)

	if got := testutil.ToFloat64(m.RoundsGenerated.WithLabelValues("standard", "exact_match")); got != 2 {
		t.Fatalf("standard/exact_match = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RoundHits.WithLabelValues("exact_match")); got != 1 {
		t.Fatalf("hits exact_match = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RoundHits.WithLabelValues("high_low")); got != 0 {
		t.Fatalf("hits high_low = %v, want 0", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveRound("standard", "exact_match", true)
	m.ObserveExport("file")
	m.ObserveClear()
	m.ObserveRequest(http.MethodGet, http.StatusOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveExport("download")
	m.ObserveClear()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`mvm_exports_total{kind="download"} 1`,
		"mvm_history_clears_total 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
