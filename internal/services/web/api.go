package web

import (
	"io"
	"net/http"

	"github.com/louisbranch/mindvsmachine/internal/game/analytics"
	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	apperrors "github.com/louisbranch/mindvsmachine/internal/services/web/platform/errors"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/httpx"
)

// summaryResponse is the JSON body of /api/summary.
type summaryResponse struct {
	Algorithm string `json:"algorithm"`
	Mode      string `json:"mode"`
	Min       int    `json:"min_val"`
	Max       int    `json:"max_val"`
	analytics.Summary
}

func (a *app) handleSummary(w http.ResponseWriter, r *http.Request) {
	rounds, err := a.store.ListRounds(r.Context())
	if err != nil {
		_ = httpx.WriteJSONError(w, apperrors.Wrap(apperrors.KindUnavailable, "Could not load round history.", err))
		return
	}
	settings := chartSettings(a.visitors.Get(visitorIDFromRequest(r)))
	summary := analytics.New(rounds).Summarize(analytics.SummaryOptions{
		Min:           settings.Min,
		Max:           settings.Max,
		SpecialNumber: a.specialNumber,
	})
	_ = httpx.WriteJSON(w, http.StatusOK, summaryResponse{
		Algorithm: string(settings.Algorithm),
		Mode:      string(settings.Mode),
		Min:       settings.Min,
		Max:       settings.Max,
		Summary:   summary,
	})
}

// chartSettings falls back to the default range while the visitor's range is invalid.
func chartSettings(state visitorState) Settings {
	settings := state.Settings
	if rng.ValidateRange(settings.Min, settings.Max) != nil {
		defaults := DefaultSettings()
		settings.Min, settings.Max = defaults.Min, defaults.Max
	}
	return settings
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}
