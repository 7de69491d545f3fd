package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/louisbranch/mindvsmachine/internal/game/analytics"
	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	"github.com/louisbranch/mindvsmachine/internal/game/round"
	apperrors "github.com/louisbranch/mindvsmachine/internal/services/web/platform/errors"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/flash"
	"github.com/louisbranch/mindvsmachine/internal/services/web/templates"
)

const (
	defaultHistoryLimit = 10
	minHistoryLimit     = 5
	maxHistoryLimit     = 50
	minInsightRounds    = 3
	algorithmLabelLen   = 8
	emptyCell           = "—"
)

var historyLimitChoices = []int{5, 10, 20, 30, 50}

func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state := a.visitors.Get(visitorIDFromRequest(r))
	rounds, err := a.store.ListRounds(r.Context())
	if err != nil {
		a.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "Could not load round history.", err))
		return
	}
	view := a.dashboardView(state, rounds, parseHistoryLimit(r.URL.Query().Get("history")))
	if notice, ok := flash.ReadAndClear(w, r); ok {
		view.Notice = &templates.Notice{Kind: string(notice.Kind), Message: notice.Message}
	}
	a.writePage(w, r, http.StatusOK, templates.DashboardPage(view))
}

// parseHistoryLimit clamps the requested table length to the supported window.
func parseHistoryLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultHistoryLimit
	}
	return min(max(n, minHistoryLimit), maxHistoryLimit)
}

func (a *app) dashboardView(state visitorState, rounds []round.Round, historyLimit int) templates.Dashboard {
	now := a.now()
	settings := state.Settings
	stats := analytics.New(rounds)
	info := rng.Info(settings.Algorithm)

	view := templates.Dashboard{
		Title:         pageTitle,
		DarkMode:      settings.DarkMode,
		SpecialTime:   rng.IsSpecialTime(now, a.specialMinute),
		SpecialMinute: a.specialMinute,
		SpecialNumber: a.specialNumber,
		Settings:      settingsForm(settings),
		Algorithm: templates.AlgorithmPanel{
			Name:           info.Name,
			Description:    info.Description,
			Predictability: string(info.Predictability),
			Seed:           state.LastSeed,
		},
		SettingsError: state.SettingsError,
		Prediction: templates.PredictionForm{
			Visible: state.ShowPrediction,
			Mode:    string(settings.Mode),
			Min:     settings.Min,
			Max:     settings.Max,
			Value:   settings.Min,
			Choice:  state.LastChoice,
		},
		HasHistory:    len(rounds) > 0,
		HistoryLimits: historyLimitOptions(historyLimit),
		ShowInsights:  len(rounds) >= minInsightRounds,
		ConfirmDelete: state.ConfirmDelete,
		StoredCount:   len(rounds),
		ChartVersion:  strconv.Itoa(len(rounds)),
		Version:       a.version,
	}
	if state.LastPrediction != nil && settings.Min <= *state.LastPrediction && *state.LastPrediction <= settings.Max {
		view.Prediction.Value = *state.LastPrediction
	}
	if state.LastRound != nil {
		view.Result = a.resultView(*state.LastRound)
	}
	if view.HasHistory {
		view.Summary = stats.Summarize(analytics.SummaryOptions{
			Min:           settings.Min,
			Max:           settings.Max,
			SpecialNumber: a.specialNumber,
		})
		view.History = historyRows(stats.Recent(historyLimit), len(rounds), now)
	}
	return view
}

func (a *app) resultView(last round.Round) *templates.Result {
	result := &templates.Result{
		Number:        last.Generated,
		Hit:           last.IsHit(),
		Special:       last.Generated == a.specialNumber,
		SpecialNumber: a.specialNumber,
		Predicted:     last.Predicted(),
	}
	if distance, ok := last.Distance(); ok {
		result.Distance = distance
	}
	return result
}

func settingsForm(settings Settings) templates.SettingsForm {
	form := templates.SettingsForm{
		Min:      settings.Min,
		Max:      settings.Max,
		InputMin: rng.MinInput,
		InputMax: rng.MaxInput,
		DarkMode: settings.DarkMode,
	}
	for _, info := range rng.Algorithms() {
		form.Algorithms = append(form.Algorithms, templates.Option{
			Value:    string(info.Algorithm),
			Label:    info.Name,
			Selected: info.Algorithm == settings.Algorithm,
		})
	}
	for _, info := range round.Modes() {
		form.Modes = append(form.Modes, templates.Option{
			Value:    string(info.Mode),
			Label:    info.Label,
			Selected: info.Mode == settings.Mode,
		})
	}
	return form
}

func historyLimitOptions(selected int) []templates.Option {
	options := make([]templates.Option, 0, len(historyLimitChoices)+1)
	found := false
	for _, n := range historyLimitChoices {
		if n == selected {
			found = true
		}
		options = append(options, templates.Option{Value: strconv.Itoa(n), Label: strconv.Itoa(n), Selected: n == selected})
	}
	if !found {
		options = append(options, templates.Option{Value: strconv.Itoa(selected), Label: strconv.Itoa(selected), Selected: true})
	}
	return options
}

// historyRows formats recent rounds, newest first, numbering them by position in the full history.
func historyRows(recent []round.Round, total int, now time.Time) []templates.HistoryRow {
	rows := make([]templates.HistoryRow, 0, len(recent))
	for i, rnd := range recent {
		row := templates.HistoryRow{
			Index:     total - i,
			Predicted: emptyCell,
			Generated: rnd.Generated,
			Hit:       emptyCell,
			Distance:  emptyCell,
			Algorithm: truncate(string(rnd.Algorithm), algorithmLabelLen),
			When:      emptyCell,
		}
		if rnd.Prediction != nil {
			row.Predicted = strconv.Itoa(*rnd.Prediction)
			row.Hit = "❌"
			if rnd.IsHit() {
				row.Hit = "✅"
			}
		}
		if distance, ok := rnd.Distance(); ok {
			row.Distance = strconv.Itoa(distance)
		}
		if !rnd.Timestamp.IsZero() {
			row.When = humanize.RelTime(rnd.Timestamp, now, "ago", "from now")
		}
		rows = append(rows, row)
	}
	return rows
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
