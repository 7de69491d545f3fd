package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/mindvsmachine/internal/game/analytics"
)

func render(t *testing.T, view Dashboard) string {
	t.Helper()
	var buf bytes.Buffer
	if err := DashboardPage(view).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func baseView() Dashboard {
	return Dashboard{
		Title:         "Mind vs Machine",
		DarkMode:      true,
		SpecialMinute: 47,
		SpecialNumber: 47,
		Settings: SettingsForm{
			Algorithms: []Option{{Value: "standard", Label: "Standard Random", Selected: true}},
			Modes:      []Option{{Value: "exact_match", Label: "Exact Match", Selected: true}},
			Max:        99,
			InputMax:   10000,
			DarkMode:   true,
		},
		Algorithm:  AlgorithmPanel{Name: "Standard Random", Description: "Seeded generator", Predictability: "Yes"},
		Prediction: PredictionForm{Visible: true, Mode: "exact_match", Max: 99},
		Version:    "dev",
	}
}

func TestDashboardWelcomeWithoutHistory(t *testing.T) {
	t.Parallel()

	html := render(t, baseView())
	for _, marker := range []string{
		`data-theme="dark"`,
		"Mind vs Machine",
		"👋 Welcome!",
		`name="prediction"`,
		`action="/generate"`,
	} {
		if !strings.Contains(html, marker) {
			t.Fatalf("missing %q", marker)
		}
	}
	if strings.Contains(html, "Statistics Dashboard") {
		t.Fatal("statistics should be hidden without history")
	}
}

func TestDashboardSettingsErrorHidesGame(t *testing.T) {
	t.Parallel()

	view := baseView()
	view.SettingsError = "Range must contain at least 2 numbers"
	html := render(t, view)
	if !strings.Contains(html, "⚠️ Range must contain at least 2 numbers") {
		t.Fatal("missing settings error")
	}
	if strings.Contains(html, `action="/generate"`) {
		t.Fatal("game controls should be hidden on invalid range")
	}
}

func TestDashboardEscapesNoticeText(t *testing.T) {
	t.Parallel()

	view := baseView()
	view.Notice = &Notice{Kind: "success", Message: "<script>alert(1)</script>"}
	html := render(t, view)
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("notice was not escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatal("expected escaped notice")
	}
}

func TestDashboardHighLowShowsChoices(t *testing.T) {
	t.Parallel()

	view := baseView()
	view.Prediction.Mode = "high_low"
	view.Prediction.Choice = "low"
	html := render(t, view)
	if !strings.Contains(html, `value="low" checked`) {
		t.Fatal("expected low choice checked")
	}
	if strings.Contains(html, `name="prediction"`) {
		t.Fatal("number input should not render for high_low")
	}
}

func TestDashboardStatisticsAndHistory(t *testing.T) {
	t.Parallel()

	avg := 3.26
	view := baseView()
	view.HasHistory = true
	view.ShowInsights = true
	view.StoredCount = 1200
	view.Result = &Result{Number: 47, Special: true, SpecialNumber: 47, Predicted: true, Distance: 2}
	view.Summary = analytics.Summary{
		TotalAttempts:      1200,
		TotalPredictions:   3,
		TotalHits:          1,
		HitRate:            33.3333,
		AverageDistance:    &avg,
		LongestStreak:      1,
		HotNumbers:         []analytics.NumberCount{{Number: 47, Count: 2}},
		ColdNumbers:        []int{0, 1},
		SpecialNumber:      47,
		SpecialNumberCount: 2,
	}
	view.History = []HistoryRow{{Index: 3, Predicted: "45", Generated: 47, Hit: "❌", Distance: "2", Algorithm: "time_bas", When: "2 minutes ago"}}
	view.ConfirmDelete = true

	html := render(t, view)
	for _, marker := range []string{
		"1,200",
		"33.3%",
		"Average distance: 3.3",
		"✨ SPECIAL NUMBER: 47! ✨",
		"Distance from prediction: <strong>2</strong>",
		"time_bas",
		"2 minutes ago",
		"appeared 2x",
		"(rare/never)",
		"⚠️ This will delete all session data!",
		`action="/sessions/clear/confirm"`,
		`/charts/heatmap`,
	} {
		if !strings.Contains(html, marker) {
			t.Fatalf("missing %q", marker)
		}
	}
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := ErrorPage("Mind vs Machine", false, 404, "Not <found>").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, marker := range []string{
		`<html lang="en" data-theme="light">`,
		"<title>Mind vs Machine</title>",
		"<h1>404</h1>",
		"<p>Not &lt;found&gt;</p>",
	} {
		if !strings.Contains(html, marker) {
			t.Fatalf("missing %q in %q", marker, html)
		}
	}
}

func TestDashboardMissShowsDistance(t *testing.T) {
	t.Parallel()

	view := baseView()
	view.HasHistory = true
	view.Result = &Result{Number: 7, SpecialNumber: 47, Predicted: true, Distance: 2}
	html := render(t, view)
	if strings.Contains(html, "PERFECT!") {
		t.Fatal("a miss must not be reported as a perfect prediction")
	}
	if !strings.Contains(html, "📏 Distance from prediction: <strong>2</strong>") {
		t.Fatal("missing distance for a missed prediction")
	}
	if !strings.Contains(html, `<div class="number-display neutral">`) {
		t.Fatal("missing neutral number card")
	}
}

func TestDashboardHitShowsPerfect(t *testing.T) {
	t.Parallel()

	view := baseView()
	view.HasHistory = true
	view.Result = &Result{Number: 12, Hit: true, SpecialNumber: 47, Predicted: true}
	html := render(t, view)
	for _, marker := range []string{
		`<div class="number-display hit">`,
		"🎯 DIRECT HIT! Perfect prediction!",
		"<strong>PERFECT!</strong>",
	} {
		if !strings.Contains(html, marker) {
			t.Fatalf("missing %q", marker)
		}
	}
	if strings.Contains(html, "Distance from prediction") {
		t.Fatal("a hit should not show a distance")
	}
}

func TestDashboardNoticeUsesKindClass(t *testing.T) {
	t.Parallel()

	view := baseView()
	view.Notice = &Notice{Kind: "success", Message: "✅ All data cleared!"}
	html := render(t, view)
	if !strings.Contains(html, `<div class="notice notice-success" role="status">✅ All data cleared!</div>`) {
		t.Fatal("missing success notice")
	}
}

func TestDashboardBodyRendersWithoutLayout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := DashboardBody(baseView()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<html") {
		t.Fatal("body should not include the document shell")
	}
	if !strings.HasPrefix(buf.String(), `<div class="app">`) {
		t.Fatalf("body = %q", buf.String()[:40])
	}
}

func TestChartURLEscapesVersion(t *testing.T) {
	t.Parallel()

	if got := chartURL("heatmap", "3 a&b"); got != "/charts/heatmap?v=3+a%26b" {
		t.Fatalf("chartURL() = %q", got)
	}
}
