package templates

import (
	"net/url"
	"strconv"

	"github.com/louisbranch/mindvsmachine/internal/game/analytics"
)

// Option is one select entry.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Notice is a one-time banner shown after a redirect.
type Notice struct {
	Kind    string
	Message string
}

// SettingsForm backs the sidebar.
type SettingsForm struct {
	Algorithms []Option
	Modes      []Option
	Min        int
	Max        int
	InputMin   int
	InputMax   int
	DarkMode   bool
}

// AlgorithmPanel describes the selected generator.
type AlgorithmPanel struct {
	Name           string
	Description    string
	Predictability string
	Seed           *int64
}

// PredictionForm backs the generate form.
type PredictionForm struct {
	Visible bool
	Mode    string
	Min     int
	Max     int
	Value   int
	Choice  string
}

// Result is the most recent number this visitor generated.
type Result struct {
	Number        int
	Hit           bool
	Special       bool
	SpecialNumber int
	Predicted     bool
	Distance      int
}

// HistoryRow is one pre-formatted line of the history table.
type HistoryRow struct {
	Index     int
	Predicted string
	Generated int
	Hit       string
	Distance  string
	Algorithm string
	When      string
}

// Dashboard is everything the single page renders.
type Dashboard struct {
	Title         string
	DarkMode      bool
	SpecialTime   bool
	SpecialMinute int
	SpecialNumber int
	Notice        *Notice
	Settings      SettingsForm
	Algorithm     AlgorithmPanel
	SettingsError string
	Prediction    PredictionForm
	Result        *Result
	HasHistory    bool
	Summary       analytics.Summary
	HistoryLimits []Option
	History       []HistoryRow
	ShowInsights  bool
	ConfirmDelete bool
	StoredCount   int
	ChartVersion  string
	Version       string
}

func theme(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

// resultClass picks the number card style; the special number outranks a hit.
func resultClass(r Result) string {
	switch {
	case r.Special:
		return "special"
	case r.Hit:
		return "hit"
	default:
		return "neutral"
	}
}

func resultMessage(r Result) string {
	switch {
	case r.Special:
		return "✨ SPECIAL NUMBER: " + strconv.Itoa(r.SpecialNumber) + "! ✨"
	case r.Hit:
		return "🎯 DIRECT HIT! Perfect prediction!"
	default:
		return ""
	}
}

// chartURL points an iframe at a chart page; version busts the browser cache
// whenever the history changes.
func chartURL(kind, version string) string {
	return "/charts/" + kind + "?v=" + url.QueryEscape(version)
}
