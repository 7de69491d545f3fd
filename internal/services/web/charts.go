package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/louisbranch/mindvsmachine/internal/game/analytics"
	"github.com/louisbranch/mindvsmachine/internal/game/round"
	apperrors "github.com/louisbranch/mindvsmachine/internal/services/web/platform/errors"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/httpx"
)

const (
	chartHeight  = "400px"
	chartWidth   = "100%"
	successColor = "#00ff00"
)

func chartTheme(dark bool) string {
	if dark {
		return types.ThemeChalk
	}
	return types.ThemeWesteros
}

func (a *app) handleDistributionChart(w http.ResponseWriter, r *http.Request) {
	rounds, err := a.store.ListRounds(r.Context())
	if err != nil {
		a.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "Could not load round history.", err))
		return
	}
	state := a.visitors.Get(visitorIDFromRequest(r))
	bar := distributionChart(rounds, state.Settings.DarkMode)
	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		a.writeError(w, r, err)
		return
	}
	_ = httpx.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (a *app) handleHeatmapChart(w http.ResponseWriter, r *http.Request) {
	rounds, err := a.store.ListRounds(r.Context())
	if err != nil {
		a.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "Could not load round history.", err))
		return
	}
	state := a.visitors.Get(visitorIDFromRequest(r))
	settings := chartSettings(state)
	hm := heatmapChart(rounds, settings.Min, settings.Max, settings.DarkMode)
	var buf bytes.Buffer
	if err := hm.Render(&buf); err != nil {
		a.writeError(w, r, err)
		return
	}
	_ = httpx.WriteHTML(w, http.StatusOK, buf.Bytes())
}

// distributionChart bins every generated number into a labelled bar chart.
func distributionChart(rounds []round.Round, dark bool) *charts.Bar {
	bins := analytics.New(rounds).Distribution(analytics.DefaultBins)
	labels := make([]string, 0, len(bins))
	data := make([]opts.BarData, 0, len(bins))
	for _, bin := range bins {
		labels = append(labels, bin.Label)
		data = append(data, opts.BarData{Name: bin.Label, Value: bin.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Number Distribution",
			Theme:     chartTheme(dark),
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Number Distribution"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Number Range"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frequency"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithLegendOpts(opts.Legend{Show: false}),
	)
	bar.SetXAxis(labels).AddSeries("Frequency", data,
		charts.WithLabelOpts(opts.Label{Show: true, Position: "top"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: successColor}),
	)
	return bar
}

// heatmapChart lays [min, max] out in rows of DefaultHeatmapWidth numbers.
// Columns are offsets within a row and rows are labelled by their first number.
func heatmapChart(rounds []round.Round, minVal, maxVal int, dark bool) *charts.HeatMap {
	grid := analytics.New(rounds).Heatmap(minVal, maxVal, analytics.DefaultHeatmapWidth)

	columns := make([]string, analytics.DefaultHeatmapWidth)
	for i := range columns {
		columns[i] = "+" + strconv.Itoa(i)
	}
	rows := make([]string, 0, len(grid))
	data := make([]opts.HeatMapData, 0, len(grid)*analytics.DefaultHeatmapWidth)
	peak := 0
	for y, row := range grid {
		if len(row) > 0 {
			rows = append(rows, row[0].Label)
		}
		for x, cell := range row {
			if cell.Blank {
				continue
			}
			peak = max(peak, cell.Count)
			data = append(data, opts.HeatMapData{
				Name:  cell.Label,
				Value: [3]interface{}{x, y, cell.Count},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Number Frequency Heatmap",
			Theme:     chartTheme(dark),
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Number Frequency Heatmap"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithLegendOpts(opts.Legend{Show: false}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: columns, SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: rows, SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        float32(max(peak, 1)),
			InRange:    &opts.VisualMapInRange{Color: []string{"#f7fcf5", "#74c476", "#00441b"}},
		}),
	)
	hm.SetXAxis(columns).AddSeries("Frequency", data)
	return hm
}
