package analytics

// Summary is a snapshot of every headline statistic.
type Summary struct {
	TotalAttempts      int           `json:"total_attempts"`
	TotalPredictions   int           `json:"total_predictions"`
	TotalHits          int           `json:"total_hits"`
	HitRate            float64       `json:"hit_rate"`
	AverageDistance    *float64      `json:"average_distance"`
	CurrentStreak      int           `json:"current_streak"`
	LongestStreak      int           `json:"longest_streak"`
	HotNumbers         []NumberCount `json:"hot_numbers"`
	ColdNumbers        []int         `json:"cold_numbers"`
	SpecialNumber      int           `json:"special_number"`
	SpecialNumberCount int           `json:"special_number_count"`
	Distribution       []Bin         `json:"distribution"`
}

// SummaryOptions scopes the range-dependent parts of a Summary.
type SummaryOptions struct {
	Min           int
	Max           int
	TopN          int
	Bins          int
	SpecialNumber int
}

// Summarize computes a Summary.
func (a Analytics) Summarize(opts SummaryOptions) Summary {
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	if opts.Bins <= 0 {
		opts.Bins = DefaultBins
	}
	s := Summary{
		TotalAttempts:      a.TotalAttempts(),
		TotalPredictions:   a.TotalPredictions(),
		TotalHits:          a.TotalHits(),
		HitRate:            a.HitRate(),
		CurrentStreak:      a.CurrentStreak(),
		LongestStreak:      a.LongestStreak(),
		HotNumbers:         a.HotNumbers(opts.TopN),
		ColdNumbers:        a.ColdNumbers(opts.TopN, opts.Min, opts.Max),
		SpecialNumber:      opts.SpecialNumber,
		SpecialNumberCount: a.SpecialNumberCount(opts.SpecialNumber),
		Distribution:       a.Distribution(opts.Bins),
	}
	if avg, ok := a.AverageDistance(); ok {
		s.AverageDistance = &avg
	}
	return s
}
