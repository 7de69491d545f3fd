package analytics

import "fmt"

// DefaultBins is the histogram bin count used by the dashboard.
const DefaultBins = 10

// Bin is one histogram bucket covering [Start, End].
type Bin struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Count int    `json:"count"`
}

// Distribution buckets generated numbers between the smallest and largest
// value seen. The last bin absorbs the remainder of an uneven split and bins
// that would start past the largest value are dropped.
func (a Analytics) Distribution(bins int) []Bin {
	if len(a.rounds) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := a.rounds[0].Generated, a.rounds[0].Generated
	for _, r := range a.rounds[1:] {
		lo = min(lo, r.Generated)
		hi = max(hi, r.Generated)
	}
	size := max(1, (hi-lo+1)/bins)

	out := make([]Bin, 0, bins)
	for i := 0; i < bins; i++ {
		start := lo + i*size
		if start > hi {
			break
		}
		end := start + size - 1
		if i == bins-1 || end > hi {
			end = hi
		}
		out = append(out, Bin{Label: fmt.Sprintf("%d-%d", start, end), Start: start, End: end})
	}
	for _, r := range a.rounds {
		for i := range out {
			if r.Generated >= out[i].Start && r.Generated <= out[i].End {
				out[i].Count++
				break
			}
		}
	}
	return out
}
