// Package analytics computes descriptive statistics over round history.
package analytics

import (
	"sort"

	"github.com/louisbranch/mindvsmachine/internal/game/round"
)

// Analytics evaluates an ordered history, oldest round first.
type Analytics struct {
	rounds []round.Round
}

// New wraps rounds without copying them.
func New(rounds []round.Round) Analytics {
	return Analytics{rounds: rounds}
}

// TotalAttempts counts every round.
func (a Analytics) TotalAttempts() int {
	return len(a.rounds)
}

// TotalPredictions counts rounds that carried a prediction.
func (a Analytics) TotalPredictions() int {
	n := 0
	for _, r := range a.rounds {
		if r.Predicted() {
			n++
		}
	}
	return n
}

// TotalHits counts successful predictions.
func (a Analytics) TotalHits() int {
	n := 0
	for _, r := range a.rounds {
		if r.IsHit() {
			n++
		}
	}
	return n
}

// HitRate is the hit percentage over predicted rounds, 0 when none.
func (a Analytics) HitRate() float64 {
	predictions := a.TotalPredictions()
	if predictions == 0 {
		return 0
	}
	return float64(a.TotalHits()) / float64(predictions) * 100
}

// AverageDistance is the mean prediction gap; ok is false without predictions.
func (a Analytics) AverageDistance() (avg float64, ok bool) {
	sum, n := 0, 0
	for _, r := range a.rounds {
		if d, has := r.Distance(); has {
			sum += d
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// NumberFrequency maps each generated number to its occurrence count.
func (a Analytics) NumberFrequency() map[int]int {
	freq := make(map[int]int)
	for _, r := range a.rounds {
		freq[r.Generated]++
	}
	return freq
}

// NumberCount pairs a number with how often it was generated.
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// HotNumbers returns up to n of the most generated numbers.
func (a Analytics) HotNumbers(n int) []NumberCount {
	counts := a.sortedCounts(func(x, y NumberCount) bool {
		if x.Count != y.Count {
			return x.Count > y.Count
		}
		return x.Number < y.Number
	})
	return head(counts, n)
}

// ColdNumbers returns up to n numbers in [min, max] that were generated
// least: never-generated numbers first, then the rarest generated ones.
func (a Analytics) ColdNumbers(n, min, max int) []int {
	if n <= 0 {
		return nil
	}
	freq := a.NumberFrequency()
	cold := make([]int, 0, n)
	for v := min; v <= max && len(cold) < n; v++ {
		if freq[v] == 0 {
			cold = append(cold, v)
		}
	}
	if len(cold) == n {
		return cold
	}
	rare := a.sortedCounts(func(x, y NumberCount) bool {
		if x.Count != y.Count {
			return x.Count < y.Count
		}
		return x.Number < y.Number
	})
	for _, nc := range rare {
		if len(cold) == n {
			break
		}
		cold = append(cold, nc.Number)
	}
	return cold
}

// CurrentStreak counts consecutive hits ending at the newest round.
func (a Analytics) CurrentStreak() int {
	streak := 0
	for i := len(a.rounds) - 1; i >= 0; i-- {
		if !a.rounds[i].IsHit() {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive hits.
func (a Analytics) LongestStreak() int {
	longest, current := 0, 0
	for _, r := range a.rounds {
		if r.IsHit() {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 0
	}
	return longest
}

// SpecialNumberCount counts how often num was generated.
func (a Analytics) SpecialNumberCount(num int) int {
	n := 0
	for _, r := range a.rounds {
		if r.Generated == num {
			n++
		}
	}
	return n
}

// Recent returns up to n rounds, newest first.
func (a Analytics) Recent(n int) []round.Round {
	if n <= 0 || len(a.rounds) == 0 {
		return nil
	}
	if n > len(a.rounds) {
		n = len(a.rounds)
	}
	out := make([]round.Round, 0, n)
	for i := len(a.rounds) - 1; i >= len(a.rounds)-n; i-- {
		out = append(out, a.rounds[i])
	}
	return out
}

func (a Analytics) sortedCounts(less func(x, y NumberCount) bool) []NumberCount {
	freq := a.NumberFrequency()
	counts := make([]NumberCount, 0, len(freq))
	for num, count := range freq {
		counts = append(counts, NumberCount{Number: num, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return less(counts[i], counts[j]) })
	return counts
}

func head(counts []NumberCount, n int) []NumberCount {
	if n <= 0 {
		return nil
	}
	if n > len(counts) {
		n = len(counts)
	}
	return counts[:n]
}
