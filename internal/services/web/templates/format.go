package templates

import (
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Count formats n with English digit grouping.
func Count(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// Percent formats a 0..100 rate with one decimal place.
func Percent(rate float64) string {
	return message.NewPrinter(language.English).Sprintf("%.1f%%", rate)
}

// Decimal formats v with one decimal place, e.g. an average distance.
func Decimal(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.1f", v)
}

// Times renders a count of occurrences, e.g. "3x".
func Times(n int) string {
	return humanize.Comma(int64(n)) + "x"
}
