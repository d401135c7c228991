package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Sample is one raw provider data point, possibly one of many for a day.
type Sample struct {
	At    time.Time
	Value decimal.Decimal
}

// Normalize collapses raw samples into one observation per UTC calendar day.
// When a day carries several samples the last one in timestamp order wins,
// which approximates a closing value. Days without samples are absent.
func Normalize(samples []Sample) Series {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	byDay := make(map[string]decimal.Decimal, len(sorted))
	for _, s := range sorted {
		byDay[Day(s.At)] = s.Value
	}

	out := make(Series, 0, len(byDay))
	for date, v := range byDay {
		out = append(out, Observation{Date: date, Value: v})
	}
	out.Sort()
	return out
}
