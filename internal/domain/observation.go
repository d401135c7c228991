package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DayFormat is the canonical layout for observation dates (UTC calendar days).
const DayFormat = "2006-01-02"

// Observation is the canonical value for one asset on one calendar day.
type Observation struct {
	Date  string // YYYY-MM-DD, UTC
	Value decimal.Decimal
}

// Series is the ordered daily history for one asset. A well-formed series is
// sorted ascending by date and contains each date at most once.
type Series []Observation

// Day returns the UTC calendar day of t in DayFormat.
func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Sort orders the series ascending by date in place. ISO dates sort
// lexicographically, so plain string comparison is enough.
func (s Series) Sort() {
	sort.Slice(s, func(i, j int) bool { return s[i].Date < s[j].Date })
}

// Equal reports whether two series carry the same dates and values.
func (s Series) Equal(other Series) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].Date != other[i].Date || !s[i].Value.Equal(other[i].Value) {
			return false
		}
	}
	return true
}
