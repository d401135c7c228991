package domain

import "github.com/shopspring/decimal"

// MergePolicy decides what happens when a fetched date already exists in the
// persisted series. The two policies are deliberately explicit; callers pick
// one, never a blend.
type MergePolicy int

const (
	// PolicyOverwrite replaces an in-scope entry whenever the fetched value
	// differs. Entries outside the scope are never touched.
	PolicyOverwrite MergePolicy = iota
	// PolicyFillOnly never replaces an existing entry; only genuinely new
	// in-scope dates are added.
	PolicyFillOnly
)

func (p MergePolicy) String() string {
	if p == PolicyFillOnly {
		return "fill-only"
	}
	return "overwrite"
}

// MergeResult reports how a merge went. Changed counts dates whose value was
// added or replaced; callers skip persisting when it is zero.
type MergeResult struct {
	Changed int
	Series  Series
}

// Merge reconciles freshly fetched observations against the persisted series.
// Incoming dates outside scope are ignored. The result is sorted ascending
// and holds each date at most once; duplicate input dates resolve last-wins.
func Merge(existing Series, incoming Series, scope DayRange, policy MergePolicy) MergeResult {
	merged := make(map[string]decimal.Decimal, len(existing)+len(incoming))
	for _, obs := range existing {
		merged[obs.Date] = obs.Value
	}

	// Collapse incoming duplicates first so a date is counted once at most.
	fetched := make(map[string]decimal.Decimal, len(incoming))
	for _, obs := range incoming {
		if scope.ContainsDay(obs.Date) {
			fetched[obs.Date] = obs.Value
		}
	}

	changed := 0
	for date, value := range fetched {
		old, ok := merged[date]
		switch {
		case !ok:
			merged[date] = value
			changed++
		case policy == PolicyFillOnly:
			// existing entries are immutable under fill-only
		case !old.Equal(value):
			merged[date] = value
			changed++
		}
	}

	out := make(Series, 0, len(merged))
	for date, v := range merged {
		out = append(out, Observation{Date: date, Value: v})
	}
	out.Sort()
	return MergeResult{Changed: changed, Series: out}
}
