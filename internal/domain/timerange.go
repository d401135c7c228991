package domain

import (
	"fmt"
	"time"
)

// MaxLookbackDays is how far back the crypto provider serves history.
const MaxLookbackDays = 365

// DayRange is an inclusive range of UTC calendar days. From and To are
// midnights; To names the last day included.
type DayRange struct {
	From time.Time
	To   time.Time
}

func (r DayRange) String() string {
	return r.From.Format(DayFormat) + ".." + r.To.Format(DayFormat)
}

// ContainsDay reports whether the day (DayFormat string) falls inside the range.
func (r DayRange) ContainsDay(date string) bool {
	return date >= r.From.Format(DayFormat) && date <= r.To.Format(DayFormat)
}

// Days enumerates every calendar day of the range in ascending order.
func (r DayRange) Days() []time.Time {
	var out []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthRange resolves (year, month) into a fetchable day range as of now.
//
// The current month ends at yesterday: today's value is not final. A month
// reaching past the provider's lookback limit is clamped to the earliest
// allowed day; a month wholly beyond it fails naming the earliest valid month.
func MonthRange(year, month int, now time.Time) (DayRange, error) {
	if month < 1 || month > 12 {
		return DayRange{}, fmt.Errorf("%w: month %d out of 1..12", ErrInvalidRange, month)
	}
	today := midnight(now)
	yesterday := today.AddDate(0, 0, -1)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	if start.After(today) {
		return DayRange{}, fmt.Errorf("%w: %04d-%02d", ErrFutureDate, year, month)
	}
	end := start.AddDate(0, 1, -1)
	if end.After(yesterday) {
		end = yesterday
	}

	earliest := today.AddDate(0, 0, -MaxLookbackDays)
	if end.Before(earliest) {
		return DayRange{}, fmt.Errorf("%w: provider history starts %s, earliest full month is %s",
			ErrInvalidRange, earliest.Format(DayFormat), earliest.AddDate(0, 1, 0).Format("2006-01"))
	}
	if start.Before(earliest) {
		start = earliest
	}
	if start.After(end) {
		return DayRange{}, fmt.Errorf("%w: %04d-%02d has no finalized days before %s",
			ErrInvalidRange, year, month, today.Format(DayFormat))
	}
	return DayRange{From: start, To: end}, nil
}

// RecentDaysRange resolves "the most recent n days" as of now. Today is
// always excluded; the start is clamped to the provider lookback limit.
func RecentDaysRange(n int, now time.Time) (DayRange, error) {
	if n < 1 {
		return DayRange{}, fmt.Errorf("%w: day count %d must be positive", ErrInvalidRange, n)
	}
	today := midnight(now)
	start := today.AddDate(0, 0, -n)
	if earliest := today.AddDate(0, 0, -MaxLookbackDays); start.Before(earliest) {
		start = earliest
	}
	return DayRange{From: start, To: today.AddDate(0, 0, -1)}, nil
}

// MonthsOfYear expands a "--month all" request. For the current year only
// months that have already started are returned; future years yield nothing.
func MonthsOfYear(year int, now time.Time) []int {
	now = now.UTC()
	last := 12
	switch {
	case year > now.Year():
		return nil
	case year == now.Year():
		last = int(now.Month())
	}
	months := make([]int, 0, last)
	for m := 1; m <= last; m++ {
		months = append(months, m)
	}
	return months
}
