package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sablier-labs/price-data/internal/domain"
)

// CryptoProvider serves time-ranged price samples for one asset. The provider
// owns rate limiting and retries; callers see either samples or a typed error.
type CryptoProvider interface {
	RangePrices(ctx context.Context, asset domain.Asset, window domain.DayRange) ([]domain.Sample, error)
}

// ForexProvider serves the tracked exchange rate for a single calendar day,
// already inverted and rounded. The upstream API has no range query.
type ForexProvider interface {
	DayRate(ctx context.Context, day time.Time) (decimal.Decimal, error)
}

// LoadedSeries is a persisted series plus the count of rows that failed to
// parse and were skipped.
type LoadedSeries struct {
	Series    domain.Series
	Malformed int
}

// SeriesStore owns the read-modify-write cycle for per-asset series files.
// A missing file loads as an empty series.
type SeriesStore interface {
	Load(ctx context.Context, symbol string) (LoadedSeries, error)
	Save(ctx context.Context, symbol string, series domain.Series) error
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }
