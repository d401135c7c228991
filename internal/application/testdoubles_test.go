package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sablier-labs/price-data/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

// fakeStore keeps series in memory so repeated Process calls observe their
// own writes, like the real file store does.
type fakeStore struct {
	series    map[string]domain.Series
	malformed map[string]int
	saves     int
	loadErr   error
	saveErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{series: map[string]domain.Series{}, malformed: map[string]int{}}
}

func (f *fakeStore) Load(_ context.Context, symbol string) (LoadedSeries, error) {
	if f.loadErr != nil {
		return LoadedSeries{}, f.loadErr
	}
	return LoadedSeries{Series: f.series[symbol], Malformed: f.malformed[symbol]}, nil
}

func (f *fakeStore) Save(_ context.Context, symbol string, series domain.Series) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.series[symbol] = series
	f.saves++
	return nil
}

// fakeCrypto replays a fixed sample set; errFor fails a specific asset.
type fakeCrypto struct {
	samples []domain.Sample
	errFor  map[string]error
	calls   int
}

func (f *fakeCrypto) RangePrices(_ context.Context, asset domain.Asset, _ domain.DayRange) ([]domain.Sample, error) {
	f.calls++
	if err := f.errFor[asset.Symbol]; err != nil {
		return nil, err
	}
	return f.samples, nil
}

type fakeForex struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (f *fakeForex) DayRate(_ context.Context, _ time.Time) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Decimal{}, f.err
	}
	return f.rate, nil
}
