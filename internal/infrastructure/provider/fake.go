package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sablier-labs/price-data/internal/application"
	"github.com/sablier-labs/price-data/internal/domain"
)

// Ensure the fakes satisfy the application ports.
var (
	_ application.CryptoProvider = (*FakeCrypto)(nil)
	_ application.ForexProvider  = (*FakeForex)(nil)
)

// FakeCrypto returns one fixed-price sample per day of the window. Used by
// bootstrap's "fake" provider mode and by tests.
type FakeCrypto struct {
	Price decimal.Decimal
	Err   error
}

func NewFakeCrypto(price float64) *FakeCrypto {
	return &FakeCrypto{Price: decimal.NewFromFloat(price)}
}

func (f *FakeCrypto) RangePrices(_ context.Context, _ domain.Asset, window domain.DayRange) ([]domain.Sample, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	days := window.Days()
	samples := make([]domain.Sample, 0, len(days))
	for _, d := range days {
		samples = append(samples, domain.Sample{At: d.Add(12 * time.Hour), Value: f.Price})
	}
	return samples, nil
}

// FakeForex returns a fixed rate for every day.
type FakeForex struct {
	Rate decimal.Decimal
	Err  error
}

func NewFakeForex(rate float64) *FakeForex {
	return &FakeForex{Rate: decimal.NewFromFloat(rate)}
}

func (f *FakeForex) DayRate(_ context.Context, _ time.Time) (decimal.Decimal, error) {
	if f.Err != nil {
		return decimal.Decimal{}, f.Err
	}
	return f.Rate, nil
}
