package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sablier-labs/price-data/internal/application"
	"github.com/sablier-labs/price-data/internal/domain"
	"github.com/sablier-labs/price-data/internal/infrastructure/httpx"
)

const (
	forexBaseCurrency = "EUR"
	// the stored series is EUR per USD, so the reported USD-per-EUR rate
	// gets inverted and rounded to four places
	rateScale = 4
)

// ExchangeRatesProvider fetches one day's rate map from an
// exchangeratesapi.io-style historical endpoint (`/v1/{date}`). There is no
// range query; callers loop over days.
type ExchangeRatesProvider struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
}

var _ application.ForexProvider = (*ExchangeRatesProvider)(nil)

type xrHistoricalResp struct {
	Success bool               `json:"success"`
	Base    string             `json:"base"`
	Date    string             `json:"date"`
	Rates   map[string]float64 `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

func (p *ExchangeRatesProvider) DayRate(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	if p.BaseURL == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: forex base URL is empty", domain.ErrConfig)
	}
	if p.APIKey == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: FOREX_API_KEY is not set", domain.ErrConfig)
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid forex base URL: %v", domain.ErrConfig, err)
	}
	u.Path = "/v1/" + domain.Day(day)
	q := u.Query()
	q.Set("access_key", p.APIKey)
	q.Set("base", forexBaseCurrency)
	q.Set("symbols", domain.ForexAsset.ProviderID)
	u.RawQuery = q.Encode()

	var body xrHistoricalResp
	if err := p.Client.GetJSON(ctx, u.String(), nil, &body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("exchangerates %s: %w", domain.Day(day), err)
	}
	if !body.Success {
		if body.Error != nil {
			return decimal.Decimal{}, fmt.Errorf("exchangerates: %d %s", body.Error.Code, body.Error.Info)
		}
		return decimal.Decimal{}, errors.New("exchangerates: unsuccessful response")
	}

	rate, ok := body.Rates[domain.ForexAsset.ProviderID]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("exchangerates: missing rate for %s", domain.ForexAsset.ProviderID)
	}
	if rate == 0 {
		return decimal.Decimal{}, errors.New("exchangerates: zero rate")
	}
	return decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(rate), rateScale), nil
}
