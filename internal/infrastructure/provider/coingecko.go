package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sablier-labs/price-data/internal/application"
	"github.com/sablier-labs/price-data/internal/domain"
	"github.com/sablier-labs/price-data/internal/infrastructure/httpx"
)

const (
	marketChartRangePath = "/api/v3/coins/%s/market_chart/range"
	quoteCurrency        = "usd"
	apiKeyHeader         = "x-cg-pro-api-key"
)

// CoinGeckoProvider fetches historical spot prices via the market_chart/range
// endpoint. The API serves at most 365 days of history per key tier and rate
// limits aggressively; retries live in the httpx client.
type CoinGeckoProvider struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
}

var _ application.CryptoProvider = (*CoinGeckoProvider)(nil)

type marketChartResp struct {
	Prices [][2]float64 `json:"prices"`
}

func (p *CoinGeckoProvider) RangePrices(ctx context.Context, asset domain.Asset, window domain.DayRange) ([]domain.Sample, error) {
	if p.BaseURL == "" {
		return nil, fmt.Errorf("%w: coingecko base URL is empty", domain.ErrConfig)
	}
	if p.APIKey == "" {
		return nil, fmt.Errorf("%w: COINGECKO_API_KEY is not set", domain.ErrConfig)
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid coingecko base URL: %v", domain.ErrConfig, err)
	}
	u.Path = fmt.Sprintf(marketChartRangePath, asset.ProviderID)
	q := u.Query()
	q.Set("vs_currency", quoteCurrency)
	q.Set("from", fmt.Sprint(window.From.Unix()))
	// inclusive day range: stretch "to" to the end of its day
	q.Set("to", fmt.Sprint(window.To.AddDate(0, 0, 1).Add(-time.Second).Unix()))
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set(apiKeyHeader, p.APIKey)

	var body marketChartResp
	if err := p.Client.GetJSON(ctx, u.String(), header, &body); err != nil {
		return nil, fmt.Errorf("coingecko %s: %w", asset.ProviderID, err)
	}

	samples := make([]domain.Sample, 0, len(body.Prices))
	for _, pair := range body.Prices {
		samples = append(samples, domain.Sample{
			At:    time.UnixMilli(int64(pair[0])).UTC(),
			Value: decimal.NewFromFloat(pair[1]),
		})
	}
	return samples, nil
}
