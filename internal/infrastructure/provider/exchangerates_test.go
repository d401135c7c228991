package provider_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sablier-labs/price-data/internal/domain"
	"github.com/sablier-labs/price-data/internal/infrastructure/provider"
)

const historicalOK = `{
  "success": true,
  "base": "EUR",
  "date": "2025-02-03",
  "rates": { "USD": 1.20 }
}`

func Test_DayRate_InvertsAndRoundsToFourPlaces(t *testing.T) {
	var gotURL string
	p := &provider.ExchangeRatesProvider{
		BaseURL: "https://api.exchangeratesapi.io",
		APIKey:  "test",
		Client: clientFor(func(r *http.Request) *http.Response {
			gotURL = r.URL.String()
			return jsonResponse(historicalOK)
		}),
	}

	rate, err := p.DayRate(context.Background(), time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	// 1 / 1.20 rounded to 4 places
	require.Equal(t, "0.8333", rate.String())
	require.Contains(t, gotURL, "/v1/2025-02-03")
	require.Contains(t, gotURL, "base=EUR")
	require.Contains(t, gotURL, "symbols=USD")
}

func Test_DayRate_MissingKey_IsConfigError(t *testing.T) {
	p := &provider.ExchangeRatesProvider{
		BaseURL: "https://api.exchangeratesapi.io",
		Client:  clientFor(func(r *http.Request) *http.Response { return jsonResponse(historicalOK) }),
	}
	_, err := p.DayRate(context.Background(), time.Now())
	require.ErrorIs(t, err, domain.ErrConfig)
}

func Test_DayRate_APIError(t *testing.T) {
	body := `{"success": false, "error": {"code": 104, "info": "quota exceeded"}}`
	p := &provider.ExchangeRatesProvider{
		BaseURL: "https://api.exchangeratesapi.io",
		APIKey:  "bad",
		Client:  clientFor(func(r *http.Request) *http.Response { return jsonResponse(body) }),
	}
	_, err := p.DayRate(context.Background(), time.Now())
	require.ErrorContains(t, err, "quota exceeded")
}

func Test_DayRate_MissingRate(t *testing.T) {
	body := `{"success": true, "base": "EUR", "rates": {}}`
	p := &provider.ExchangeRatesProvider{
		BaseURL: "https://api.exchangeratesapi.io",
		APIKey:  "test",
		Client:  clientFor(func(r *http.Request) *http.Response { return jsonResponse(body) }),
	}
	_, err := p.DayRate(context.Background(), time.Now())
	require.ErrorContains(t, err, "missing rate")
}

func Test_DayRate_ZeroRate(t *testing.T) {
	body := `{"success": true, "base": "EUR", "rates": {"USD": 0}}`
	p := &provider.ExchangeRatesProvider{
		BaseURL: "https://api.exchangeratesapi.io",
		APIKey:  "test",
		Client:  clientFor(func(r *http.Request) *http.Response { return jsonResponse(body) }),
	}
	_, err := p.DayRate(context.Background(), time.Now())
	require.ErrorContains(t, err, "zero rate")
}
