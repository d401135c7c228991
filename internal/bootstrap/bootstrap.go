package bootstrap

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sablier-labs/price-data/internal/application"
	"github.com/sablier-labs/price-data/internal/config"
	"github.com/sablier-labs/price-data/internal/domain"
	"github.com/sablier-labs/price-data/internal/infrastructure/httpx"
	"github.com/sablier-labs/price-data/internal/infrastructure/provider"
	"github.com/sablier-labs/price-data/internal/infrastructure/tsvstore"
	"github.com/sablier-labs/price-data/internal/logx"
)

// App wires the fetch pipeline together from environment configuration.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	Service *application.PriceDataService
	Batch   *application.Batch
}

// Init builds the store, providers and service. Credentials are checked at
// call time by the providers, not here; fake providers need none.
func Init(policy domain.MergePolicy) *App {
	cfg := config.Load()
	log := logx.L()

	client := &httpx.Client{
		HTTP:       &http.Client{Timeout: cfg.RequestTimeout},
		Limiter:    rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBase,
		FloorDelay: cfg.RetryFloor,
		Log:        log,
	}

	var crypto application.CryptoProvider
	var forex application.ForexProvider
	switch cfg.Provider {
	case "fake":
		crypto = provider.NewFakeCrypto(1.0)
		forex = provider.NewFakeForex(0.9)
	default:
		crypto = &provider.CoinGeckoProvider{BaseURL: cfg.CoinGeckoBase, APIKey: cfg.CoinGeckoKey, Client: client}
		forex = &provider.ExchangeRatesProvider{BaseURL: cfg.ForexBase, APIKey: cfg.ForexKey, Client: client}
	}

	store := tsvstore.New(cfg.DataDir, log)
	svc := application.NewPriceDataService(store, crypto, forex,
		application.WithPolicy(policy),
		application.WithLogger(log),
	)

	return &App{
		Config:  cfg,
		Log:     log,
		Service: svc,
		Batch:   &application.Batch{Service: svc, Log: log},
	}
}
