package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	DataDir  string
	// Providers
	Provider       string // "http" or "fake"
	CoinGeckoBase  string
	CoinGeckoKey   string
	ForexBase      string
	ForexKey       string
	RequestTimeout time.Duration
	// Retry / rate budget
	RequestDelay time.Duration // steady-state spacing between calls
	MaxRetries   int
	RetryBase    time.Duration // exponential backoff seed
	RetryFloor   time.Duration // minimum retry wait, even with a zero hint
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, defMS int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:            getEnv("ENV", "local"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DataDir:        getEnv("DATA_DIR", "data"),
		Provider:       getEnv("PROVIDER", "http"),
		CoinGeckoBase:  getEnv("COINGECKO_API_BASE", "https://pro-api.coingecko.com"),
		CoinGeckoKey:   getEnv("COINGECKO_API_KEY", ""),
		ForexBase:      getEnv("FOREX_API_BASE", "https://api.exchangeratesapi.io"),
		ForexKey:       getEnv("FOREX_API_KEY", ""),
		RequestTimeout: durMS("REQUEST_TIMEOUT_MS", 15000),
		RequestDelay:   durMS("REQUEST_DELAY_MS", 1200),
		MaxRetries:     atoiDef(getEnv("MAX_RETRIES", "5"), 5),
		RetryBase:      durMS("RETRY_BASE_MS", 500),
		RetryFloor:     durMS("RETRY_FLOOR_MS", 1000),
	}
}
