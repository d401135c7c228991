package domain

import "sort"

// Asset is a tracked instrument: a stable symbol (also the file name stem)
// mapped to the identifier the upstream provider knows it by.
type Asset struct {
	Symbol     string
	ProviderID string
}

// cryptoAssets maps ticker symbols to CoinGecko coin ids. The table is fixed
// at compile time; there is no mutation lifecycle.
var cryptoAssets = map[string]Asset{
	"DAI":  {Symbol: "dai", ProviderID: "dai"},
	"ETH":  {Symbol: "eth", ProviderID: "ethereum"},
	"LINK": {Symbol: "link", ProviderID: "chainlink"},
	"UNI":  {Symbol: "uni", ProviderID: "uniswap"},
	"USDC": {Symbol: "usdc", ProviderID: "usd-coin"},
	"USDT": {Symbol: "usdt", ProviderID: "tether"},
	"WBTC": {Symbol: "wbtc", ProviderID: "wrapped-bitcoin"},
}

// ForexAsset is the single exchange-rate series tracked: EUR per USD. The
// provider reports USD per EUR, so the stored value is the reciprocal.
var ForexAsset = Asset{Symbol: "usd-eur", ProviderID: "USD"}

// CryptoAsset looks up a ticker in the static table.
func CryptoAsset(ticker string) (Asset, bool) {
	a, ok := cryptoAssets[ticker]
	return a, ok
}

// CryptoTickers returns all known tickers, sorted.
func CryptoTickers() []string {
	out := make([]string, 0, len(cryptoAssets))
	for t := range cryptoAssets {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
