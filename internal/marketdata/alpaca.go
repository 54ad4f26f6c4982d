package marketdata

import (
	"context"
	"fmt"
	"time"

	alpacadata "github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// Compile-time interface check.
var _ Provider = (*AlpacaProvider)(nil)

// AlpacaProvider fetches daily bars from the Alpaca Market Data API.
// Requires an API key pair; selected with MARKET_PROVIDER=alpaca.
type AlpacaProvider struct {
	client *alpacadata.Client
	feed   string
}

// NewAlpacaProvider creates an Alpaca provider with the given credentials.
// baseURL and feed may be empty to use the SDK defaults ("iex" feed on free
// plans).
func NewAlpacaProvider(apiKey, apiSecret, baseURL, feed string) *AlpacaProvider {
	opts := alpacadata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if baseURL != "" {
		opts.BaseURL = baseURL
	}
	return &AlpacaProvider{
		client: alpacadata.NewClient(opts),
		feed:   feed,
	}
}

// FetchDailyHistory fetches daily closes for symbol in [start, end).
// Only the close column of each bar is kept.
func (p *AlpacaProvider) FetchDailyHistory(_ context.Context, symbol string, start, end time.Time) ([]PricePoint, error) {
	req := alpacadata.GetBarsRequest{
		TimeFrame: alpacadata.OneDay,
		Start:     start,
		// The Alpaca end bound is inclusive; step back one second to keep
		// the [start, end) contract.
		End: end.Add(-time.Second),
	}
	if p.feed != "" {
		req.Feed = alpacadata.Feed(p.feed)
	}

	bars, err := p.client.GetBars(symbol, req)
	if err != nil {
		return nil, fmt.Errorf("GetBars: %w", err)
	}

	points := make([]PricePoint, 0, len(bars))
	for _, bar := range bars {
		day := bar.Timestamp.UTC().Truncate(24 * time.Hour)
		points = append(points, PricePoint{Date: day, Close: bar.Close})
	}
	return points, nil
}
