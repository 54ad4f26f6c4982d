package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Compile-time interface check.
var _ Provider = (*YahooProvider)(nil)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider fetches daily price history from the Yahoo Finance chart API.
// It wraps an HTTP client and normalizes the chart response into flat
// (date, close) points.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooProvider creates a Yahoo Finance provider with default HTTP
// settings.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultYahooBaseURL,
	}
}

// NewYahooProviderWithBaseURL creates a provider pointed at an alternate
// endpoint. Used by tests to target a local server.
func NewYahooProviderWithBaseURL(baseURL string) *YahooProvider {
	p := NewYahooProvider()
	p.baseURL = baseURL
	return p
}

// FetchDailyHistory fetches daily closes for symbol in [start, end).
//
// Rows with a null close (Yahoo emits these for halted or partial days) are
// skipped. Open/high/low/volume columns are discarded. An empty chart is
// returned as an empty slice with a nil error so the caller can distinguish
// "no data" from a failed call.
func (p *YahooProvider) FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]PricePoint, error) {
	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		p.baseURL,
		symbol,
		start.Unix(),
		end.Unix(),
	)

	response, err := p.queryYahoo(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(response.Chart.Result) == 0 {
		return nil, nil
	}

	result := response.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, nil
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("yahoo: mismatched data lengths for %s", symbol)
	}

	points := make([]PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		points = append(points, PricePoint{Date: day, Close: *closes[i]})
	}
	return points, nil
}

// queryYahoo executes one request against the chart API and checks the
// embedded error field.
func (p *YahooProvider) queryYahoo(ctx context.Context, url string) (YahooResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return YahooResponse{}, err
	}

	// Yahoo rejects requests without a browser-like User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return YahooResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return YahooResponse{}, err
	}

	var response YahooResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return YahooResponse{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}

	return response, nil
}
