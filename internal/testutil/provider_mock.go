package testutil

import (
	"context"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/marketdata"
)

// MockProvider is a mock implementation of marketdata.Provider for testing.
// It returns predefined per-symbol data instead of making API calls.
type MockProvider struct {
	// Responses maps symbol to the points its fetch returns.
	Responses map[string][]marketdata.PricePoint
	// Errors maps symbol to the error its fetch returns.
	Errors map[string]error
	// QueryCount tracks how many fetches were issued.
	QueryCount int
	// Calls records the symbols fetched, in call order.
	Calls []string
}

// NewMockProvider creates an empty mock. A symbol with no configured
// response or error fetches successfully with zero points ("no data").
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Responses: make(map[string][]marketdata.PricePoint),
		Errors:    make(map[string]error),
	}
}

// FetchDailyHistory returns the configured response or error for symbol.
func (m *MockProvider) FetchDailyHistory(_ context.Context, symbol string, _, _ time.Time) ([]marketdata.PricePoint, error) {
	m.QueryCount++
	m.Calls = append(m.Calls, symbol)
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	return m.Responses[symbol], nil
}

// WithSeries configures the mock to return the given points for symbol.
func (m *MockProvider) WithSeries(symbol string, points []marketdata.PricePoint) *MockProvider {
	m.Responses[symbol] = points
	return m
}

// WithError configures the mock to fail fetches of symbol.
func (m *MockProvider) WithError(symbol string, err error) *MockProvider {
	m.Errors[symbol] = err
	return m
}

// WithEmptyResponse configures the mock to return no data for symbol.
func (m *MockProvider) WithEmptyResponse(symbol string) *MockProvider {
	m.Responses[symbol] = nil
	return m
}

// Day builds a midnight-UTC date, the form providers return.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Points builds consecutive daily price points starting at start, one per
// close value.
func Points(start time.Time, closes ...float64) []marketdata.PricePoint {
	points := make([]marketdata.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = marketdata.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return points
}
