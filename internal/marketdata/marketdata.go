// Package marketdata retrieves daily closing prices for ticker symbols from
// an external market data provider and normalizes them into per-symbol
// series.
package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
)

// PricePoint is one daily observation: the closing price on a trading date.
// Dates are normalized to midnight UTC.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// Series holds the daily closes fetched for a single symbol, ascending by
// date.
type Series struct {
	Symbol string
	Points []PricePoint
}

// History is the concatenation of all per-symbol series for one download,
// in the order the symbols were requested.
type History struct {
	Series []Series
}

// Symbols returns the symbols that produced data, in request order.
func (h *History) Symbols() []string {
	symbols := make([]string, len(h.Series))
	for i, s := range h.Series {
		symbols[i] = s.Symbol
	}
	return symbols
}

// Dates returns the distinct observation dates across all series, ascending.
func (h *History) Dates() []time.Time {
	seen := make(map[int64]struct{})
	var dates []time.Time
	for _, s := range h.Series {
		for _, p := range s.Points {
			if _, ok := seen[p.Date.Unix()]; !ok {
				seen[p.Date.Unix()] = struct{}{}
				dates = append(dates, p.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// FetchError records a per-symbol fetch failure. Failures never abort the
// batch; they are accumulated and surfaced alongside partial results.
type FetchError struct {
	Symbol string
	Reason string
}

// Message returns the user-facing form, e.g. "ZZZZ: No data available".
func (e FetchError) Message() string {
	return fmt.Sprintf("%s: %s", e.Symbol, e.Reason)
}

func (e FetchError) Error() string {
	return e.Message()
}

// Messages renders a slice of fetch errors to their user-facing strings.
func Messages(errs []FetchError) []string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message()
	}
	return msgs
}

// Provider fetches the daily price history for one symbol. Start is
// inclusive, end exclusive. An empty result with a nil error means the
// provider knows the symbol but has no rows in the range.
type Provider interface {
	FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]PricePoint, error)
}

// Downloader fetches histories for a whole watchlist, one provider call per
// symbol, strictly sequentially.
type Downloader struct {
	provider Provider
}

// NewDownloader creates a Downloader backed by the given provider.
func NewDownloader(provider Provider) *Downloader {
	return &Downloader{provider: provider}
}

// DownloadAll fetches the daily history for every symbol in order.
//
// A symbol with no data yields a "No data available" FetchError; a provider
// failure yields an "Error - ..." FetchError; both continue the batch. When
// every symbol fails the returned error is apperrors.ErrNoValidData and the
// accumulated fetch errors accompany it.
func (d *Downloader) DownloadAll(ctx context.Context, symbols []string, start, end time.Time) (*History, []FetchError, error) {
	history := &History{}
	var fetchErrors []FetchError

	for _, symbol := range symbols {
		points, err := d.provider.FetchDailyHistory(ctx, symbol, start, end)
		if err != nil {
			fetchErrors = append(fetchErrors, FetchError{
				Symbol: symbol,
				Reason: fmt.Sprintf("Error - %s", err.Error()),
			})
			continue
		}
		if len(points) == 0 {
			fetchErrors = append(fetchErrors, FetchError{
				Symbol: symbol,
				Reason: "No data available",
			})
			continue
		}

		sorted := make([]PricePoint, len(points))
		copy(sorted, points)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

		history.Series = append(history.Series, Series{Symbol: symbol, Points: sorted})
	}

	if len(history.Series) == 0 {
		return nil, fetchErrors, apperrors.ErrNoValidData
	}
	return history, fetchErrors, nil
}
