// Package transform computes cutoff-relative cumulative percentage change
// over per-symbol daily price series.
//
// The change for the first observation of a symbol is undefined and
// contributes zero. Change on or before the cutoff date is suppressed to
// zero, so every cumulative series is anchored at zero through the cutoff
// and departs from it on the first trading day after.
package transform

import (
	"sort"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/marketdata"
)

// ChangeRow is one point of a cumulative-change series for a single symbol.
type ChangeRow struct {
	Date             time.Time
	Name             string
	CumulativeChange float64
}

// CutoffRow is one point of a cumulative-change series for a single
// (symbol, cutoff date) combination, produced by the all-cutoffs variant.
type CutoffRow struct {
	Date             time.Time
	Name             string
	CutoffDate       time.Time
	CumulativeChange float64
}

// dailyChanges computes the day-over-day percentage change for one series.
// change[0] is zero (undefined first observation) and a zero prior close
// contributes zero rather than dividing by it.
func dailyChanges(points []marketdata.PricePoint) []float64 {
	changes := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Close
		if prev == 0 {
			continue
		}
		changes[i] = (points[i].Close - prev) / prev
	}
	return changes
}

// sortedPoints returns a date-ascending copy of the series points. Providers
// already return ascending dates; this keeps grouping correct regardless.
func sortedPoints(s marketdata.Series) []marketdata.PricePoint {
	points := make([]marketdata.PricePoint, len(s.Points))
	copy(points, s.Points)
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// CumulativeChange computes the cumulative percentage change of every symbol
// in the history relative to a single cutoff date.
//
// Per symbol, in ascending date order: the day-over-day change is zeroed for
// every date at or before the cutoff, then summed into a running total. The
// output is ticker-major, one row per observation. A symbol with a single
// observation yields one row with cumulative change zero.
func CumulativeChange(h *marketdata.History, cutoff time.Time) []ChangeRow {
	var rows []ChangeRow
	for _, series := range h.Series {
		points := sortedPoints(series)
		changes := dailyChanges(points)

		cumulative := 0.0
		for i, p := range points {
			if p.Date.After(cutoff) {
				cumulative += changes[i]
			}
			rows = append(rows, ChangeRow{
				Date:             p.Date,
				Name:             series.Symbol,
				CumulativeChange: cumulative,
			})
		}
	}
	return rows
}

// AllCutoffs materializes the cumulative-change series of every symbol for
// every distinct date in the history treated as the cutoff, filtered to
// dates at or after each cutoff.
//
// Memory grows with observations × distinct dates. This is a deliberate
// bounded-input trade: precomputing every cutoff lets a client switch cutoff
// instantly without refetching. Do not feed it multi-year ranges.
func AllCutoffs(h *marketdata.History) []CutoffRow {
	cutoffs := h.Dates()

	var rows []CutoffRow
	for _, series := range h.Series {
		points := sortedPoints(series)
		changes := dailyChanges(points)

		for _, cutoff := range cutoffs {
			cumulative := 0.0
			for i, p := range points {
				if p.Date.After(cutoff) {
					cumulative += changes[i]
				}
				if p.Date.Before(cutoff) {
					continue
				}
				rows = append(rows, CutoffRow{
					Date:             p.Date,
					Name:             series.Symbol,
					CutoffDate:       cutoff,
					CumulativeChange: cumulative,
				})
			}
		}
	}
	return rows
}

// FilterRows returns the change rows belonging to the given symbols,
// preserving row order.
func FilterRows(rows []ChangeRow, names []string) []ChangeRow {
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		keep[n] = struct{}{}
	}
	var filtered []ChangeRow
	for _, r := range rows {
		if _, ok := keep[r.Name]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
