// Package dashboard turns transformed price data into the structures the
// dashboard UI consumes: option lists, status strings, and chart figures.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/marketdata"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/transform"
)

// DateFormat is the ISO date form used for option values and chart axes.
const DateFormat = "2006-01-02"

// Option is one selectable entry of a dropdown.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Series is one line of a figure: a symbol with its x (ISO dates) and
// y (cumulative change) values.
type Series struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// Figure is a chart-ready line plot description.
type Figure struct {
	Title       string   `json:"title"`
	XLabel      string   `json:"x_label"`
	YLabel      string   `json:"y_label"`
	SeriesLabel string   `json:"series_label"`
	Series      []Series `json:"series"`
	ZeroLine    bool     `json:"zero_line"`
}

// Placeholder returns an empty figure whose title explains why there is
// nothing to plot.
func Placeholder(title string) Figure {
	return Figure{Title: title}
}

// CutoffOptions lists the distinct dates of the downloaded history,
// ascending, as label = value = ISO date.
func CutoffOptions(h *marketdata.History) []Option {
	dates := h.Dates()
	options := make([]Option, len(dates))
	for i, d := range dates {
		iso := d.Format(DateFormat)
		options[i] = Option{Label: iso, Value: iso}
	}
	return options
}

// StockOptions lists the uploaded symbols that produced data, de-duplicated,
// in original upload order. A symbol whose fetch failed appears in no option
// list.
func StockOptions(uploaded []string, h *marketdata.History) []Option {
	available := make(map[string]struct{})
	for _, s := range h.Series {
		available[s.Symbol] = struct{}{}
	}

	seen := make(map[string]struct{}, len(uploaded))
	var options []Option
	for _, symbol := range uploaded {
		if _, ok := available[symbol]; !ok {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		options = append(options, Option{Label: symbol, Value: symbol})
	}
	return options
}

// Status composes the user-facing status line: the upload message plus any
// accumulated fetch errors, comma-joined.
func Status(uploadMessage string, fetchErrors []marketdata.FetchError) string {
	return uploadMessage + ErrorSuffix(fetchErrors)
}

// ErrorSuffix renders fetch errors as the " Errors: ..." suffix appended to
// status strings, or "" when there are none.
func ErrorSuffix(fetchErrors []marketdata.FetchError) string {
	if len(fetchErrors) == 0 {
		return ""
	}
	return fmt.Sprintf(" Errors: %s", strings.Join(marketdata.Messages(fetchErrors), ", "))
}

// BuildFigure assembles the line chart for the given change rows. Rows are
// grouped into one series per name, in the order names first appear; the
// title names the plotted symbols and the cutoff.
func BuildFigure(rows []transform.ChangeRow, cutoff time.Time) Figure {
	index := make(map[string]int)
	var series []Series
	for _, row := range rows {
		i, ok := index[row.Name]
		if !ok {
			i = len(series)
			index[row.Name] = i
			series = append(series, Series{Name: row.Name})
		}
		series[i].X = append(series[i].X, row.Date.Format(DateFormat))
		series[i].Y = append(series[i].Y, row.CumulativeChange)
	}

	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
	}

	return Figure{
		Title: fmt.Sprintf("Cumulative Change for %s (Cutoff: %s)",
			strings.Join(names, ", "), cutoff.Format(DateFormat)),
		XLabel:      "Date",
		YLabel:      "Cumulative Change",
		SeriesLabel: "Stock",
		Series:      series,
		ZeroLine:    true,
	}
}
