// Package export writes fetched price series to per-symbol files in CSV or
// Parquet form. Exported files are write-only artifacts; nothing in the
// system reads them back.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/dashboard"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/marketdata"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/transform"
)

// Format selects the on-disk representation of an export.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a format name. The empty string defaults to CSV.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "csv":
		return FormatCSV, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnknownExportFormat, name)
	}
}

// PriceRecord is the Parquet schema for exported daily closes.
type PriceRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Close     float64 `parquet:"close"`
}

// WriteSeries writes one symbol's history as
// {symbol}_historical_data.{csv|parquet} under dir, creating dir as needed.
// Returns the path of the written file.
func WriteSeries(dir string, series marketdata.Series, format Format) (string, error) {
	switch format {
	case FormatCSV:
		return writeSeriesCSV(dir, series)
	case FormatParquet:
		return writeSeriesParquet(dir, series)
	default:
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnknownExportFormat, format)
	}
}

func writeSeriesCSV(dir string, series marketdata.Series) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_historical_data.csv", series.Symbol))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Close", "Name"}); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}
	for _, p := range series.Points {
		row := []string{
			p.Date.Format(dashboard.DateFormat),
			strconv.FormatFloat(p.Close, 'f', -1, 64),
			series.Symbol,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}
	return path, nil
}

func writeSeriesParquet(dir string, series marketdata.Series) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_historical_data.parquet", series.Symbol))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}

	records := make([]PriceRecord, len(series.Points))
	for i, p := range series.Points {
		records[i] = PriceRecord{
			Symbol:    series.Symbol,
			Timestamp: p.Date.UnixMilli(),
			Close:     p.Close,
		}
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}
	return path, nil
}

// WriteCutoffCSV writes the all-cutoffs series of one symbol as
// {symbol}_cumulative_changes.csv under dir. Rows not belonging to the
// symbol are skipped.
func WriteCutoffCSV(dir, symbol string, rows []transform.CutoffRow) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_cumulative_changes.csv", symbol))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Name", "Cutoff_Date", "Cumulative_Change"}); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}
	for _, row := range rows {
		if row.Name != symbol {
			continue
		}
		record := []string{
			row.Date.Format(dashboard.DateFormat),
			row.Name,
			row.CutoffDate.Format(dashboard.DateFormat),
			strconv.FormatFloat(row.CumulativeChange, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteExport, err)
	}
	return path, nil
}
