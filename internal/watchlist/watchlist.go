// Package watchlist parses uploaded stock-list CSV files into an ordered
// list of ticker symbols.
package watchlist

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
)

// StockColumn is the required header column carrying ticker symbols.
const StockColumn = "Stock"

// Watchlist is an ordered list of ticker symbols parsed from an upload.
// Duplicates are preserved; the order matches the row order of the file.
type Watchlist struct {
	Filename string
	Symbols  []string
}

// UploadMessage returns the user-facing confirmation for a successful upload.
func (w *Watchlist) UploadMessage() string {
	return fmt.Sprintf("Uploaded %s successfully.", w.Filename)
}

// ParseError indicates the payload looked like a CSV file but could not be
// parsed as one. Detail carries the underlying parser message for display.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing CSV: %s", e.Detail)
}

// DecodeUpload decodes the content string a browser posts for a file upload.
// Accepts both a bare base64 string and the "data:<mime>;base64,<data>" form.
func DecodeUpload(contents string) ([]byte, error) {
	if contents == "" {
		return nil, apperrors.ErrInvalidUploadFile
	}
	if idx := strings.Index(contents, ","); idx >= 0 && strings.Contains(contents[:idx], ";base64") {
		contents = contents[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(contents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUploadFile, err)
	}
	return decoded, nil
}

// Parse parses a raw CSV payload into a Watchlist.
//
// Returns apperrors.ErrInvalidUploadFile when the filename does not end in
// .csv or the payload is empty, a *ParseError when the payload is not valid
// CSV, and apperrors.ErrMissingStockColumn when the header has no 'Stock'
// column. Cell values are trimmed; empty cells are skipped; duplicates and
// row order are preserved.
func Parse(filename string, data []byte) (*Watchlist, error) {
	if !strings.HasSuffix(filename, ".csv") {
		return nil, apperrors.ErrInvalidUploadFile
	}
	if len(data) == 0 {
		return nil, apperrors.ErrInvalidUploadFile
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Detail: err.Error()}
	}
	if len(records) == 0 {
		return nil, &ParseError{Detail: "empty file"}
	}

	// Locate the required column in the header row. Exact match, like the
	// column lookup the upstream dashboard performs.
	column := -1
	for i, name := range records[0] {
		if strings.TrimSpace(name) == StockColumn {
			column = i
			break
		}
	}
	if column == -1 {
		return nil, apperrors.ErrMissingStockColumn
	}

	symbols := make([]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if column >= len(row) {
			continue
		}
		symbol := strings.TrimSpace(row[column])
		if symbol == "" {
			continue
		}
		symbols = append(symbols, symbol)
	}

	return &Watchlist{Filename: filename, Symbols: symbols}, nil
}
