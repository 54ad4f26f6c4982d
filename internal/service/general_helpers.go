package service

import (
	"errors"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/watchlist"
)

// IdleMessage is returned while the upload or date range is still missing.
const IdleMessage = "Upload a CSV and select dates to proceed."

// UploadInput is the raw upload as posted by a client: the declared filename
// plus base64 (optionally data-URI prefixed) contents.
type UploadInput struct {
	Filename string
	Contents string
}

// parseUpload decodes and parses an uploaded watchlist. The decoded CSV
// bytes are returned alongside so runs can store the payload when payload
// encryption is configured.
func parseUpload(in UploadInput) (*watchlist.Watchlist, []byte, error) {
	data, err := watchlist.DecodeUpload(in.Contents)
	if err != nil {
		return nil, nil, err
	}
	wl, err := watchlist.Parse(in.Filename, data)
	if err != nil {
		return nil, nil, err
	}
	return wl, data, nil
}

// uploadErrorMessage maps an upload-level error to its user-facing message.
func uploadErrorMessage(err error) string {
	var parseErr *watchlist.ParseError
	switch {
	case errors.Is(err, apperrors.ErrMissingStockColumn):
		return "CSV must contain a 'Stock' column."
	case errors.As(err, &parseErr):
		return "Error parsing CSV: " + parseErr.Detail
	default:
		return "Please upload a valid CSV file."
	}
}

// runStatus classifies a finished download for the run record.
func runStatus(seriesCount, errorCount int) string {
	switch {
	case seriesCount == 0:
		return recorder.StatusFailed
	case errorCount > 0:
		return recorder.StatusPartial
	default:
		return recorder.StatusOK
	}
}

// intersect returns the members of selected that appear in uploaded,
// preserving selection order.
func intersect(selected, uploaded []string) []string {
	set := make(map[string]struct{}, len(uploaded))
	for _, s := range uploaded {
		set[s] = struct{}{}
	}
	var valid []string
	for _, s := range selected {
		if _, ok := set[s]; ok {
			valid = append(valid, s)
		}
	}
	return valid
}

func truncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
