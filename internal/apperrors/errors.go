package apperrors

import "errors"

// Upload errors represent problems with the uploaded watchlist file itself.
// These short-circuit the whole pipeline: nothing is fetched or computed.
var (
	// ErrInvalidUploadFile indicates the upload is missing, is not a .csv file,
	// or could not be decoded.
	ErrInvalidUploadFile = errors.New("please upload a valid CSV file")

	// ErrMissingStockColumn indicates the CSV header has no 'Stock' column.
	ErrMissingStockColumn = errors.New("csv must contain a 'Stock' column")
)

// Data errors represent fetch outcomes over the whole watchlist.
var (
	// ErrNoValidData indicates every ticker in the batch failed to fetch.
	// Distinct from an empty watchlist: per-ticker errors accompany it.
	ErrNoValidData = errors.New("no valid data for any stock")

	// ErrNoObservations indicates a provider returned a result with no usable
	// price rows for one symbol.
	ErrNoObservations = errors.New("no data available")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidDateRange indicates the provided date range is invalid
	// (e.g., dates that do not parse).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidCutoff indicates the cutoff date does not parse.
	ErrInvalidCutoff = errors.New("invalid cutoff date")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrUnknownExportFormat indicates a format other than csv or parquet.
	ErrUnknownExportFormat = errors.New("unknown export format")

	// ErrUnknownProvider indicates a market data provider name that is not
	// configured in this build.
	ErrUnknownProvider = errors.New("unknown market data provider")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These indicate an operation failed, but not due to bad
// input.
var (
	// Run history operation errors
	ErrRunNotFound          = errors.New("run not found")
	ErrFailedToRecordRun    = errors.New("failed to record run")
	ErrFailedToRetrieveRuns = errors.New("failed to retrieve runs")

	// Export operation errors
	ErrFailedToWriteExport = errors.New("failed to write export file")
)
