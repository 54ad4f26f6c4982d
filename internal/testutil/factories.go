package testutil

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
)

// WatchlistCSV builds a CSV payload with a 'Stock' column and one row per
// symbol.
func WatchlistCSV(symbols ...string) []byte {
	var b strings.Builder
	b.WriteString("Stock\n")
	for _, s := range symbols {
		b.WriteString(s)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// EncodeUpload encodes a CSV payload the way a browser posts file uploads:
// a data URI with base64 contents.
func EncodeUpload(data []byte) string {
	return "data:text/csv;base64," + base64.StdEncoding.EncodeToString(data)
}

// RunBuilder provides a fluent interface for creating test runs.
//
// Example usage:
//
//	// Simple creation with defaults
//	run := testutil.NewRun().Build(t, rec)
//
//	// Customized run
//	run := testutil.NewRun().
//	    WithKind(recorder.KindExport).
//	    WithStatus(recorder.StatusPartial).
//	    WithFetchErrors("ZZZZ: No data available").
//	    Build(t, rec)
type RunBuilder struct {
	ID          string
	Kind        string
	Provider    string
	StartedAt   time.Time
	SymbolCount int
	Status      string
	Message     string
	FetchErrors []string
	Payload     []byte
}

// NewRun creates a RunBuilder with sensible defaults.
func NewRun() *RunBuilder {
	return &RunBuilder{
		ID:          uuid.NewString(),
		Kind:        recorder.KindOptions,
		Provider:    "yahoo",
		StartedAt:   time.Now().UTC().Truncate(time.Second),
		SymbolCount: 2,
		Status:      recorder.StatusOK,
		Message:     "Uploaded stock_list.csv successfully.",
	}
}

// WithID sets a custom ID.
func (b *RunBuilder) WithID(id string) *RunBuilder {
	b.ID = id
	return b
}

// WithKind sets a custom kind.
func (b *RunBuilder) WithKind(kind string) *RunBuilder {
	b.Kind = kind
	return b
}

// WithStatus sets a custom status.
func (b *RunBuilder) WithStatus(status string) *RunBuilder {
	b.Status = status
	return b
}

// WithStartedAt sets a custom start time.
func (b *RunBuilder) WithStartedAt(t time.Time) *RunBuilder {
	b.StartedAt = t
	return b
}

// WithMessage sets a custom user-facing message.
func (b *RunBuilder) WithMessage(message string) *RunBuilder {
	b.Message = message
	return b
}

// WithFetchErrors sets the recorded per-symbol errors.
func (b *RunBuilder) WithFetchErrors(errs ...string) *RunBuilder {
	b.FetchErrors = errs
	return b
}

// WithPayload sets the uploaded CSV payload.
func (b *RunBuilder) WithPayload(payload []byte) *RunBuilder {
	b.Payload = payload
	return b
}

// Build records the run and returns it.
func (b *RunBuilder) Build(t *testing.T, rec recorder.Recorder) recorder.Run {
	t.Helper()

	run := recorder.Run{
		ID:          b.ID,
		Kind:        b.Kind,
		Provider:    b.Provider,
		StartedAt:   b.StartedAt,
		CompletedAt: b.StartedAt.Add(time.Second),
		SymbolCount: b.SymbolCount,
		ErrorCount:  len(b.FetchErrors),
		Status:      b.Status,
		Message:     b.Message,
		FetchErrors: b.FetchErrors,
		Payload:     b.Payload,
	}
	if err := rec.Record(&run); err != nil {
		t.Fatalf("Failed to record test run: %v", err)
	}
	return run
}
