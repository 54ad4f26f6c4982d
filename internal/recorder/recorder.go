// Package recorder persists run history: one record per pipeline invocation
// (options, chart, cutoffs, export, or scheduled job). Price data itself is
// never persisted.
package recorder

import "time"

// Run kinds.
const (
	KindOptions = "options"
	KindChart   = "chart"
	KindCutoffs = "cutoffs"
	KindExport  = "export"
	KindJob     = "job"
)

// Run statuses.
const (
	StatusOK      = "ok"      // at least one symbol produced data
	StatusPartial = "partial" // data produced, some symbols failed
	StatusFailed  = "failed"  // upload rejected or every symbol failed
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Provider    string    `json:"provider"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	SymbolCount int       `json:"symbol_count"`
	ErrorCount  int       `json:"error_count"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	FetchErrors []string  `json:"fetch_errors"`

	// Payload is the uploaded CSV, stored encrypted and only when a
	// storage key is configured. Never returned by List.
	Payload []byte `json:"-"`
}

// Recorder persists and retrieves run history.
type Recorder interface {
	Record(run *Run) error
	List() ([]Run, error)
	Get(id string) (*Run, error)
	Delete(id string) error
	Close() error
}
