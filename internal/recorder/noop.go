package recorder

import "github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"

// Compile-time interface check.
var _ Recorder = (*NoopRecorder)(nil)

// NoopRecorder is used when no run-history database is configured or the
// configured one failed to open. Records are discarded; the pipeline keeps
// serving.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(_ *Run) error        { return nil }
func (n *NoopRecorder) List() ([]Run, error)       { return nil, nil }
func (n *NoopRecorder) Get(_ string) (*Run, error) { return nil, apperrors.ErrRunNotFound }
func (n *NoopRecorder) Delete(_ string) error      { return apperrors.ErrRunNotFound }
func (n *NoopRecorder) Close() error               { return nil }
