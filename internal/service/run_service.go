package service

import (
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
)

// RunService exposes the recorded run history.
type RunService struct {
	recorder recorder.Recorder
}

// NewRunService creates a new RunService
func NewRunService(rec recorder.Recorder) *RunService {
	return &RunService{recorder: rec}
}

// GetAllRuns returns all recorded runs, most recent first.
func (s *RunService) GetAllRuns() ([]recorder.Run, error) {
	return s.recorder.List()
}

// GetRun returns one run by ID.
func (s *RunService) GetRun(id string) (*recorder.Run, error) {
	return s.recorder.Get(id)
}

// DeleteRun removes one run by ID.
func (s *RunService) DeleteRun(id string) error {
	return s.recorder.Delete(id)
}
