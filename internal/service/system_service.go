package service

import (
	"database/sql"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/database"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService. db may be nil when run
// recording is disabled; health then reports only the process itself.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	if s.db == nil {
		return nil
	}
	return database.HealthCheck(s.db)
}

// RecorderEnabled reports whether a run-history database is attached.
func (s *SystemService) RecorderEnabled() bool {
	return s.db != nil
}

// CheckVersion returns the application version.
func (s *SystemService) CheckVersion() string {
	return version.Version
}
