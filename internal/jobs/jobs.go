// Package jobs loads the optional scheduled-export jobs file and mounts the
// jobs on a cron scheduler.
package jobs

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/export"
)

// Job is one scheduled export: fetch a watchlist CSV from disk and write
// per-symbol files on a cron schedule.
type Job struct {
	Name      string `yaml:"name"`
	Schedule  string `yaml:"schedule"`
	Watchlist string `yaml:"watchlist"`

	// LookbackDays selects a trailing window ending today. Mutually
	// exclusive with StartDate/EndDate.
	LookbackDays int    `yaml:"lookback_days"`
	StartDate    string `yaml:"start_date"`
	EndDate      string `yaml:"end_date"`

	Format    string `yaml:"format"`
	OutputDir string `yaml:"output_dir"`
}

// File is the top-level structure of the jobs YAML file.
type File struct {
	Jobs []Job `yaml:"jobs"`
}

// Load reads and validates a jobs file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading jobs file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing jobs file: %w", err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate checks every job; the returned error names the first offending
// job and field.
func (f *File) Validate() error {
	for i, job := range f.Jobs {
		name := job.Name
		if name == "" {
			return fmt.Errorf("job %d: name is required", i)
		}
		if job.Watchlist == "" {
			return fmt.Errorf("job %q: watchlist is required", name)
		}
		if job.Schedule == "" {
			return fmt.Errorf("job %q: schedule is required", name)
		}
		if _, err := cron.ParseStandard(job.Schedule); err != nil {
			return fmt.Errorf("job %q: invalid schedule %q: %v", name, job.Schedule, err)
		}
		if _, err := export.ParseFormat(job.Format); err != nil {
			return fmt.Errorf("job %q: %v", name, err)
		}
		if job.LookbackDays < 0 {
			return fmt.Errorf("job %q: lookback_days must not be negative", name)
		}
		hasRange := job.StartDate != "" || job.EndDate != ""
		if job.LookbackDays > 0 && hasRange {
			return fmt.Errorf("job %q: lookback_days and start_date/end_date are mutually exclusive", name)
		}
		if hasRange {
			if _, _, err := job.parseRange(); err != nil {
				return fmt.Errorf("job %q: %v", name, err)
			}
		}
	}
	return nil
}

// Range resolves the job's date range at execution time. defaultDays is
// used when the job specifies neither lookback_days nor explicit dates.
func (j *Job) Range(now time.Time, defaultDays int) (time.Time, time.Time, error) {
	if j.StartDate != "" || j.EndDate != "" {
		return j.parseRange()
	}
	days := j.LookbackDays
	if days == 0 {
		days = defaultDays
	}
	end := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days-1)
	return start, end, nil
}

func (j *Job) parseRange() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", j.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q", j.StartDate)
	}
	end, err := time.Parse("2006-01-02", j.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q", j.EndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date before start_date")
	}
	return start.UTC(), end.UTC(), nil
}
