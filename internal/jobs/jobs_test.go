package jobs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/jobs"
)

func writeJobsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "jobs.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write jobs file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeJobsFile(t, `
jobs:
  - name: nightly
    schedule: "0 2 * * *"
    watchlist: ./watchlists/core.csv
    lookback_days: 30
    format: parquet
    output_dir: ./exports/nightly
  - name: weekly
    schedule: "@weekly"
    watchlist: ./watchlists/core.csv
    start_date: 2024-01-01
    end_date: 2024-02-01
`)

		file, err := jobs.Load(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(file.Jobs) != 2 {
			t.Fatalf("Expected 2 jobs, got %d", len(file.Jobs))
		}
		if file.Jobs[0].Name != "nightly" || file.Jobs[0].Format != "parquet" {
			t.Errorf("Unexpected first job %+v", file.Jobs[0])
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := jobs.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
	})

	t.Run("invalid schedule names the job", func(t *testing.T) {
		path := writeJobsFile(t, `
jobs:
  - name: broken
    schedule: "not a schedule"
    watchlist: ./core.csv
`)

		_, err := jobs.Load(path)
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if !strings.Contains(err.Error(), `job "broken"`) {
			t.Errorf("Expected error to name the job, got %v", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		path := writeJobsFile(t, `
jobs:
  - name: broken
    schedule: "0 2 * * *"
    watchlist: ./core.csv
    format: xlsx
`)

		if _, err := jobs.Load(path); err == nil {
			t.Fatal("Expected error, got nil")
		}
	})

	t.Run("missing watchlist", func(t *testing.T) {
		path := writeJobsFile(t, `
jobs:
  - name: broken
    schedule: "0 2 * * *"
`)

		_, err := jobs.Load(path)
		if err == nil || !strings.Contains(err.Error(), "watchlist is required") {
			t.Errorf("Expected watchlist error, got %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		path := writeJobsFile(t, `
jobs:
  - schedule: "0 2 * * *"
    watchlist: ./core.csv
`)

		_, err := jobs.Load(path)
		if err == nil || !strings.Contains(err.Error(), "name is required") {
			t.Errorf("Expected name error, got %v", err)
		}
	})

	t.Run("lookback and explicit range are exclusive", func(t *testing.T) {
		path := writeJobsFile(t, `
jobs:
  - name: broken
    schedule: "0 2 * * *"
    watchlist: ./core.csv
    lookback_days: 30
    start_date: 2024-01-01
    end_date: 2024-02-01
`)

		_, err := jobs.Load(path)
		if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
			t.Errorf("Expected exclusivity error, got %v", err)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		path := writeJobsFile(t, `
jobs:
  - name: broken
    schedule: "0 2 * * *"
    watchlist: ./core.csv
    start_date: 2024-02-01
    end_date: 2024-01-01
`)

		if _, err := jobs.Load(path); err == nil {
			t.Fatal("Expected error, got nil")
		}
	})
}

func TestJobRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	t.Run("explicit dates win", func(t *testing.T) {
		job := jobs.Job{StartDate: "2024-01-01", EndDate: "2024-02-01"}

		start, end, err := job.Range(now, 30)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if start.Format("2006-01-02") != "2024-01-01" {
			t.Errorf("Unexpected start %v", start)
		}
		if end.Format("2006-01-02") != "2024-02-01" {
			t.Errorf("Unexpected end %v", end)
		}
	})

	t.Run("lookback window ends tomorrow", func(t *testing.T) {
		job := jobs.Job{LookbackDays: 7}

		start, end, err := job.Range(now, 30)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if end.Format("2006-01-02") != "2024-03-16" {
			t.Errorf("Unexpected end %v", end)
		}
		if start.Format("2006-01-02") != "2024-03-08" {
			t.Errorf("Unexpected start %v", start)
		}
	})

	t.Run("falls back to the default window", func(t *testing.T) {
		job := jobs.Job{}

		start, end, err := job.Range(now, 30)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if end.Sub(start) != 31*24*time.Hour {
			t.Errorf("Unexpected window %v", end.Sub(start))
		}
	})
}
