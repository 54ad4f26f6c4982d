package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/export"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/service"
)

// Scheduler runs the configured export jobs on their cron schedules.
type Scheduler struct {
	cron        *cron.Cron
	exporter    *service.ExportService
	defaultDays int
}

// NewScheduler mounts every job in file on a new cron scheduler. The
// schedule expressions were validated at load time, so registration errors
// are treated as fatal configuration bugs.
func NewScheduler(file *File, exporter *service.ExportService, defaultDays int) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		exporter:    exporter,
		defaultDays: defaultDays,
	}

	for _, job := range file.Jobs {
		job := job
		_, err := s.cron.AddFunc(job.Schedule, func() {
			s.runJob(job)
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Start begins running scheduled jobs in the cron goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runJob executes one scheduled export tick: resolve the range, then run
// the same ingest, fetch, export pipeline a manual export uses.
func (s *Scheduler) runJob(job Job) {
	start, end, err := job.Range(time.Now(), s.defaultDays)
	if err != nil {
		log.Printf("Job %q: failed to resolve date range: %v", job.Name, err)
		return
	}

	// Validated at load time.
	format, _ := export.ParseFormat(job.Format)

	result, err := s.exporter.ExportFromFile(context.Background(), job.Watchlist, start, end, format, job.OutputDir, recorder.KindJob)
	if err != nil {
		log.Printf("Job %q failed: %v", job.Name, err)
		return
	}
	log.Printf("Job %q: wrote %d file(s), %d fetch error(s)", job.Name, len(result.Files), len(result.Errors))
}
