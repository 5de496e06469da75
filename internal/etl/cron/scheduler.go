package cronjob

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/shopgraph/shopgraph/internal/etl"
)

// Scheduler reruns the pipeline on a cron schedule. Triggers never overlap:
// one that fires while the previous run is still going is skipped,
// because concurrent loads against the same graph are not safe.
type Scheduler struct {
	runner   *etl.Runner
	schedule string

	mu sync.Mutex
}

func NewScheduler(runner *etl.Runner, schedule string) *Scheduler {
	return &Scheduler{runner: runner, schedule: schedule}
}

// Start initializes the cron task
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.schedule, func() {
		s.RunOnce()
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.schedule, err)
	}

	log.Printf("ETL scheduler started (schedule %q)", s.schedule)
	c.Start()
	return nil
}

// RunOnce executes one pipeline run now.
func (s *Scheduler) RunOnce() {
	if !s.mu.TryLock() {
		log.Println("Previous ETL run still in progress, skipping this trigger")
		return
	}
	defer s.mu.Unlock()

	if _, err := s.runner.Run(context.Background()); err != nil {
		log.Printf("ETL run failed: %v", err)
	}
}
