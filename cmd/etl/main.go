package main

import (
	"context"
	"log"

	"github.com/shopgraph/shopgraph/config"
	"github.com/shopgraph/shopgraph/internal/etl"
	cronjob "github.com/shopgraph/shopgraph/internal/etl/cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	runner := etl.NewRunner(cfg)

	// One-shot unless a schedule is configured.
	if cfg.ETL.Schedule == "" {
		if _, err := runner.Run(context.Background()); err != nil {
			log.Fatalf("ETL run failed: %v", err)
		}
		return
	}

	sched := cronjob.NewScheduler(runner, cfg.ETL.Schedule)
	sched.RunOnce()
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	select {}
}
