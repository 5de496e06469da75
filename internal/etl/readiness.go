package etl

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RetryPolicy bounds a readiness wait: a fixed number of probe attempts
// with a fixed delay in between. Sleep is a seam for tests; nil means
// time.Sleep.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Sleep       func(time.Duration)
}

func (p RetryPolicy) pause() {
	if p.Sleep != nil {
		p.Sleep(p.Delay)
		return
	}
	time.Sleep(p.Delay)
}

// await probes until the dependency answers or attempts run out. The
// returned error carries the last probe failure.
func (p RetryPolicy) await(ctx context.Context, name string, probe func(context.Context) error) error {
	log.Printf("Waiting for %s...", name)

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = probe(ctx); err == nil {
			log.Printf("%s is ready", name)
			return nil
		}
		if attempt < p.MaxAttempts {
			p.pause()
		}
	}
	return fmt.Errorf("%s not available after %d attempts: %v", name, p.MaxAttempts, err)
}
