// cmd/taxnews/scheduler.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler fires background refreshes on a fixed interval so the cache
// is usually already fresh when requests arrive. A failed cycle is
// logged and the scheduler waits for the next tick; it never takes the
// process down.
type Scheduler struct {
	cron     *cron.Cron
	cache    *CacheManager
	interval time.Duration
}

// NewScheduler creates a scheduler that refreshes the cache every
// interval (normally the cache TTL).
func NewScheduler(cache *CacheManager, interval time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		cache:    cache,
		interval: interval,
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.tick); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the background refresh loop and warms the cache once
// immediately so the first request does not pay for a full cycle.
func (s *Scheduler) Start() {
	s.cron.Start()
	go s.tick()
	Logger().Info("Scheduler started, refresh every %s", s.interval)
}

// Stop halts the scheduler. A tick already running completes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) tick() {
	defer RecoverFromPanic("scheduler")

	snap, err := s.cache.ForceRefresh(context.Background())
	if err != nil {
		Logger().Error("Scheduled refresh failed: %v", err)
		return
	}
	Logger().Info("Scheduled refresh done, %d items", len(snap.Items))
}
