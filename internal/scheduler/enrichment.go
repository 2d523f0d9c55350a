// Package scheduler runs periodic background sweeps over the collection.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/readstack/internal/config"
	"github.com/mrlokans/readstack/internal/metadata"
)

// EnrichmentScheduler periodically fills missing metadata on stored
// books. Each run visits at most the configured batch of books.
type EnrichmentScheduler struct {
	enricher *metadata.Enricher
	cfg      config.Enrichment

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	cancelFunc context.CancelFunc
}

// NewEnrichmentScheduler creates a new scheduler instance.
func NewEnrichmentScheduler(enricher *metadata.Enricher, cfg config.Enrichment) *EnrichmentScheduler {
	return &EnrichmentScheduler{
		enricher: enricher,
		cfg:      cfg,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if enrichment is enabled.
func (s *EnrichmentScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Enrichment scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Enrichment scheduler: started with schedule '%s'", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (s *EnrichmentScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Enrichment scheduler: stopped")
}

// RunNow triggers an immediate sweep.
func (s *EnrichmentScheduler) RunNow() {
	go s.runSweep()
}

// IsRunning returns whether the scheduler is active.
func (s *EnrichmentScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sweep will occur.
func (s *EnrichmentScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSweep performs the actual enrichment sweep.
func (s *EnrichmentScheduler) runSweep() {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		log.Printf("Enrichment sweep: skipped (already running)")
		return
	}
	s.isSweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSweeping = false
		s.mu.Unlock()
	}()

	log.Printf("Enrichment sweep: starting (batch size %d)", s.cfg.Batch)
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	enriched, err := s.enricher.EnrichMissing(ctx, s.cfg.Batch)
	if err != nil {
		log.Printf("Enrichment sweep: failed: %v", err)
		return
	}

	log.Printf("Enrichment sweep: enriched %d books in %v",
		enriched, time.Since(startTime).Round(time.Millisecond))
}
