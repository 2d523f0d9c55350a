package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/readstack/internal/config"
)

// AuditCleanupEnqueuer queues a retention sweep over stored audit events.
type AuditCleanupEnqueuer interface {
	EnqueueAuditCleanup(retentionDays int) error
}

// AuditRetentionScheduler periodically enqueues a cleanup task that
// prunes audit events older than the retention window.
type AuditRetentionScheduler struct {
	enqueuer AuditCleanupEnqueuer
	cfg      config.Tasks

	cron      *cron.Cron
	mu        sync.RWMutex
	isRunning bool
}

// NewAuditRetentionScheduler creates a new scheduler instance.
func NewAuditRetentionScheduler(enqueuer AuditCleanupEnqueuer, cfg config.Tasks) *AuditRetentionScheduler {
	return &AuditRetentionScheduler{
		enqueuer: enqueuer,
		cfg:      cfg,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the retention schedule.
func (s *AuditRetentionScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.AuditRetentionSchedule, func() {
		s.runCleanup()
	}); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.AuditRetentionSchedule, err)
	}

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit retention scheduler: started with schedule '%s' (keeping %d days)",
		s.cfg.AuditRetentionSchedule, s.cfg.AuditRetentionDays)
	return nil
}

// Stop stops the schedule, waiting for a running enqueue.
func (s *AuditRetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false

	log.Printf("Audit retention scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *AuditRetentionScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *AuditRetentionScheduler) runCleanup() {
	if err := s.enqueuer.EnqueueAuditCleanup(s.cfg.AuditRetentionDays); err != nil {
		log.Printf("Audit retention: failed to enqueue cleanup task: %v", err)
		return
	}
	log.Printf("Audit retention: cleanup task enqueued")
}
