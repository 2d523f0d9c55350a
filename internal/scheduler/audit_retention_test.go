package scheduler

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readstack/internal/config"
)

type recordingEnqueuer struct {
	mu    sync.Mutex
	calls []int
	err   error
}

func (r *recordingEnqueuer) EnqueueAuditCleanup(retentionDays int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, retentionDays)
	return r.err
}

func (r *recordingEnqueuer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func retentionConfig() config.Tasks {
	return config.Tasks{
		AuditRetentionSchedule: "30 3 * * *",
		AuditRetentionDays:     30,
	}
}

func TestAuditRetentionScheduler_StartStop(t *testing.T) {
	s := NewAuditRetentionScheduler(&recordingEnqueuer{}, retentionConfig())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	// Second start is a no-op
	require.NoError(t, s.Start())

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestAuditRetentionScheduler_InvalidSchedule(t *testing.T) {
	cfg := retentionConfig()
	cfg.AuditRetentionSchedule = "not a schedule"
	s := NewAuditRetentionScheduler(&recordingEnqueuer{}, cfg)

	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestAuditRetentionScheduler_CleanupEnqueuesConfiguredRetention(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	cfg := retentionConfig()
	cfg.AuditRetentionDays = 14
	s := NewAuditRetentionScheduler(enqueuer, cfg)

	s.runCleanup()

	require.Equal(t, 1, enqueuer.callCount())
	assert.Equal(t, []int{14}, enqueuer.calls)
}

func TestAuditRetentionScheduler_CleanupEnqueueFailure(t *testing.T) {
	enqueuer := &recordingEnqueuer{err: errors.New("queue closed")}
	s := NewAuditRetentionScheduler(enqueuer, retentionConfig())

	// Failure to enqueue is logged, never panics.
	s.runCleanup()

	assert.Equal(t, 1, enqueuer.callCount())
}
