// -----------------------------------------------------------------------
// Janitor: periodically evicts terminal JobRecords older than a
// configurable max age. Scheduled with robfig/cron, the same library the
// teacher's scheduler service uses for its background sweeps, via an
// "@every" entry rather than a raw ticker.
// -----------------------------------------------------------------------

package janitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/batchpdf/internal/jobtypes"
	"github.com/ternarybob/batchpdf/internal/store"
)

// Janitor sweeps a Store on a cron schedule.
type Janitor struct {
	store    *store.Store
	logger   arbor.ILogger
	maxAge   time.Duration
	interval time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	running bool
}

func New(s *store.Store, logger arbor.ILogger, interval, maxAge time.Duration) *Janitor {
	return &Janitor{store: s, logger: logger, interval: interval, maxAge: maxAge}
}

// Start schedules the periodic sweep. Idempotent.
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return nil
	}

	j.cron = cron.New()
	spec := fmt.Sprintf("@every %s", j.interval.String())
	id, err := j.cron.AddFunc(spec, j.sweep)
	if err != nil {
		return fmt.Errorf("janitor: failed to schedule sweep: %w", err)
	}
	j.entryID = id
	j.cron.Start()
	j.running = true
	j.logger.Info().Str("interval", j.interval.String()).Str("max_age", j.maxAge.String()).Msg("janitor started")
	return nil
}

// Stop halts the scheduled sweep. Safe to call even if Start was never
// called, and safe to call more than once.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.running = false
	j.logger.Info().Msg("janitor stopped")
}

// Sweep runs one eviction pass immediately and returns the number of
// records removed. Exposed directly so tests and a manual "run now"
// caller do not have to wait on the cron schedule.
func (j *Janitor) Sweep() int {
	return j.sweepAt(time.Now())
}

func (j *Janitor) sweep() {
	removed := j.Sweep()
	if removed > 0 {
		j.logger.Info().Int("removed", removed).Msg("janitor evicted aged jobs")
	}
}

func (j *Janitor) sweepAt(now time.Time) int {
	cutoff := now.Add(-j.maxAge)
	return j.store.EvictTerminalOlderThan(func(r *jobtypes.JobRecord) bool {
		return r.CompletedAt != nil && r.CompletedAt.Before(cutoff)
	})
}
