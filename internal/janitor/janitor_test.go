package janitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/batchpdf/internal/jobtypes"
	"github.com/ternarybob/batchpdf/internal/store"
)

func insertJob(t *testing.T, s *store.Store, id string, status jobtypes.Status, completedAt *time.Time) {
	t.Helper()
	rec := jobtypes.NewJobRecord(id, "extract_text", []string{"a.pdf"}, nil, time.Now())
	rec.Status = status
	rec.CompletedAt = completedAt
	require.NoError(t, s.Insert(rec))
}

// S6 — a janitor sweep removes only terminal jobs older than max age.
func TestJanitor_Sweep_RemovesOnlyAgedTerminalJobs(t *testing.T) {
	s := store.New()
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()

	insertJob(t, s, "old1", jobtypes.StatusCompleted, &old)
	insertJob(t, s, "old2", jobtypes.StatusFailed, &old)
	insertJob(t, s, "old3", jobtypes.StatusCancelled, &old)
	insertJob(t, s, "running", jobtypes.StatusRunning, nil)
	insertJob(t, s, "recent", jobtypes.StatusCompleted, &recent)

	j := New(s, arbor.NewLogger(), time.Hour, 24*time.Hour)
	removed := j.Sweep()

	assert.Equal(t, 3, removed)
	assert.ElementsMatch(t, []string{"running", "recent"}, s.ListIDs())
}

func TestJanitor_Sweep_NeverRemovesNonTerminal(t *testing.T) {
	s := store.New()
	old := time.Now().Add(-48 * time.Hour)
	insertJob(t, s, "pending", jobtypes.StatusPending, nil)
	insertJob(t, s, "running", jobtypes.StatusRunning, nil)
	_ = old

	j := New(s, arbor.NewLogger(), time.Hour, time.Millisecond)
	removed := j.Sweep()

	assert.Equal(t, 0, removed)
	assert.Len(t, s.ListIDs(), 2)
}

func TestJanitor_StartAndStop(t *testing.T) {
	s := store.New()
	j := New(s, arbor.NewLogger(), 10*time.Millisecond, time.Hour)

	require.NoError(t, j.Start())
	// Starting twice must be a no-op, not an error or a second schedule.
	require.NoError(t, j.Start())

	j.Stop()
	// Stopping twice must be safe.
	j.Stop()
}

func TestJanitor_Stop_WithoutStart(t *testing.T) {
	s := store.New()
	j := New(s, arbor.NewLogger(), time.Hour, time.Hour)
	assert.NotPanics(t, func() {
		j.Stop()
	})
}

func TestJanitor_SweepAt_ExactCutoffNotRemoved(t *testing.T) {
	s := store.New()
	now := time.Now()
	completedAt := now.Add(-time.Hour)
	insertJob(t, s, "job_1", jobtypes.StatusCompleted, &completedAt)

	j := New(s, arbor.NewLogger(), time.Hour, time.Hour)
	removed := j.sweepAt(now)

	// completedAt == cutoff exactly: Before(cutoff) is false, so it survives.
	assert.Equal(t, 0, removed)
}
