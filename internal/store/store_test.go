package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/batchpdf/internal/batcherr"
	"github.com/ternarybob/batchpdf/internal/jobtypes"
)

func newRecord(id string) *jobtypes.JobRecord {
	return jobtypes.NewJobRecord(id, "extract_text", []string{"a.pdf"}, nil, time.Now())
}

func TestStore_InsertAndGetSnapshot(t *testing.T) {
	s := New()
	r := newRecord("job_1")

	assert.NoError(t, s.Insert(r))

	snap, err := s.GetSnapshot("job_1")
	assert.NoError(t, err)
	assert.Equal(t, "job_1", snap.ID)
	assert.Equal(t, jobtypes.StatusPending, snap.Status)
}

func TestStore_InsertDuplicate(t *testing.T) {
	s := New()
	assert.NoError(t, s.Insert(newRecord("job_1")))

	err := s.Insert(newRecord("job_1"))
	assert.Error(t, err)
	assert.True(t, batcherr.Is(err, batcherr.KindSystemError))
}

func TestStore_GetSnapshot_NotFound(t *testing.T) {
	s := New()
	_, err := s.GetSnapshot("missing")
	assert.Error(t, err)
	assert.True(t, batcherr.Is(err, batcherr.KindNotFound))
}

func TestStore_Mutate_NotFound(t *testing.T) {
	s := New()
	err := s.Mutate("missing", func(r *jobtypes.JobRecord) {})
	assert.Error(t, err)
	assert.True(t, batcherr.Is(err, batcherr.KindNotFound))
}

func TestStore_Mutate_SeesLiveRecord(t *testing.T) {
	s := New()
	assert.NoError(t, s.Insert(newRecord("job_1")))

	err := s.Mutate("job_1", func(r *jobtypes.JobRecord) {
		r.Status = jobtypes.StatusRunning
		r.ProcessedFiles = 1
	})
	assert.NoError(t, err)

	snap, err := s.GetSnapshot("job_1")
	assert.NoError(t, err)
	assert.Equal(t, jobtypes.StatusRunning, snap.Status)
	assert.Equal(t, 1, snap.ProcessedFiles)
}

func TestStore_Remove(t *testing.T) {
	s := New()
	assert.NoError(t, s.Insert(newRecord("job_1")))
	s.Remove("job_1")

	_, err := s.GetSnapshot("job_1")
	assert.True(t, batcherr.Is(err, batcherr.KindNotFound))
}

func TestStore_ListIDs(t *testing.T) {
	s := New()
	assert.NoError(t, s.Insert(newRecord("job_1")))
	assert.NoError(t, s.Insert(newRecord("job_2")))

	ids := s.ListIDs()
	assert.ElementsMatch(t, []string{"job_1", "job_2"}, ids)
}

func TestStore_EvictTerminalOlderThan(t *testing.T) {
	s := New()

	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()

	oldTerminal := newRecord("old_terminal")
	oldTerminal.Status = jobtypes.StatusCompleted
	oldTerminal.CompletedAt = &old
	assert.NoError(t, s.Insert(oldTerminal))

	recentTerminal := newRecord("recent_terminal")
	recentTerminal.Status = jobtypes.StatusCompleted
	recentTerminal.CompletedAt = &recent
	assert.NoError(t, s.Insert(recentTerminal))

	running := newRecord("running")
	running.Status = jobtypes.StatusRunning
	assert.NoError(t, s.Insert(running))

	cutoff := time.Now().Add(-24 * time.Hour)
	removed := s.EvictTerminalOlderThan(func(r *jobtypes.JobRecord) bool {
		return r.CompletedAt.Before(cutoff)
	})

	assert.Equal(t, 1, removed)

	ids := s.ListIDs()
	assert.ElementsMatch(t, []string{"recent_terminal", "running"}, ids)
}

func TestStore_EvictTerminalOlderThan_NeverRemovesNonTerminal(t *testing.T) {
	s := New()
	running := newRecord("running")
	running.Status = jobtypes.StatusRunning
	assert.NoError(t, s.Insert(running))

	removed := s.EvictTerminalOlderThan(func(r *jobtypes.JobRecord) bool { return true })
	assert.Equal(t, 0, removed)
	assert.Len(t, s.ListIDs(), 1)
}

// TestStore_ConcurrentMutate exercises the coarse lock under concurrent
// writers to the same record; the counters must end up exactly
// consistent, never torn.
func TestStore_ConcurrentMutate(t *testing.T) {
	s := New()
	assert.NoError(t, s.Insert(newRecord("job_1")))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Mutate("job_1", func(r *jobtypes.JobRecord) {
				r.ProcessedFiles++
			})
		}()
	}
	wg.Wait()

	snap, err := s.GetSnapshot("job_1")
	assert.NoError(t, err)
	assert.Equal(t, 100, snap.ProcessedFiles)
}
