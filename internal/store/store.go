// -----------------------------------------------------------------------
// JobStore: thread-safe map from job id to JobRecord. A single coarse
// lock guards the whole map and every record it holds, deliberately —
// contention per job is negligible next to the cost of a file operation,
// and a single lock lets mutate() check the §3 invariants in one place.
// -----------------------------------------------------------------------

package store

import (
	"fmt"
	"sync"

	"github.com/ternarybob/batchpdf/internal/batcherr"
	"github.com/ternarybob/batchpdf/internal/jobtypes"
)

const component = "jobstore"

func errDuplicateID(id string) error {
	return fmt.Errorf("duplicate job id: %s", id)
}

// Store is the exclusive owner of all JobRecords.
type Store struct {
	mu      sync.Mutex
	records map[string]*jobtypes.JobRecord
}

func New() *Store {
	return &Store{records: make(map[string]*jobtypes.JobRecord)}
}

// Insert adds a new record. It is an error to insert a duplicate id.
func (s *Store) Insert(record *jobtypes.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return batcherr.SystemError(component, errDuplicateID(record.ID))
	}
	s.records[record.ID] = record
	return nil
}

// GetSnapshot returns a stable copy of the record, or not-found.
func (s *Store) GetSnapshot(id string) (jobtypes.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return jobtypes.Snapshot{}, batcherr.NotFound(component, "job not found: "+id)
	}
	return r.Snapshot(), nil
}

// Mutate runs f under the store's lock with a mutable reference to the
// record, the only channel through which job state changes so that the
// §3 invariants can be enforced in one place. Returns not-found if id is
// unknown. The lock is a plain sync.Mutex and is not reentrant: f must
// not call back into the Store.
func (s *Store) Mutate(id string, f func(r *jobtypes.JobRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return batcherr.NotFound(component, "job not found: "+id)
	}
	f(r)
	return nil
}

// Remove deletes a record unconditionally. Callers (the Janitor) are
// responsible for only removing terminal, aged-out records.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// ListIDs returns every known job id, in no particular order.
func (s *Store) ListIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids
}

// EvictTerminalOlderThan removes every record whose status is terminal,
// whose CompletedAt is set, and for which the cutoff predicate returns
// true, returning how many were removed. Used by the Janitor.
func (s *Store) EvictTerminalOlderThan(cutoff func(r *jobtypes.JobRecord) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, r := range s.records {
		if !r.Status.IsTerminal() || r.CompletedAt == nil {
			continue
		}
		if cutoff(r) {
			delete(s.records, id)
			removed++
		}
	}
	return removed
}
