// -----------------------------------------------------------------------
// Core data model: job status, per-file outcomes, and the job record
// itself. JobRecord is the only mutable entity in the engine; every other
// component either owns part of its lifecycle or reads copies of it.
// -----------------------------------------------------------------------

package jobtypes

import (
	"sync/atomic"
	"time"
)

// Status is a tagged variant with exactly the five job lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether s is one of the states from which no
// further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// OperationOutcome is the per-file result of invoking an operation
// handler. A handler is total: it never panics, it returns an
// OperationOutcome with Success=false and a populated Errors list.
type OperationOutcome struct {
	Success             bool
	Message             string
	OutputFiles         []string
	ExecutionTimeSeconds float64
	Warnings            []string
	Errors              []string
}

// clone returns a deep copy so published snapshots are stable even if the
// owning JobExecutor keeps appending to its live results slice.
func (o OperationOutcome) clone() OperationOutcome {
	c := o
	c.OutputFiles = append([]string(nil), o.OutputFiles...)
	c.Warnings = append([]string(nil), o.Warnings...)
	c.Errors = append([]string(nil), o.Errors...)
	return c
}

// ProgressCallback is invoked after each file is processed, once the
// JobStore lock protecting the record has been released.
type ProgressCallback func(id string, percentComplete float64, outcome OperationOutcome)

// JobRecord is the core mutable entity. All access to its mutable fields
// must go through the owning JobStore's lock. CancelSignal is a
// single-shot atomic flag set by cancellation and checked by the
// JobExecutor at file boundaries; both BatchManager and the executor
// access it inside Store.Mutate.
type JobRecord struct {
	ID             string
	Operation      string
	Status         Status
	TotalFiles     int
	ProcessedFiles int
	FailedFiles    int
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Files          []string
	Params         map[string]interface{}
	Results        []OperationOutcome
	CancelSignal   atomic.Bool
	Progress       ProgressCallback
}

// NewJobRecord allocates a pending record. files and params are copied so
// the record's view of them is immutable after creation, per §3.
func NewJobRecord(id, operation string, files []string, params map[string]interface{}, now time.Time) *JobRecord {
	filesCopy := append([]string(nil), files...)
	paramsCopy := make(map[string]interface{}, len(params))
	for k, v := range params {
		paramsCopy[k] = v
	}
	return &JobRecord{
		ID:         id,
		Operation:  operation,
		Status:     StatusPending,
		TotalFiles: len(filesCopy),
		CreatedAt:  now,
		Files:      filesCopy,
		Params:     paramsCopy,
	}
}

// Snapshot is an immutable copy of a JobRecord returned to callers,
// decoupled from further mutation of the live record.
type Snapshot struct {
	ID             string
	Operation      string
	Status         Status
	TotalFiles     int
	ProcessedFiles int
	FailedFiles    int
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Files          []string
	Params         map[string]interface{}
	Results        []OperationOutcome
}

// Snapshot must be called while holding the owning store's lock.
func (r *JobRecord) Snapshot() Snapshot {
	results := make([]OperationOutcome, len(r.Results))
	for i, o := range r.Results {
		results[i] = o.clone()
	}
	params := make(map[string]interface{}, len(r.Params))
	for k, v := range r.Params {
		params[k] = v
	}
	var started, completed *time.Time
	if r.StartedAt != nil {
		t := *r.StartedAt
		started = &t
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		completed = &t
	}
	return Snapshot{
		ID:             r.ID,
		Operation:      r.Operation,
		Status:         r.Status,
		TotalFiles:     r.TotalFiles,
		ProcessedFiles: r.ProcessedFiles,
		FailedFiles:    r.FailedFiles,
		CreatedAt:      r.CreatedAt,
		StartedAt:      started,
		CompletedAt:    completed,
		Files:          append([]string(nil), r.Files...),
		Params:         params,
		Results:        results,
	}
}

// FailedFileSubset returns the files whose corresponding outcome in
// Results failed, in original order. Used by BatchManager.retry_failed.
func (s Snapshot) FailedFileSubset() []string {
	var out []string
	for i, res := range s.Results {
		if !res.Success && i < len(s.Files) {
			out = append(out, s.Files[i])
		}
	}
	return out
}
