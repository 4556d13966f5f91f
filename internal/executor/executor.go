// -----------------------------------------------------------------------
// JobExecutor: runs a single JobRecord to completion. One Executor is
// shared by all jobs; each Run call for a job is a single task on exactly
// one worker-pool goroutine, which is what gives the engine its per-job
// result ordering guarantee (§5): a single thread appends to Results in
// file order.
// -----------------------------------------------------------------------

package executor

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/batchpdf/internal/jobtypes"
	"github.com/ternarybob/batchpdf/internal/registry"
	"github.com/ternarybob/batchpdf/internal/store"
)

// mergeOperation receives the job's whole file list in a single handler
// invocation rather than one call per file, since a merge inherently
// spans the batch. See SPEC_FULL.md's "merge as a whole-job operation".
const mergeOperation = "merge"

// jobFilesParamKey is how the merge handler receives the full file list,
// reserved for internal use; the core never otherwise inspects params.
const jobFilesParamKey = "__job_files"

// Executor runs jobs against a shared store and registry.
type Executor struct {
	store       *store.Store
	registry    *registry.Registry
	logger      arbor.ILogger
	stopOnError bool
}

func New(s *store.Store, r *registry.Registry, logger arbor.ILogger, stopOnError bool) *Executor {
	return &Executor{store: s, registry: r, logger: logger, stopOnError: stopOnError}
}

// Run executes jobID synchronously. It is intended to be submitted as a
// single task to the WorkerPool.
func (e *Executor) Run(jobID string) {
	now := time.Now()
	if err := e.store.Mutate(jobID, func(r *jobtypes.JobRecord) {
		if r.Status.IsTerminal() {
			return
		}
		r.Status = jobtypes.StatusRunning
		r.StartedAt = &now
	}); err != nil {
		e.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to mark job running")
		return
	}

	snap, err := e.store.GetSnapshot(jobID)
	if err != nil {
		e.logger.Error().Err(err).Str("job_id", jobID).Msg("job vanished before execution")
		return
	}
	if snap.Status.IsTerminal() {
		// Cancelled while still pending, before this task was dequeued.
		return
	}

	handler, ok := e.registry.Lookup(snap.Operation)
	if !ok {
		completedAt := time.Now()
		e.store.Mutate(jobID, func(r *jobtypes.JobRecord) {
			if r.Status.IsTerminal() {
				return
			}
			r.Status = jobtypes.StatusFailed
			r.CompletedAt = &completedAt
			r.Results = append(r.Results, jobtypes.OperationOutcome{
				Success: false,
				Message: "no handler registered for operation",
				Errors:  []string{fmt.Sprintf("unknown operation: %s", snap.Operation)},
			})
			r.FailedFiles++
		})
		return
	}

	if snap.Operation == mergeOperation {
		e.runMerge(jobID, snap, handler)
		return
	}
	e.runPerFile(jobID, snap, handler)
}

func (e *Executor) runPerFile(jobID string, snap jobtypes.Snapshot, handler registry.Handler) {
	total := len(snap.Files)
	for idx, file := range snap.Files {
		var cancelled bool
		e.store.Mutate(jobID, func(r *jobtypes.JobRecord) {
			if r.CancelSignal.Load() && !r.Status.IsTerminal() {
				now := time.Now()
				r.Status = jobtypes.StatusCancelled
				r.CompletedAt = &now
				cancelled = true
			}
		})
		if cancelled {
			e.logger.Info().Str("job_id", jobID).Int("processed", idx).Msg("job cancelled between files")
			return
		}

		outcome := e.invokeHandler(handler, file, snap.Params)

		var progress jobtypes.ProgressCallback
		var percent float64
		var stopEarly bool
		e.store.Mutate(jobID, func(r *jobtypes.JobRecord) {
			if r.Status.IsTerminal() {
				return
			}
			r.Results = append(r.Results, outcome)
			if outcome.Success {
				r.ProcessedFiles++
			} else {
				r.FailedFiles++
				if e.stopOnError {
					now := time.Now()
					r.Status = jobtypes.StatusFailed
					r.CompletedAt = &now
					stopEarly = true
				}
			}
			progress = r.Progress
			percent = float64(idx+1) / float64(total) * 100
		})

		e.logger.Debug().
			Str("job_id", jobID).
			Str("file", file).
			Bool("success", outcome.Success).
			Float64("execution_time_seconds", outcome.ExecutionTimeSeconds).
			Msg("file processed")

		if progress != nil {
			e.invokeProgress(progress, jobID, percent, outcome)
		}

		if stopEarly {
			e.logger.Warn().Str("job_id", jobID).Str("file", file).Msg("stop_on_error: job failed early")
			return
		}
	}

	now := time.Now()
	e.store.Mutate(jobID, func(r *jobtypes.JobRecord) {
		if r.Status.IsTerminal() {
			return
		}
		r.Status = jobtypes.StatusCompleted
		r.CompletedAt = &now
	})
}

// runMerge invokes the handler exactly once with the whole job file
// list, recording a single OperationOutcome as the job's only result.
func (e *Executor) runMerge(jobID string, snap jobtypes.Snapshot, handler registry.Handler) {
	var cancelled bool
	e.store.Mutate(jobID, func(r *jobtypes.JobRecord) {
		if r.CancelSignal.Load() && !r.Status.IsTerminal() {
			now := time.Now()
			r.Status = jobtypes.StatusCancelled
			r.CompletedAt = &now
			cancelled = true
		}
	})
	if cancelled {
		return
	}

	params := make(map[string]interface{}, len(snap.Params)+1)
	for k, v := range snap.Params {
		params[k] = v
	}
	params[jobFilesParamKey] = snap.Files

	var primary string
	if len(snap.Files) > 0 {
		primary = snap.Files[0]
	}
	outcome := e.invokeHandler(handler, primary, params)

	now := time.Now()
	var progress jobtypes.ProgressCallback
	e.store.Mutate(jobID, func(r *jobtypes.JobRecord) {
		if r.Status.IsTerminal() {
			return
		}
		r.Results = append(r.Results, outcome)
		if outcome.Success {
			r.ProcessedFiles = r.TotalFiles
		} else {
			r.FailedFiles = 1
		}
		r.Status = jobtypes.StatusCompleted
		r.CompletedAt = &now
		progress = r.Progress
	})

	if progress != nil {
		e.invokeProgress(progress, jobID, 100, outcome)
	}
}

// invokeHandler calls handler defensively: a handler contract is total,
// but a broken handler implementation could still panic, and the engine
// must never propagate that into the worker pool.
func (e *Executor) invokeHandler(handler registry.Handler, file string, params map[string]interface{}) (outcome jobtypes.OperationOutcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			outcome = jobtypes.OperationOutcome{
				Success:              false,
				Message:              "handler panicked",
				ExecutionTimeSeconds: 0,
				Errors:               []string{fmt.Sprintf("%v", r)},
			}
		}
	}()
	outcome = handler(file, params)
	if outcome.ExecutionTimeSeconds == 0 {
		outcome.ExecutionTimeSeconds = time.Since(start).Seconds()
	}
	return outcome
}

// invokeProgress runs the callback outside the store lock and swallows
// any panic, per §9: user code must never be able to stall or crash the
// engine.
func (e *Executor) invokeProgress(cb jobtypes.ProgressCallback, jobID string, percent float64, outcome jobtypes.OperationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().Interface("panic", r).Str("job_id", jobID).Msg("progress callback panicked, dropped")
		}
	}()
	cb(jobID, percent, outcome)
}
