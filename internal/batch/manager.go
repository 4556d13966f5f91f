// -----------------------------------------------------------------------
// BatchManager: the public façade over the engine. Callers create,
// query, cancel, and retry jobs exclusively through this type; it is the
// only component that touches every other subsystem.
// -----------------------------------------------------------------------

package batch

import (
	"os"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/batchpdf/internal/batcherr"
	"github.com/ternarybob/batchpdf/internal/configstore"
	"github.com/ternarybob/batchpdf/internal/executor"
	"github.com/ternarybob/batchpdf/internal/janitor"
	"github.com/ternarybob/batchpdf/internal/jobtypes"
	"github.com/ternarybob/batchpdf/internal/registry"
	"github.com/ternarybob/batchpdf/internal/report"
	"github.com/ternarybob/batchpdf/internal/store"
	"github.com/ternarybob/batchpdf/internal/workerpool"

	"github.com/ternarybob/batchpdf/internal/common"
)

const component = "batchmanager"

// Manager wires together the store, registry, pool, executor, janitor,
// and config store behind the operations spec.md §4.5 names.
type Manager struct {
	cfg      common.EngineConfig
	logger   arbor.ILogger
	store    *store.Store
	registry *registry.Registry
	pool     *workerpool.Pool
	executor *executor.Executor
	janitor  *janitor.Janitor
	configs  *configstore.Store
}

// New constructs a Manager and starts its worker pool and janitor.
func New(cfg common.EngineConfig, reg *registry.Registry, logger arbor.ILogger) (*Manager, error) {
	st := store.New()
	pool := workerpool.New(cfg.WorkerCount, logger)
	pool.Start()

	exec := executor.New(st, reg, logger, cfg.StopOnError)

	cfgStore, err := configstore.New(cfg.ConfigStoreDir(), logger)
	if err != nil {
		return nil, err
	}

	jan := janitor.New(st, logger, cfg.CleanupInterval, cfg.CleanupMaxAge)
	if err := jan.Start(); err != nil {
		return nil, batcherr.SystemError(component, err)
	}

	return &Manager{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		registry: reg,
		pool:     pool,
		executor: exec,
		janitor:  jan,
		configs:  cfgStore,
	}, nil
}

// Create validates and schedules a new job, returning its initial
// snapshot (status pending).
func (m *Manager) Create(operation string, files []string, params map[string]interface{}) (jobtypes.Snapshot, error) {
	return m.create(operation, files, params, nil)
}

// CreateWithProgress is Create plus a progress callback invoked after
// each file is processed.
func (m *Manager) CreateWithProgress(operation string, files []string, params map[string]interface{}, progress jobtypes.ProgressCallback) (jobtypes.Snapshot, error) {
	return m.create(operation, files, params, progress)
}

func (m *Manager) create(operation string, files []string, params map[string]interface{}, progress jobtypes.ProgressCallback) (jobtypes.Snapshot, error) {
	if operation == "" {
		return jobtypes.Snapshot{}, batcherr.InvalidInput(component, "operation must not be empty")
	}
	if _, ok := m.registry.Lookup(operation); !ok {
		return jobtypes.Snapshot{}, batcherr.InvalidInput(component, "unknown operation: "+operation)
	}
	if params == nil {
		params = map[string]interface{}{}
	}

	validFiles := make([]string, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || !info.Mode().IsRegular() {
			m.logger.Warn().Str("file", f).Msg("skipping missing or non-regular file")
			continue
		}
		validFiles = append(validFiles, f)
	}
	if len(validFiles) == 0 {
		return jobtypes.Snapshot{}, batcherr.InvalidInput(component, "no valid files after filtering")
	}

	id := common.NewJobID()
	record := jobtypes.NewJobRecord(id, operation, validFiles, params, time.Now())
	record.Progress = progress

	if err := m.store.Insert(record); err != nil {
		return jobtypes.Snapshot{}, err
	}

	snap, err := m.store.GetSnapshot(id)
	if err != nil {
		return jobtypes.Snapshot{}, err
	}

	m.pool.Submit(func() {
		m.executor.Run(id)
	})

	return snap, nil
}

// Status returns the current snapshot of a job.
func (m *Manager) Status(id string) (jobtypes.Snapshot, error) {
	return m.store.GetSnapshot(id)
}

// Cancel requests cancellation of a job. Returns false if the id is
// unknown or the job is already terminal.
func (m *Manager) Cancel(id string) (bool, error) {
	var cancelled bool
	err := m.store.Mutate(id, func(r *jobtypes.JobRecord) {
		if r.Status.IsTerminal() {
			cancelled = false
			return
		}
		r.CancelSignal.Store(true)
		if r.Status == jobtypes.StatusPending {
			now := time.Now()
			r.Status = jobtypes.StatusCancelled
			r.CompletedAt = &now
		}
		cancelled = true
	})
	if err != nil {
		if batcherr.Is(err, batcherr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return cancelled, nil
}

// Statistics computes the derived statistics for a job snapshot.
func (m *Manager) Statistics(id string) (report.Statistics, error) {
	snap, err := m.store.GetSnapshot(id)
	if err != nil {
		return report.Statistics{}, err
	}
	return report.ComputeStatistics(snap, time.Now()), nil
}

// Report builds the full structured report for a job.
func (m *Manager) Report(id string) (report.Report, error) {
	snap, err := m.store.GetSnapshot(id)
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(snap, time.Now()), nil
}

// SaveConfig persists the operation and params of an existing job under
// name for later reuse.
func (m *Manager) SaveConfig(id, name string) (bool, error) {
	snap, err := m.store.GetSnapshot(id)
	if err != nil {
		return false, err
	}
	entry := configstore.NewEntry(name, snap.Operation, snap.Params, snap.ID)
	if err := m.configs.Save(entry); err != nil {
		return false, err
	}
	return true, nil
}

// LoadConfig retrieves a previously saved configuration by name.
func (m *Manager) LoadConfig(name string) (configstore.Entry, error) {
	return m.configs.Load(name)
}

// RetryFailed creates a new job covering the failed-file subset of a
// completed source job.
func (m *Manager) RetryFailed(id string) (jobtypes.Snapshot, error) {
	snap, err := m.store.GetSnapshot(id)
	if err != nil {
		return jobtypes.Snapshot{}, err
	}
	if snap.Status != jobtypes.StatusCompleted {
		return jobtypes.Snapshot{}, batcherr.InvalidState(component, "source job is not completed: "+string(snap.Status))
	}
	failed := snap.FailedFileSubset()
	if len(failed) == 0 {
		return jobtypes.Snapshot{}, batcherr.InvalidInput(component, "source job has no failed files")
	}
	return m.Create(snap.Operation, failed, snap.Params)
}

// Shutdown cancels every non-terminal job, drains the worker pool, and
// stops the janitor. Best-effort: all resources are released even if a
// step fails.
func (m *Manager) Shutdown() {
	for _, id := range m.store.ListIDs() {
		m.store.Mutate(id, func(r *jobtypes.JobRecord) {
			if !r.Status.IsTerminal() {
				r.CancelSignal.Store(true)
			}
		})
	}
	m.pool.Shutdown(m.cfg.ShutdownGrace)
	m.janitor.Stop()
}

// Janitor exposes the underlying Janitor for callers that want to force
// an immediate sweep (e.g. tests, or an operator command).
func (m *Manager) Janitor() *janitor.Janitor {
	return m.janitor
}

// Registry exposes the OperationRegistry so callers can enumerate
// supported operations without reaching into internals.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}
