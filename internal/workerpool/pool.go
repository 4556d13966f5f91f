// -----------------------------------------------------------------------
// WorkerPool: a bounded-concurrency executor of arbitrary submitted
// tasks. Adapted from the teacher's queue-backed worker pool
// (internal/worker/pool.go), generalized from "dequeue a job message and
// dispatch to a registered executor" to a plain channel-based task
// queue, since this engine's JobExecutor is itself the unit of work.
// -----------------------------------------------------------------------

package workerpool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/batchpdf/internal/common"
)

// Task is a zero-argument unit of work submitted to the pool. Tasks run
// in FIFO order of submission; the pool applies no priority.
type Task func()

// Handle is returned by Submit so a caller can wait for a task to finish
// if it wants to (the engine itself does not need this for jobs, since
// job completion is observed through JobStore, but it keeps the
// worker-pool contract symmetric with "future-like handle" from spec).
type Handle struct {
	done chan struct{}
}

// Wait blocks until the task this handle belongs to has run.
func (h *Handle) Wait() {
	<-h.done
}

// Pool runs a fixed number of worker goroutines pulling tasks off a
// single shared, buffered queue.
type Pool struct {
	logger     arbor.ILogger
	numWorkers int
	tasks      chan taskEnvelope
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc

	mu       sync.Mutex
	started  bool
	stopping bool
}

type taskEnvelope struct {
	fn   Task
	done chan struct{}
}

// New constructs a pool with the given worker count (default 4 when n
// is not positive) and a generously sized backlog queue so Submit never
// blocks the caller under normal operation.
func New(n int, logger arbor.ILogger) *Pool {
	if n <= 0 {
		n = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		logger:     logger,
		numWorkers: n,
		tasks:      make(chan taskEnvelope, 1024),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the worker goroutines. Idempotent.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.logger.Info().Int("num_workers", p.numWorkers).Msg("starting worker pool")
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		workerID := i
		common.SafeGo(p.logger, fmt.Sprintf("worker-%d", workerID), func() {
			p.worker(workerID)
		})
	}
}

// Submit enqueues a task for execution, FIFO, and returns a handle the
// caller may Wait on. Submitting after Shutdown has begun is a no-op;
// the returned handle's channel is closed immediately so Wait returns.
func (p *Pool) Submit(fn Task) *Handle {
	h := &Handle{done: make(chan struct{})}
	p.mu.Lock()
	stopping := p.stopping
	p.mu.Unlock()
	if stopping {
		close(h.done)
		return h
	}
	select {
	case p.tasks <- taskEnvelope{fn: fn, done: h.done}:
	case <-p.ctx.Done():
		close(h.done)
	}
	return h
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	p.logger.Debug().Int("worker_id", id).Msg("worker started")
	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug().Int("worker_id", id).Msg("worker stopping")
			return
		case env, ok := <-p.tasks:
			if !ok {
				return
			}
			p.run(env)
		}
	}
}

func (p *Pool) run(env taskEnvelope) {
	defer close(env.done)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("worker task panicked")
		}
	}()
	env.fn()
}

// Shutdown stops accepting submissions and waits up to grace for
// in-flight tasks to finish. Cancellation of in-flight jobs (the
// cooperative cancel_signal) is the caller's responsibility — the pool
// only cancels its own context, which unblocks idle workers immediately
// and lets busy workers finish their current task.
func (p *Pool) Shutdown(grace time.Duration) {
	p.mu.Lock()
	p.stopping = true
	p.mu.Unlock()

	p.logger.Info().Msg("shutting down worker pool")
	p.cancel()

	waitDone := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		p.logger.Info().Msg("worker pool stopped")
	case <-time.After(grace):
		p.logger.Warn().Dur("grace", grace).Msg("worker pool shutdown grace period elapsed")
	}
}
