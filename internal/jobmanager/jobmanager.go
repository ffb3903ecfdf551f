// Package jobmanager owns every registered job root for the lifetime of one
// packaging run: enumerating them, running each on its own goroutine, and
// propagating cancellation and the first error across the whole set.
//
// Modeled on five82-spindle/internal/workflow.Manager's Start/Stop shape —
// context.WithCancel plus one goroutine per lane guarded by a
// sync.WaitGroup — adapted from "background lanes that loop forever" to
// "job roots that each run once and return".
package jobmanager

import (
	"context"
	"sync"

	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
	"github.com/theassyrian/shaka-packager/internal/handler"
)

// Job is one named root handler the manager will drive to completion.
type Job struct {
	Name string
	Root handler.OriginHandler
}

// Manager owns every registered job root for one packaging run.
type Manager struct {
	mu          sync.Mutex
	jobs        []Job
	initialized bool
	running     bool
	cancel      context.CancelFunc
}

// New creates an empty, uninitialized manager.
func New() *Manager {
	return &Manager{}
}

// Add registers root as a job named name. Valid before InitializeJobs.
func (m *Manager) Add(name string, root handler.OriginHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, Job{Name: name, Root: root})
}

// Jobs returns a snapshot of every registered job, in registration order.
func (m *Manager) Jobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Job(nil), m.jobs...)
}

// InitializeJobs finalizes the registered set before RunJobs may be called.
// A manager with no registered jobs fails to initialize: an empty
// descriptor set is already rejected by the validator, so reaching this
// point with zero jobs means the graph builders produced nothing to run.
func (m *Manager) InitializeJobs() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.jobs) == 0 {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "jobmanager", "InitializeJobs", "no jobs registered", nil)
	}
	m.initialized = true
	return nil
}

// RunJobs runs every registered job root on its own goroutine and blocks
// until all of them complete or one returns an error, matching run()'s
// contract in spec.md §4.7. On the first error it cancels every other
// root's context and returns that error once every goroutine has
// returned.
func (m *Manager) RunJobs(ctx context.Context) error {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "jobmanager", "RunJobs", "jobs not initialized", nil)
	}
	if m.running {
		m.mu.Unlock()
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "jobmanager", "RunJobs", "already running", nil)
	}
	jobs := append([]Job(nil), m.jobs...)
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	errs := make(chan error, len(jobs))
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, job := range jobs {
		go func(job Job) {
			defer wg.Done()
			if err := job.Root.Run(runCtx); err != nil {
				errs <- err
				cancel()
			}
		}(job)
	}
	wg.Wait()
	close(errs)
	cancel()

	m.mu.Lock()
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	for err := range errs {
		return err
	}
	return nil
}

// CancelJobs signals every registered root to stop, both by cancelling the
// run context (unblocking any suspended I/O) and by calling each root's
// cooperative Cancel. It is safe to call from any state; outside RunJobs
// there is no run context to cancel and only each registered root's Cancel
// is called (nothing at all before the first Add), matching cancel()'s
// contract in spec.md §4.7.
func (m *Manager) CancelJobs() {
	m.mu.Lock()
	cancel := m.cancel
	jobs := append([]Job(nil), m.jobs...)
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, job := range jobs {
		job.Root.Cancel()
	}
}
